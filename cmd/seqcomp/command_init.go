package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"
)

// ErrConfigExists is returned when init would overwrite an existing config.
var ErrConfigExists = errors.New("configuration file already exists")

// InitCmd represents the init command
type InitCmd struct{}

const defaultConfigTemplate = `# seqcomp configuration
input_dir: "."

generation:
    # preferred iteration variable for destructured patterns
    iterator_variable: "it"
    # output file ("" writes to stdout)
    output: ""

validation:
    strict: false
`

// Run executes the init command
func (cmd *InitCmd) Run(ctx *Context) error {
	if _, err := os.Stat(ctx.Config); err == nil {
		return fmt.Errorf("%w: %s", ErrConfigExists, ctx.Config)
	}

	if err := os.WriteFile(ctx.Config, []byte(defaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if !ctx.Quiet {
		color.Cyan("Created %s", ctx.Config)
	}

	return nil
}
