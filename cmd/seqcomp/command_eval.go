package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/seqcomp"
	"github.com/shibukawa/seqcomp/runtime/seqrun"
	"gopkg.in/yaml.v3"
)

// ErrInvalidParam is returned for a --param value without a '=' separator.
var ErrInvalidParam = errors.New("invalid parameter, expected name=value")

// EvalCmd represents the eval command
type EvalCmd struct {
	Expression string   `arg:"" help:"Comprehension expression to evaluate"`
	Param      []string `short:"p" help:"Parameter as name=value (value parsed as YAML)"`
	ParamsFile string   `help:"YAML file with parameter values" type:"path"`
}

// Run executes the eval command
func (cmd *EvalCmd) Run(ctx *Context) error {
	params, err := cmd.loadParams()
	if err != nil {
		return err
	}

	comp, err := seqcomp.TranslateAST(cmd.Expression)
	if err != nil {
		color.Red("%v", err)
		return ErrTranslationFailed
	}

	program, err := seqrun.Compile(comp)
	if err != nil {
		return fmt.Errorf("failed to compile comprehension: %w", err)
	}

	if ctx.Verbose {
		color.Cyan("Evaluating with %d parameter(s)", len(params))
	}

	encoder := json.NewEncoder(os.Stdout)

	for value, err := range program.Run(params) {
		if err != nil {
			color.Red("%v", err)
			return ErrTranslationFailed
		}

		if err := encoder.Encode(value); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
	}

	return nil
}

func (cmd *EvalCmd) loadParams() (map[string]any, error) {
	params := make(map[string]any)

	if cmd.ParamsFile != "" {
		data, err := os.ReadFile(cmd.ParamsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read params file: %w", err)
		}

		if err := yaml.Unmarshal(data, &params); err != nil {
			return nil, fmt.Errorf("failed to parse params file: %w", err)
		}
	}

	for _, param := range cmd.Param {
		name, value, err := parseParam(param)
		if err != nil {
			return nil, err
		}

		params[name] = value
	}

	return params, nil
}

// parseParam splits name=value and parses the value as a YAML scalar or
// document, so lists and maps work on the command line too.
func parseParam(param string) (string, any, error) {
	name, raw, found := strings.Cut(param, "=")
	if !found || name == "" {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidParam, param)
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		// fall back to the raw string
		value = raw
	}

	return name, value, nil
}
