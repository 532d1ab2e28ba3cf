package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/shibukawa/seqcomp"
	"github.com/shibukawa/seqcomp/markdownparser"
	"github.com/shibukawa/seqcomp/parser"
)

// Sentinel errors
var (
	ErrNoTranslateInput  = errors.New("no expression or input file given")
	ErrInputFileNotExist = errors.New("input file does not exist")
	ErrTranslationFailed = errors.New("one or more translations failed")
)

// TranslateCmd represents the translate command
type TranslateCmd struct {
	Expression string `arg:"" optional:"" help:"Comprehension expression to translate"`
	Input      string `short:"i" help:"Input file (markdown with comp code blocks, or plain text)" type:"path"`
}

// Run executes the translate command
func (cmd *TranslateCmd) Run(ctx *Context) error {
	config, err := seqcomp.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Input != "" {
		return cmd.runFile(ctx, config)
	}

	if cmd.Expression == "" {
		return ErrNoTranslateInput
	}

	result, err := seqcomp.TranslateWithConfig(cmd.Expression, config)
	if err != nil {
		reportTranslateError(ctx, cmd.Expression, err)
		return ErrTranslationFailed
	}

	fmt.Println(result)

	return nil
}

func (cmd *TranslateCmd) runFile(ctx *Context, config *seqcomp.Config) error {
	if _, err := os.Stat(cmd.Input); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrInputFileNotExist, cmd.Input)
	}

	if ext := strings.ToLower(filepath.Ext(cmd.Input)); ext == ".md" || ext == ".markdown" {
		return cmd.runMarkdown(ctx, config)
	}

	data, err := os.ReadFile(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	result, err := seqcomp.TranslateWithConfig(strings.TrimSpace(string(data)), config)
	if err != nil {
		reportTranslateError(ctx, strings.TrimSpace(string(data)), err)
		return ErrTranslationFailed
	}

	fmt.Println(result)

	return nil
}

func (cmd *TranslateCmd) runMarkdown(ctx *Context, config *seqcomp.Config) error {
	file, err := os.Open(cmd.Input)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	doc, err := markdownparser.Parse(file)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", cmd.Input, err)
	}

	if ctx.Verbose {
		color.Cyan("Found %d comprehension block(s) in %s", len(doc.Blocks), cmd.Input)
	}

	failed := 0

	for _, block := range doc.Blocks {
		result, err := seqcomp.TranslateWithConfig(block.Source, config)
		if err != nil {
			failed++

			color.Red("%s (line %d): %v", block.Name, block.StartLine, err)

			continue
		}

		if !ctx.Quiet {
			fmt.Printf("// %s\n", block.Name)
		}

		fmt.Println(result)
	}

	if failed > 0 {
		return ErrTranslationFailed
	}

	return nil
}

func reportTranslateError(ctx *Context, src string, err error) {
	var parseErr *parser.ParseError
	if errors.As(err, &parseErr) {
		color.Red("%v", parseErr)

		if ctx.Verbose {
			color.Yellow("  input: %s", src)
		}

		return
	}

	color.Red("%v", err)
}
