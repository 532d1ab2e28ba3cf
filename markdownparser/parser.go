// Package markdownparser reads literate comprehension documents: markdown
// files whose fenced code blocks with the "comp" (or "comprehension") info
// string hold comprehension expressions, optionally preceded by YAML front
// matter with document metadata.
package markdownparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// Sentinel errors
var (
	ErrInvalidFrontMatter     = errors.New("invalid front matter")
	ErrNoComprehensionBlock   = errors.New("no comprehension code block found")
	ErrEmptyComprehensionText = errors.New("empty comprehension code block")
)

// Document is a parsed literate comprehension file
type Document struct {
	Metadata map[string]any
	Blocks   []Block
}

// Block is one fenced comprehension found in the document
type Block struct {
	Name      string // nearest heading above the block
	Source    string
	StartLine int // first line of the block content in the original file
}

// Parse parses a literate markdown document and collects its comprehension
// blocks in document order.
func Parse(reader io.Reader) (*Document, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read content: %w", err)
	}

	frontMatter, body, err := parseFrontMatter(string(content))
	if err != nil {
		return nil, err
	}

	frontMatterLines := strings.Count(string(content), "\n") - strings.Count(body, "\n")

	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)

	doc := md.Parser().Parse(text.NewReader([]byte(body)))

	document := &Document{
		Metadata: frontMatter,
	}

	source := []byte(body)
	heading := ""

	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			heading = extractHeadingText(node, source)
		case *ast.FencedCodeBlock:
			if !isComprehensionBlock(node, source) {
				return ast.WalkContinue, nil
			}

			src := extractCodeBlockContent(node, source)
			if strings.TrimSpace(src) == "" {
				return ast.WalkStop, fmt.Errorf("%w: under heading %q", ErrEmptyComprehensionText, heading)
			}

			name := heading
			if name == "" {
				name = fmt.Sprintf("block %d", len(document.Blocks)+1)
			}

			document.Blocks = append(document.Blocks, Block{
				Name:      name,
				Source:    src,
				StartLine: blockStartLine(node, source) + frontMatterLines,
			})
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if len(document.Blocks) == 0 {
		return nil, ErrNoComprehensionBlock
	}

	return document, nil
}

// parseFrontMatter extracts YAML front matter from markdown content
func parseFrontMatter(content string) (map[string]any, string, error) {
	if !strings.HasPrefix(content, "---\n") {
		return make(map[string]any), content, nil
	}

	endIndex := strings.Index(content[4:], "\n---")
	if endIndex == -1 {
		return nil, "", ErrInvalidFrontMatter
	}

	endIndex += 4

	frontMatterContent := content[4:endIndex]
	remaining := content[endIndex+4:]

	if after, ok := strings.CutPrefix(remaining, "\n"); ok {
		remaining = after
	}

	var frontMatter map[string]any
	if err := yaml.Unmarshal([]byte(frontMatterContent), &frontMatter); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrInvalidFrontMatter, err)
	}

	if frontMatter == nil {
		frontMatter = make(map[string]any)
	}

	return frontMatter, remaining, nil
}

func isComprehensionBlock(codeBlock *ast.FencedCodeBlock, content []byte) bool {
	if codeBlock.Info == nil {
		return false
	}

	segment := codeBlock.Info.Segment
	info := strings.TrimSpace(strings.ToLower(string(content[segment.Start:segment.Stop])))

	return info == "comp" || info == "comprehension"
}

func extractCodeBlockContent(codeBlock ast.Node, content []byte) string {
	var result strings.Builder

	if codeBlock.Lines() != nil {
		for i := 0; i < codeBlock.Lines().Len(); i++ {
			line := codeBlock.Lines().At(i)
			result.Write(content[line.Start:line.Stop])
		}
	}

	return strings.TrimRight(result.String(), "\n")
}

func extractHeadingText(heading ast.Node, content []byte) string {
	var result strings.Builder

	_ = ast.Walk(heading, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Text:
			segment := node.Segment
			result.Write(content[segment.Start:segment.Stop])
		case *ast.String:
			result.Write(node.Value)
		}

		return ast.WalkContinue, nil
	})

	return strings.TrimSpace(result.String())
}

// blockStartLine converts the byte offset of the block's first content line
// into a 1-based line number.
func blockStartLine(node ast.Node, content []byte) int {
	if node.Lines() == nil || node.Lines().Len() == 0 {
		return 0
	}

	offset := node.Lines().At(0).Start
	if offset > len(content) {
		offset = len(content)
	}

	return strings.Count(string(content[:offset]), "\n") + 1
}
