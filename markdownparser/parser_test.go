package markdownparser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLiterateDocument(t *testing.T) {
	input := `---
title: Examples
---

# Doubling

~~~comp
x * 2 for x in [1, 2, 3]
~~~

## Pairs

~~~comp
x / y for (x, y) in pairs if y != 0
~~~
`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "Examples", doc.Metadata["title"].(string))
	assert.Equal(t, 2, len(doc.Blocks))

	assert.Equal(t, "Doubling", doc.Blocks[0].Name)
	assert.Equal(t, "x * 2 for x in [1, 2, 3]", doc.Blocks[0].Source)
	assert.Equal(t, 8, doc.Blocks[0].StartLine)

	assert.Equal(t, "Pairs", doc.Blocks[1].Name)
	assert.Equal(t, "x / y for (x, y) in pairs if y != 0", doc.Blocks[1].Source)
	assert.Equal(t, 14, doc.Blocks[1].StartLine)
}

func TestParseWithoutFrontMatter(t *testing.T) {
	input := `# Only Block

~~~comprehension
x for x in xs
~~~
`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 0, len(doc.Metadata))
	assert.Equal(t, 1, len(doc.Blocks))
	assert.Equal(t, "Only Block", doc.Blocks[0].Name)
	assert.Equal(t, "x for x in xs", doc.Blocks[0].Source)
	assert.Equal(t, 4, doc.Blocks[0].StartLine)
}

func TestParseUnnamedBlock(t *testing.T) {
	input := `~~~comp
x for x in xs
~~~
`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, "block 1", doc.Blocks[0].Name)
}

func TestParseIgnoresOtherCodeBlocks(t *testing.T) {
	input := `# Mixed

~~~go
fmt.Println("not a comprehension")
~~~

~~~comp
x for x in xs
~~~
`

	doc, err := Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 1, len(doc.Blocks))
	assert.Equal(t, "x for x in xs", doc.Blocks[0].Source)
}

func TestParseNoComprehensionBlock(t *testing.T) {
	input := `# Nothing Here

Just prose.
`

	_, err := Parse(strings.NewReader(input))
	require.ErrorIs(t, err, ErrNoComprehensionBlock)
}

func TestParseEmptyComprehensionBlock(t *testing.T) {
	input := `# Empty

~~~comp
~~~
`

	_, err := Parse(strings.NewReader(input))
	require.ErrorIs(t, err, ErrEmptyComprehensionText)
}

func TestParseInvalidFrontMatter(t *testing.T) {
	input := "---\ntitle: unterminated\n"

	_, err := Parse(strings.NewReader(input))
	require.ErrorIs(t, err, ErrInvalidFrontMatter)
}
