package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleMarkdown = `### Executive Overview

Customers praise quality but complain about shipping.

### Top Pain Points (Risk Areas)

- Late deliveries
- Unresponsive support
`

func TestRenderHTML(t *testing.T) {
	html := RenderHTML(sampleMarkdown)

	assert.Contains(t, html, "<h3>Executive Overview</h3>")
	assert.Contains(t, html, "<li>Late deliveries</li>")
	assert.Contains(t, html, "<p>Customers praise quality")
}

func TestExtractBlocks(t *testing.T) {
	blocks, err := ExtractBlocks(RenderHTML(sampleMarkdown))
	require.NoError(t, err)

	require.Len(t, blocks, 5)
	assert.Equal(t, Block{Kind: "heading", Text: "Executive Overview"}, blocks[0])
	assert.Equal(t, "paragraph", blocks[1].Kind)
	assert.Equal(t, Block{Kind: "heading", Text: "Top Pain Points (Risk Areas)"}, blocks[2])
	assert.Equal(t, Block{Kind: "bullet", Text: "Late deliveries"}, blocks[3])
	assert.Equal(t, Block{Kind: "bullet", Text: "Unresponsive support"}, blocks[4])
}

func TestExtractBlocksSkipsEmpty(t *testing.T) {
	blocks, err := ExtractBlocks("<p>  </p><h2>Assets</h2>")
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Assets", blocks[0].Text)
}

func TestWriteDocx(t *testing.T) {
	var buf bytes.Buffer
	err := WriteDocx(RenderHTML(sampleMarkdown), &buf)
	require.NoError(t, err)

	// A docx file is a zip archive; check the magic bytes.
	require.Greater(t, buf.Len(), 4)
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}
