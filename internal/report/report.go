package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	docx "github.com/fumiama/go-docx"
	"github.com/russross/blackfriday/v2"
)

const reportTitle = "AI Strategic Marketing Report"

// Block is one renderable unit of the narrative report.
type Block struct {
	Kind string // "heading", "bullet" or "paragraph"
	Text string
}

// RenderHTML turns the model's markdown summary into the HTML artifact
// served on the dashboard and stored for download.
func RenderHTML(markdown string) string {
	return strings.TrimSpace(string(blackfriday.Run([]byte(markdown))))
}

// ExtractBlocks maps the summary HTML onto document blocks by walking
// heading, list-item and paragraph tags in document order.
func ExtractBlocks(html string) ([]Block, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse summary html: %w", err)
	}

	var blocks []Block
	doc.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		switch goquery.NodeName(s) {
		case "h1", "h2", "h3":
			blocks = append(blocks, Block{Kind: "heading", Text: text})
		case "li":
			blocks = append(blocks, Block{Kind: "bullet", Text: text})
		default:
			// Paragraphs wrapping a list render the items separately.
			if s.Children().Is("ul, ol") {
				return
			}
			blocks = append(blocks, Block{Kind: "paragraph", Text: text})
		}
	})
	return blocks, nil
}

// WriteDocx renders the summary HTML into a Word document.
func WriteDocx(html string, w io.Writer) error {
	blocks, err := ExtractBlocks(html)
	if err != nil {
		return err
	}

	doc := docx.New().WithDefaultTheme()

	title := doc.AddParagraph()
	title.AddText(reportTitle).Size("40")

	for _, block := range blocks {
		para := doc.AddParagraph()
		switch block.Kind {
		case "heading":
			para.AddText(block.Text).Size("28")
		case "bullet":
			para.AddText("• " + block.Text)
		default:
			para.AddText(block.Text)
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}
