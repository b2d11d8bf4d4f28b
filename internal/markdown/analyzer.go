// Package markdown provides AST-based analysis of document content.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"folio/internal/domain/models"
)

// Analyzer computes content metrics from markdown source. Parsing the real
// AST keeps syntax (fences, emphasis markers, link targets) out of word
// counts without regex scrubbing.
type Analyzer struct {
	md goldmark.Markdown
}

// NewAnalyzer creates an analyzer with a default goldmark parser.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		md: goldmark.New(
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
		),
	}
}

// CountWords counts prose words in markdown. Fenced code blocks carry no
// inline text nodes, so code is excluded naturally.
func (a *Analyzer) CountWords(source string) int {
	if strings.TrimSpace(source) == "" {
		return 0
	}

	src := []byte(source)
	doc := a.md.Parser().Parse(text.NewReader(src))

	count := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			count += len(strings.Fields(string(t.Segment.Value(src))))
		}
		return ast.WalkContinue, nil
	})
	return count
}

// Outline extracts the heading hierarchy in document order.
func (a *Analyzer) Outline(source string) []models.Heading {
	src := []byte(source)
	doc := a.md.Parser().Parse(text.NewReader(src))

	var headings []models.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var sb strings.Builder
		for child := h.FirstChild(); child != nil; child = child.NextSibling() {
			if t, ok := child.(*ast.Text); ok {
				sb.Write(t.Segment.Value(src))
			}
		}
		headings = append(headings, models.Heading{Level: h.Level, Text: sb.String()})
		return ast.WalkSkipChildren, nil
	})
	return headings
}
