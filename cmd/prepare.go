package cmd

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

// HTML preparation modes applied between fetch and extraction.
const (
	// HTMLModeRaw hands the page to the extractor untouched.
	HTMLModeRaw = "raw"
	// HTMLModeStrip drops script-like and styling nodes.
	HTMLModeStrip = "strip"
	// HTMLModeReadability keeps only the readability article body.
	HTMLModeReadability = "readability"
)

// strippedSelectors never carry readable page text.
const strippedSelectors = "script, style, noscript, iframe, svg, template"

// PrepareHTML reduces html according to mode. pageURL resolves relative
// links in readability mode and may be empty.
func PrepareHTML(mode, html, pageURL string) (string, error) {
	switch mode {
	case "", HTMLModeRaw:
		return html, nil
	case HTMLModeStrip:
		return stripHTML(html)
	case HTMLModeReadability:
		return readableHTML(html, pageURL)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHTMLMode, mode)
	}
}

func stripHTML(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find(strippedSelectors).Remove()
	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render HTML: %w", err)
	}
	return out, nil
}

func readableHTML(html, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		parsed = &url.URL{}
	}
	article, err := readability.FromReader(strings.NewReader(html), parsed)
	if err != nil {
		return "", fmt.Errorf("readability failed: %w", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		// Nothing readable found; let the model look at the whole page.
		return html, nil
	}
	return article.Content, nil
}
