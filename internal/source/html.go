package source

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// blockElements end the current paragraph.
var blockElements = map[string]bool{
	"p": true, "div": true, "br": true, "li": true, "blockquote": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "pre": true, "section": true, "article": true,
}

// HTMLToText flattens an HTML book export into paragraph text. Page number
// anchors (`<span class="pagenum">`) become page markers, numbered in order
// of appearance.
func HTMLToText(r io.Reader) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	var (
		buf   strings.Builder
		pages int
	)

	newParagraph := func() {
		s := buf.String()
		if s == "" || strings.HasSuffix(s, "\n\n") {
			return
		}
		if strings.HasSuffix(s, "\n") {
			buf.WriteString("\n")
			return
		}
		buf.WriteString("\n\n")
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text := strings.Join(strings.Fields(n.Data), " ")
			if text == "" {
				return
			}
			s := buf.String()
			if s != "" && !strings.HasSuffix(s, "\n") && !strings.HasSuffix(s, " ") {
				buf.WriteString(" ")
			}
			buf.WriteString(text)
			return
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "head":
				return
			case "span":
				if hasClass(n, "pagenum") {
					pages++
					newParagraph()
					buf.WriteString(PageMarker(pages))
					buf.WriteString("\n")
					return
				}
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		if n.Type == html.ElementNode && blockElements[n.Data] {
			newParagraph()
		}
	}
	walk(doc)

	return strings.TrimSpace(buf.String()), nil
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(attr.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}
