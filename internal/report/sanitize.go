package report

import (
	"html/template"
	"io"
	"strings"

	"golang.org/x/net/html"
)

// Values may carry profile links. Only anchors with a safe href and line
// breaks survive; every other tag is dropped and text is escaped.
func sanitize(value string) template.HTML {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(value))
	// one entry per open <a>, true when it was written
	var anchors []bool
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() != io.EOF {
				return template.HTML(html.EscapeString(value))
			}
			for _, written := range anchors {
				if written {
					b.WriteString("</a>")
				}
			}
			return template.HTML(b.String())
		case html.TextToken:
			b.WriteString(html.EscapeString(string(z.Text())))
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "br":
				b.WriteString("<br>")
			case "a":
				if tok.Type == html.SelfClosingTagToken {
					continue
				}
				href := safeHref(tok.Attr)
				anchors = append(anchors, href != "")
				if href != "" {
					b.WriteString(`<a href="` + html.EscapeString(href) + `">`)
				}
			}
		case html.EndTagToken:
			tok := z.Token()
			if tok.Data != "a" || len(anchors) == 0 {
				continue
			}
			written := anchors[len(anchors)-1]
			anchors = anchors[:len(anchors)-1]
			if written {
				b.WriteString("</a>")
			}
		}
	}
}

func safeHref(attrs []html.Attribute) string {
	for _, a := range attrs {
		if a.Key != "href" {
			continue
		}
		v := strings.TrimSpace(a.Val)
		lower := strings.ToLower(v)
		if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
			strings.HasPrefix(lower, "mailto:") || isLocalPath(v) {
			return v
		}
	}
	return ""
}

// isLocalPath accepts site relative paths but not protocol relative URLs.
func isLocalPath(v string) bool {
	return strings.HasPrefix(v, "/") && !strings.HasPrefix(v, "//") && !strings.HasPrefix(v, "/\\")
}
