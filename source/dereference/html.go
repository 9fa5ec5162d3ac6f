package dereference

import (
	"bytes"
	"mime"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// page holds what the dereferencer reads from an HTML document.
type page struct {
	title   string
	baseURL string
	scripts []string
}

// scanHTML collects the title, the effective base URL, and the contents
// of every application/ld+json script block in document order.
func scanHTML(content []byte, docURL string) (*page, error) {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	p := &page{baseURL: docURL}
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if p.title == "" && n.FirstChild != nil {
					p.title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "base":
				if href := attr(n, "href"); href != "" && p.baseURL == docURL {
					p.baseURL = resolve(docURL, href)
				}
			case "script":
				if isJSONLDType(attr(n, "type")) {
					p.scripts = append(p.scripts, textContent(n))
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(doc)
	return p, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
	}
	return b.String()
}

// isJSONLDType matches a script type attribute such as
// "application/ld+json; charset=utf-8".
func isJSONLDType(t string) bool {
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return false
	}
	return mediaType == "application/ld+json"
}

// resolve resolves ref against base, returning base unchanged when either
// does not parse.
func resolve(base, ref string) string {
	b, err := url.Parse(base)
	if err != nil {
		return base
	}
	r, err := url.Parse(ref)
	if err != nil {
		return base
	}
	return b.ResolveReference(r).String()
}
