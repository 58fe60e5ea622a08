package rod

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

const maxOutlineLines = 10

const (
	extractEmptyPlaceholder  = "Content extraction in progress..."
	extractFailedPlaceholder = "Unable to extract content"
)

func (d *SessionDriver) extract() string {
	page := d.page.Timeout(d.cfg.ElementTimeout)
	htmlSrc, err := page.HTML()
	if err != nil {
		d.log.Debug("content extraction failed", "error", err)
		return extractFailedPlaceholder
	}
	base := ""
	if info, err := page.Info(); err == nil {
		base = info.URL
	}
	return extractOutline(htmlSrc, base)
}

// extractOutline digests rendered HTML into at most ten salient lines:
// post titles with their links when the page looks like a feed or forum,
// otherwise the top-level headings. Relative links are resolved against
// baseURL the way the DOM would report them.
func extractOutline(htmlSrc, baseURL string) string {
	doc, err := html.Parse(strings.NewReader(htmlSrc))
	if err != nil {
		return extractFailedPlaceholder
	}

	c := &outlineCollector{}
	if baseURL != "" {
		if u, err := url.Parse(baseURL); err == nil {
			c.base = u
		}
	}
	c.walk(doc)

	lines := make([]string, 0, len(c.posts))
	for _, p := range c.posts {
		if p.title == "" {
			continue
		}
		line := "• " + p.title
		if p.href != "" {
			line += " - " + p.href
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		lines = c.headings
	}
	if len(lines) == 0 {
		return extractEmptyPlaceholder
	}
	return strings.Join(lines, "\n")
}

type postCandidate struct {
	title string
	href  string
}

type outlineCollector struct {
	base        *url.URL
	posts       []postCandidate
	headings    []string
	headingSeen int
}

func (c *outlineCollector) walk(n *html.Node) {
	if n.Type == html.ElementNode {
		if c.isPostNode(n) && len(c.posts) < maxOutlineLines {
			c.posts = append(c.posts, postCandidate{
				title: collapseSpace(textContent(n)),
				href:  c.closestHref(n),
			})
		}

		switch n.Data {
		case "h1", "h2", "h3":
			if c.headingSeen < maxOutlineLines {
				c.headingSeen++
				if t := collapseSpace(textContent(n)); t != "" {
					c.headings = append(c.headings, t)
				}
			}
		}
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.walk(child)
	}
}

func (c *outlineCollector) isPostNode(n *html.Node) bool {
	if n.Data == "h3" {
		return true
	}
	if attrVal(n, "data-testid") == "post-title" {
		return true
	}
	return n.Data == "a" && attrVal(n, "data-click-id") == "body" && hasAncestorWithClass(n, "Post")
}

// closestHref finds the nearest self-or-ancestor anchor and reports its
// resolved destination.
func (c *outlineCollector) closestHref(n *html.Node) string {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && cur.Data == "a" {
			if href := attrVal(cur, "href"); href != "" {
				return c.resolve(href)
			}
			return ""
		}
	}
	return ""
}

func (c *outlineCollector) resolve(href string) string {
	if c.base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return c.base.ResolveReference(ref).String()
}

func hasAncestorWithClass(n *html.Node, class string) bool {
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && hasClass(cur, class) {
			return true
		}
	}
	return false
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var visit func(*html.Node)
	visit = func(node *html.Node) {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
		}
		for child := node.FirstChild; child != nil; child = child.NextSibling {
			visit(child)
		}
	}
	visit(n)
	return b.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
