package rod

import (
	"strings"

	"golang.org/x/net/html"
)

type SnapshotConfig struct {
	TagsToRemove  []string
	AttrsToRemove []string
	// MaskedInputs are input types whose value attribute is replaced.
	MaskedInputs []string
	// DroppedValues are input names whose value attribute is removed entirely.
	DroppedValues []string
	MaxOutputSize int
}

var DefaultSnapshotConfig = SnapshotConfig{
	TagsToRemove: []string{
		"script", "style", "noscript", "svg", "iframe", "link", "meta",
	},
	AttrsToRemove: []string{
		"style", "srcset", "sizes", "loading", "decoding", "fetchpriority",
	},
	MaskedInputs:  []string{"password"},
	DroppedValues: []string{"__VIEWSTATE", "__EVENTVALIDATION", "__VIEWSTATEGENERATOR"},
	MaxOutputSize: 512_000,
}

// SanitizeSnapshot strips a page dump down to what helps diagnose a failed
// interaction: element ids, names, classes and visible text. Secrets in
// password inputs are masked.
func SanitizeSnapshot(rawHTML string, cfg *SnapshotConfig) (string, error) {
	if cfg == nil {
		cfg = &DefaultSnapshotConfig
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}

	cleanNode(doc, cfg)

	var sb strings.Builder
	if err := html.Render(&sb, doc); err != nil {
		return "", err
	}
	return truncateHTML(sb.String(), cfg.MaxOutputSize), nil
}

func cleanNode(n *html.Node, cfg *SnapshotConfig) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch {
		case c.Type == html.CommentNode:
			n.RemoveChild(c)
		case c.Type == html.ElementNode && isOneOf(c.Data, cfg.TagsToRemove...):
			n.RemoveChild(c)
		default:
			if c.Type == html.ElementNode {
				c.Attr = filterAttributes(c, cfg)
			}
			cleanNode(c, cfg)
		}
		c = next
	}
}

func filterAttributes(n *html.Node, cfg *SnapshotConfig) []html.Attribute {
	masked := n.Data == "input" && isOneOf(strings.ToLower(attr(n, "type")), cfg.MaskedInputs...)
	dropped := n.Data == "input" && isOneOf(attr(n, "name"), cfg.DroppedValues...)

	var kept []html.Attribute
	for _, a := range n.Attr {
		if isOneOf(a.Key, cfg.AttrsToRemove...) || strings.HasPrefix(a.Key, "on") {
			continue
		}
		if a.Key == "value" {
			if dropped {
				continue
			}
			if masked && a.Val != "" {
				a.Val = "***"
			}
		}
		kept = append(kept, a)
	}
	return kept
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func truncateHTML(htmlStr string, maxSize int) string {
	if maxSize > 0 && len(htmlStr) > maxSize {
		return htmlStr[:maxSize] + "\n<!-- snapshot truncated -->"
	}
	return htmlStr
}

func isOneOf(s string, candidates ...string) bool {
	for _, c := range candidates {
		if s == c {
			return true
		}
	}
	return false
}
