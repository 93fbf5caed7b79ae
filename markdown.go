package echofield

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

const descriptionLimit = 155

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
	reHTMLTag    = regexp.MustCompile(`<[a-zA-Z][^>]*>`)
)

// RenderMarkdown converts post content to sanitized HTML. Content that
// already contains HTML tags is sanitized as is.
func RenderMarkdown(md string) string {
	if strings.TrimSpace(md) == "" {
		return ""
	}
	if reHTMLTag.MatchString(md) {
		return ugcPolicy.Sanitize(md)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(md))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank})
	return string(ugcPolicy.SanitizeBytes(markdown.Render(doc, renderer)))
}

// SEODescription is the plain text of md with whitespace collapsed,
// truncated to 155 characters plus "...".
func SEODescription(md string) string {
	plain := html.UnescapeString(strictPolicy.Sanitize(RenderMarkdown(md)))
	normalized := strings.Join(strings.Fields(plain), " ")
	if utf8.RuneCountInString(normalized) <= descriptionLimit {
		return normalized
	}
	return string([]rune(normalized)[:descriptionLimit]) + "..."
}
