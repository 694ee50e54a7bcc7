package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	mdParser = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	policy = bluemonday.UGCPolicy()

	firstImgRe  = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	nonSlugRe   = regexp.MustCompile(`[^\w\s-]`)
	slugDashRe  = regexp.MustCompile(`[\s_-]+`)
	slugTrimRe  = regexp.MustCompile(`^-+|-+$`)
)

func init() {
	policy.AllowImages()
	policy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	// Force links to open in new tab
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	policy.RequireNoReferrerOnLinks(true)
}

// Render converts markdown to sanitized HTML. Heading IDs survive
// sanitization so tables of contents can link into the document.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	if err := mdParser.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return string(policy.SanitizeBytes(buf.Bytes())), nil
}

const wordsPerMinute = 200

// ReadingTime estimates minutes to read, never below one.
func ReadingTime(source string) int {
	words := len(strings.Fields(source))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// FirstImageURL extracts the src of the first <img> in rendered HTML,
// used as a fallback cover image for listings.
func FirstImageURL(htmlContent string) string {
	match := firstImgRe.FindStringSubmatch(htmlContent)
	if len(match) > 1 {
		return match[1]
	}
	return ""
}

// Slugify turns a title into a URL-safe slug.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonSlugRe.ReplaceAllString(s, "")
	s = slugDashRe.ReplaceAllString(s, "-")
	return slugTrimRe.ReplaceAllString(s, "")
}
