// Package ingestion normalizes free text submitted with job postings and
// profiles before it is stored.
package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	spaceRun      = regexp.MustCompile(`[ \t\f\v]+`)
	blankLineRun  = regexp.MustCompile(`\n\n\n+`)
	looksLikeHTML = regexp.MustCompile(`(?i)<\s*/?\s*(p|br|div|ul|ol|li|b|i|strong|em|span|h[1-6]|a|script|style)\b[^>]*>`)
)

// CleanText cleans and normalizes text content while preserving structure:
// line endings become LF, runs of spaces collapse, bullet lines keep their
// marker and at most one blank line separates paragraphs.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := strings.Join(lines, "\n")
	result = blankLineRun.ReplaceAllString(result, "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if marker, rest, ok := bullet(trimmed); ok {
		return marker + " " + spaceRun.ReplaceAllString(strings.TrimSpace(rest), " ")
	}
	return spaceRun.ReplaceAllString(trimmed, " ")
}

// bullet splits a list line into its marker and text. Unicode bullets are
// normalized to "-".
func bullet(line string) (marker, rest string, ok bool) {
	for _, m := range []string{"- ", "* ", "• ", "· "} {
		if strings.HasPrefix(line, m) {
			marker = strings.TrimSpace(m)
			if marker == "•" || marker == "·" {
				marker = "-"
			}
			return marker, line[len(m):], true
		}
	}
	return "", "", false
}

// IsHTML reports whether s contains markup worth stripping.
func IsHTML(s string) bool {
	return looksLikeHTML.MatchString(s)
}

// StripHTML converts an HTML fragment to plain text. Block elements become
// line breaks and list items become "- " bullets; scripts and styles are dropped.
func StripHTML(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, iframe, object, embed").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		li.PrependHtml("\n- ")
	})
	doc.Find("p, div, ul, ol, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return doc.Find("body").Text(), nil
}

// CleanDescription normalizes a posted job description. HTML input is
// reduced to text first; plain text passes straight to CleanText.
func CleanDescription(raw string) (string, error) {
	if IsHTML(raw) {
		text, err := StripHTML(raw)
		if err != nil {
			return "", err
		}
		raw = text
	}
	return CleanText(raw), nil
}
