package document

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
	"github.com/microcosm-cc/bluemonday"
	"github.com/saintfish/chardet"
)

// Report is the outcome of validating a generated document. Valid is false
// only for blank input; warnings are advisory signals for host-side audit
// logging, never hard failures, since generated apps are expected to
// contain scripts.
type Report struct {
	Valid    bool     `json:"valid"`
	Warnings []string `json:"warnings"`
	Preview  string   `json:"preview,omitempty"`
}

const previewLimit = 140

var (
	protocolRelativeRe = regexp.MustCompile(`(?i)(src|href)\s*=\s*["']//`)
	javascriptURLRe    = regexp.MustCompile(`(?i)(src|href|action)\s*=\s*["']\s*javascript:`)

	previewPolicy = bluemonday.StrictPolicy()
	charsetDet    = chardet.NewTextDetector()
)

// Validate inspects a generated document and accumulates advisory
// warnings. The only invalid input is empty/whitespace-only HTML.
func Validate(html string) Report {
	if strings.TrimSpace(html) == "" {
		return Report{Valid: false, Warnings: []string{"document is empty"}}
	}

	r := Report{Valid: true}

	if strings.Contains(strings.ToLower(html), "<script") {
		r.warn("document contains script tags")
	}
	if protocolRelativeRe.MatchString(html) {
		r.warn("document contains protocol-relative URLs")
	}
	if javascriptURLRe.MatchString(html) {
		r.warn("document contains javascript: URLs")
	}
	if strings.Contains(html, "document.cookie") {
		r.warn("document accesses document.cookie")
	}
	if strings.Contains(html, "localStorage") || strings.Contains(html, "sessionStorage") {
		r.warn("document uses the Web Storage API")
	}

	r.Warnings = append(r.Warnings, structuralWarnings(html)...)
	r.Warnings = append(r.Warnings, charsetWarnings(html)...)
	r.Preview = preview(html)

	return r
}

func (r *Report) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// structuralWarnings uses an XPath scan for tags BasicSanitize would strip
// and a CSS scan for inline event handlers. Parse failures are swallowed:
// validation is advisory and must not reject what the mutators accept.
func structuralWarnings(html string) []string {
	var warnings []string

	if doc, err := htmlquery.Parse(strings.NewReader(html)); err == nil {
		if nodes := htmlquery.Find(doc, `//meta[@http-equiv]`); len(nodes) > 0 {
			for _, n := range nodes {
				if strings.EqualFold(htmlquery.SelectAttr(n, "http-equiv"), "refresh") {
					warnings = append(warnings, "document contains a meta refresh tag")
					break
				}
			}
		}
		if nodes := htmlquery.Find(doc, `//base`); len(nodes) > 0 {
			warnings = append(warnings, "document contains a base tag")
		}
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		handlers := 0
		doc.Find("*").Each(func(_ int, s *goquery.Selection) {
			for _, attr := range s.Nodes[0].Attr {
				if strings.HasPrefix(strings.ToLower(attr.Key), "on") {
					handlers++
				}
			}
		})
		if handlers > 0 {
			warnings = append(warnings, fmt.Sprintf("document contains %d inline event handlers", handlers))
		}
	}

	return warnings
}

// charsetWarnings flags documents that do not look like UTF-8. The frame
// assigns the document inline, so a mislabeled charset renders garbage.
func charsetWarnings(html string) []string {
	if utf8.ValidString(html) {
		return nil
	}
	if best, err := charsetDet.DetectBest([]byte(html)); err == nil && best.Charset != "UTF-8" {
		return []string{fmt.Sprintf("document is not valid UTF-8 (detected %s)", best.Charset)}
	}
	return []string{"document is not valid UTF-8"}
}

// preview extracts a short text-only excerpt for audit logs. Markup and
// scripts are stripped so the excerpt is safe to echo anywhere.
func preview(html string) string {
	text := strings.Join(strings.Fields(previewPolicy.Sanitize(html)), " ")
	if len(text) > previewLimit {
		cut := previewLimit
		// Back off to a rune boundary so truncation never emits invalid UTF-8.
		for cut > 0 && !utf8.RuneStart(text[cut]) {
			cut--
		}
		text = text[:cut]
	}
	return text
}
