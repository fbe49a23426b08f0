// Package goquery provides a CSS-selector-based implementation of
// pagelens.Extractor that builds bounded structural snapshots from HTML.
package goquery

import (
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pagelens/pagelens"
)

// Ensure Extractor implements pagelens.Extractor at compile time.
var _ pagelens.Extractor = (*Extractor)(nil)

// Extractor extracts a structural snapshot from rendered HTML.
// Extraction is deterministic for fixed input. All sequences respect the
// caps in the pagelens package; elements beyond a cap are silently omitted.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses HTML and returns a bounded snapshot. Internal failures,
// including panics from malformed input, are returned as EINTERNAL errors;
// nothing escapes this boundary.
func (e *Extractor) Extract(html, pageURL string) (snap *pagelens.Snapshot, err error) {
	defer func() {
		if r := recover(); r != nil {
			snap = nil
			err = pagelens.Errorf(pagelens.EINTERNAL, "extraction panicked: %v", r)
		}
	}()

	begin := time.Now()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, pagelens.Errorf(pagelens.EINTERNAL, "failed to parse HTML: %v", err)
	}

	snap = &pagelens.Snapshot{
		Title:           boundText(doc.Find("title").First().Text(), pagelens.MaxTextLen),
		URL:             pageURL,
		MetaDescription: boundText(metaDescription(doc), pagelens.MaxTextLen),
		Headings:        extractHeadings(doc),
		Actions:         extractActions(doc, pageURL),
		Forms:           extractForms(doc),
		ExtractedAt:     time.Now().UTC(),
	}
	snap.ExtractionMs = time.Since(begin).Milliseconds()

	return snap, nil
}

func metaDescription(doc *goquery.Document) string {
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		return content
	}
	// Open Graph description as a fallback for pages without the
	// standard meta tag.
	content, _ := doc.Find(`meta[property="og:description"]`).First().Attr("content")
	return content
}

func extractHeadings(doc *goquery.Document) []pagelens.Heading {
	var headings []pagelens.Heading
	doc.Find("h1, h2, h3, h4, h5, h6").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(headings) >= pagelens.MaxHeadings {
			return false
		}
		text := boundText(sel.Text(), pagelens.MaxTextLen)
		if text == "" {
			return true
		}
		name := goquery.NodeName(sel)
		headings = append(headings, pagelens.Heading{
			Level: int(name[1] - '0'),
			Text:  text,
		})
		return true
	})
	return headings
}

func extractActions(doc *goquery.Document, pageURL string) []pagelens.Action {
	base, _ := url.Parse(pageURL)

	var actions []pagelens.Action
	add := func(a pagelens.Action) bool {
		if len(actions) >= pagelens.MaxActions {
			return false
		}
		if len(a.Text) < pagelens.MinActionTextLen {
			return true
		}
		actions = append(actions, a)
		return true
	}

	doc.Find(`button, input[type="submit"], input[type="button"], [role="button"]`).
		EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			text := sel.Text()
			if text == "" {
				// input elements carry their label in the value attribute.
				text, _ = sel.Attr("value")
			}
			return add(pagelens.Action{
				Text: boundText(text, pagelens.MaxTextLen),
				Kind: pagelens.ActionButton,
			})
		})

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")
		if isNonHTTPLink(href) {
			return true
		}
		return add(pagelens.Action{
			Text: boundText(sel.Text(), pagelens.MaxTextLen),
			Kind: pagelens.ActionLink,
			Href: resolveURL(base, href),
		})
	})

	return actions
}

func extractForms(doc *goquery.Document) []pagelens.Form {
	var forms []pagelens.Form
	doc.Find("form").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(forms) >= pagelens.MaxForms {
			return false
		}

		actionURL, _ := sel.Attr("action")
		method, _ := sel.Attr("method")
		if method == "" {
			method = "get"
		}

		form := pagelens.Form{
			ActionURL: boundText(actionURL, pagelens.MaxTextLen),
			Method:    strings.ToLower(method),
		}
		sel.Find("input, textarea, select").Each(func(_ int, in *goquery.Selection) {
			typ, _ := in.Attr("type")
			if typ == "" {
				typ = goquery.NodeName(in)
				if typ == "input" {
					typ = "text"
				}
			}
			name, _ := in.Attr("name")
			placeholder, _ := in.Attr("placeholder")
			_, required := in.Attr("required")
			form.Inputs = append(form.Inputs, pagelens.FormInput{
				Type:        typ,
				Name:        boundText(name, pagelens.MaxTextLen),
				Placeholder: boundText(placeholder, pagelens.MaxTextLen),
				Required:    required,
			})
		})

		forms = append(forms, form)
		return true
	})
	return forms
}

// boundText collapses internal whitespace, trims, and truncates to max runes.
func boundText(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max])
	}
	return s
}

// isNonHTTPLink filters hrefs that don't navigate (javascript:, mailto:,
// tel:, fragment-only anchors).
func isNonHTTPLink(href string) bool {
	if href == "" || strings.HasPrefix(href, "#") {
		return true
	}
	for _, prefix := range []string{"javascript:", "mailto:", "tel:", "data:"} {
		if strings.HasPrefix(strings.ToLower(href), prefix) {
			return true
		}
	}
	return false
}

// resolveURL resolves a relative href against the page URL.
// Returns the href unchanged if either side cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
