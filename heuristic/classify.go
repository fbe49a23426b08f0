package heuristic

import (
	"strings"

	"github.com/pagelens/pagelens"
)

// Ensure Classifier implements pagelens.Classifier at compile time.
var _ pagelens.Classifier = (*Classifier)(nil)

// Classifier infers a coarse page classification from a snapshot.
type Classifier struct{}

// NewClassifier creates a new Classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// DefaultPageType is returned when no rule matches.
const DefaultPageType = "a web page"

// pageTypeRule matches URL substrings first, then heading vocabulary.
// Rules are evaluated in slice order and the first match wins.
type pageTypeRule struct {
	urlTokens     []string
	headingTokens []string
	pageType      string
}

var pageTypeRules = []pageTypeRule{
	{
		urlTokens:     []string{"/docs", "/documentation", "docs.", "/manual", "/reference"},
		headingTokens: []string{"getting started", "installation", "api reference", "quickstart"},
		pageType:      "a documentation page",
	},
	{
		urlTokens:     []string{"/blog", "blog.", "/post"},
		headingTokens: []string{"posted on", "min read"},
		pageType:      "a blog post",
	},
	{
		urlTokens:     []string{"/shop", "/store", "/product", "/cart", "/checkout"},
		headingTokens: []string{"add to cart", "pricing", "price"},
		pageType:      "a shopping page",
	},
	{
		urlTokens:     []string{"/login", "/signin", "/sign-in", "/auth"},
		headingTokens: []string{"sign in", "log in", "welcome back"},
		pageType:      "a sign-in page",
	},
	{
		urlTokens:     []string{"/search", "?q=", "?query="},
		headingTokens: []string{"search results", "results for"},
		pageType:      "a search results page",
	},
	{
		urlTokens:     []string{"/news", "/article"},
		headingTokens: []string{"breaking", "latest news"},
		pageType:      "a news article",
	},
}

// Complexity and interactivity thresholds. These are policy constants kept
// for compatibility, not derived values; tests pin them.
const (
	complexityMediumMin    = 3  // headings
	complexityHighMin      = 6  // headings
	interactivityMediumMin = 3  // actions
	interactivityHighMin   = 11 // actions
)

// Classify returns the page type, complexity and interactivity for the
// snapshot. Lookup order is fixed: URL substrings across all rules first,
// then heading vocabulary; first match wins, default "a web page".
func (c *Classifier) Classify(snap *pagelens.Snapshot) pagelens.PageClass {
	return pagelens.PageClass{
		PageType:      c.pageType(snap),
		Complexity:    level(len(snap.Headings), complexityMediumMin, complexityHighMin),
		Interactivity: level(len(snap.Actions), interactivityMediumMin, interactivityHighMin),
	}
}

func (c *Classifier) pageType(snap *pagelens.Snapshot) string {
	url := strings.ToLower(snap.URL)
	for _, rule := range pageTypeRules {
		for _, token := range rule.urlTokens {
			if strings.Contains(url, token) {
				return rule.pageType
			}
		}
	}

	var headings strings.Builder
	for _, h := range snap.Headings {
		headings.WriteString(strings.ToLower(h.Text))
		headings.WriteByte('\n')
	}
	haystack := headings.String()
	for _, rule := range pageTypeRules {
		for _, token := range rule.headingTokens {
			if strings.Contains(haystack, token) {
				return rule.pageType
			}
		}
	}

	return DefaultPageType
}

func level(count, mediumMin, highMin int) pagelens.Level {
	switch {
	case count < mediumMin:
		return pagelens.LevelLow
	case count < highMin:
		return pagelens.LevelMedium
	default:
		return pagelens.LevelHigh
	}
}
