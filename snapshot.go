package pagelens

import "time"

// Bounding caps applied to every snapshot. Elements beyond a cap are
// silently omitted; the caps keep payload size and extraction latency
// predictable and are not a correctness contract.
const (
	MaxHeadings = 10
	MaxActions  = 20
	MaxForms    = 5

	// MaxTextLen bounds every text field in a snapshot after trimming.
	MaxTextLen = 200

	// MaxSelectionLen bounds SelectedText, which tends to be longer
	// than element text.
	MaxSelectionLen = 500

	// MinActionTextLen excludes icon-only buttons and decorative links.
	MinActionTextLen = 2
)

// Snapshot is a bounded structural summary of a web document at a point in
// time. A snapshot is immutable once produced except for SelectedText,
// which may be patched in place by a later selection event belonging to the
// same tab generation.
type Snapshot struct {
	Title           string    `json:"title"`
	URL             string    `json:"url"`
	MetaDescription string    `json:"metaDescription"`
	Headings        []Heading `json:"headings"`
	Actions         []Action  `json:"actions"`
	Forms           []Form    `json:"forms"`
	SelectedText    string    `json:"selectedText"`
	ExtractedAt     time.Time `json:"extractedAt"`

	// ExtractionMs is the measured extraction cost in milliseconds,
	// zero when not measured.
	ExtractionMs int64 `json:"extractionDurationMs,omitempty"`
}

// Heading is a document heading (h1-h6) in document order.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// ActionKind distinguishes clickable element types.
type ActionKind string

// ActionKind values.
const (
	ActionButton ActionKind = "button"
	ActionLink   ActionKind = "link"
)

// Action is a clickable element (button or link) in document order.
type Action struct {
	Text string     `json:"text"`
	Kind ActionKind `json:"kind"`
	Href string     `json:"href,omitempty"`
}

// Form describes a document form and its inputs.
type Form struct {
	ActionURL string      `json:"actionUrl"`
	Method    string      `json:"method"`
	Inputs    []FormInput `json:"inputs"`
}

// FormInput describes a single form field.
type FormInput struct {
	Type        string `json:"type"`
	Name        string `json:"name"`
	Placeholder string `json:"placeholder"`
	Required    bool   `json:"required"`
}

// Validate returns an error if the snapshot violates its bounding caps or
// contains entries with empty required text.
func (s *Snapshot) Validate() error {
	if len(s.Headings) > MaxHeadings {
		return Errorf(EINVALID, "snapshot exceeds heading cap: %d > %d", len(s.Headings), MaxHeadings)
	}
	if len(s.Actions) > MaxActions {
		return Errorf(EINVALID, "snapshot exceeds action cap: %d > %d", len(s.Actions), MaxActions)
	}
	if len(s.Forms) > MaxForms {
		return Errorf(EINVALID, "snapshot exceeds form cap: %d > %d", len(s.Forms), MaxForms)
	}
	for _, h := range s.Headings {
		if h.Text == "" {
			return Errorf(EINVALID, "snapshot heading with empty text")
		}
		if h.Level < 1 || h.Level > 6 {
			return Errorf(EINVALID, "snapshot heading level %d out of range", h.Level)
		}
	}
	for _, a := range s.Actions {
		if len(a.Text) < MinActionTextLen {
			return Errorf(EINVALID, "snapshot action with text shorter than %d", MinActionTextLen)
		}
	}
	return nil
}

// Clone returns a deep copy of the snapshot. The coordinator hands out
// clones so that it remains the sole mutator of session state.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	dup := *s
	dup.Headings = append([]Heading(nil), s.Headings...)
	dup.Actions = append([]Action(nil), s.Actions...)
	dup.Forms = make([]Form, len(s.Forms))
	for i, f := range s.Forms {
		dup.Forms[i] = f
		dup.Forms[i].Inputs = append([]FormInput(nil), f.Inputs...)
	}
	return &dup
}

// Extractor produces a bounded structural snapshot of a document.
// Implementations run against the document's rendered HTML.
type Extractor interface {
	// Extract parses HTML and returns the snapshot. Extraction is
	// deterministic for fixed input and never panics past this boundary;
	// internal failures are returned as EINTERNAL errors.
	Extract(html, pageURL string) (*Snapshot, error)
}
