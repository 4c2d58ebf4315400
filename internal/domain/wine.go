package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Color is the wine colour as recorded by the cellar.
type Color string

const (
	ColorRed     Color = "Red"
	ColorWhite   Color = "White"
	ColorUnknown Color = ""
)

// ParseColor maps free text to a Color; anything but red/white is unknown.
func ParseColor(value string) Color {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "red":
		return ColorRed
	case "white":
		return ColorWhite
	default:
		return ColorUnknown
	}
}

// Confidence grades how much an estimate can be trusted.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// Downgrade returns the next rung down; low stays low.
func (c Confidence) Downgrade() Confidence {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// WineQuery identifies the bottle a drinking window is requested for.
type WineQuery struct {
	Name          string
	Vintage       int
	GrapeVarietal string
	Country       string
	Region        string
	Color         Color
}

// Validate checks the fields every lookup needs.
func (q WineQuery) Validate() error {
	if strings.TrimSpace(q.Name) == "" {
		return errors.New("wine name is required")
	}
	return nil
}

// CacheKey returns the normalized key for the query's name and vintage.
func (q WineQuery) CacheKey() string {
	return CacheKey(q.Name, q.Vintage)
}

// CacheKey lowercases "name_vintage" and replaces spaces with underscores.
func CacheKey(name string, vintage int) string {
	key := fmt.Sprintf("%s_%d", name, vintage)
	return strings.ReplaceAll(strings.ToLower(key), " ", "_")
}

// Window is a closed range of calendar years.
type Window struct {
	Start int
	End   int
}

// NewWindow builds a window, swapping the bounds when they arrive reversed.
func NewWindow(start, end int) Window {
	if end < start {
		start, end = end, start
	}
	return Window{Start: start, End: end}
}

// Peak is the year one third of the way into the window.
func (w Window) Peak() int {
	return w.Start + (w.End-w.Start)/3
}

func (w Window) String() string {
	return fmt.Sprintf("%d-%d", w.Start, w.End)
}

// ParseWindow reads the "START-END" form produced by String.
func ParseWindow(value string) (Window, error) {
	startText, endText, ok := strings.Cut(strings.TrimSpace(value), "-")
	if !ok {
		return Window{}, fmt.Errorf("window %q: missing separator", value)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return Window{}, fmt.Errorf("window %q: start: %w", value, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return Window{}, fmt.Errorf("window %q: end: %w", value, err)
	}
	return NewWindow(start, end), nil
}

// FallbackSource labels estimates produced by the rule engine.
const FallbackSource = "Fallback Rules"

// WindowEstimate is the drinking-window answer handed back to callers.
type WindowEstimate struct {
	Window     Window
	PeakYear   int
	Confidence Confidence
	Source     string
	Notes      string
}

// WithPeak returns a copy with PeakYear derived from the window.
func (e WindowEstimate) WithPeak() WindowEstimate {
	e.PeakYear = e.Window.Peak()
	return e
}

// IsFallback reports whether the estimate came from the rule engine.
func (e WindowEstimate) IsFallback() bool {
	return e.Source == FallbackSource
}

type estimateJSON struct {
	DrinkingWindow string     `json:"drinking_window"`
	PeakYear       int        `json:"peak_year"`
	Confidence     Confidence `json:"confidence"`
	Source         string     `json:"source"`
	Notes          string     `json:"notes"`
}

// MarshalJSON renders the window in its "START-END" form.
func (e WindowEstimate) MarshalJSON() ([]byte, error) {
	return json.Marshal(estimateJSON{
		DrinkingWindow: e.Window.String(),
		PeakYear:       e.PeakYear,
		Confidence:     e.Confidence,
		Source:         e.Source,
		Notes:          e.Notes,
	})
}

// UnmarshalJSON accepts the form written by MarshalJSON.
func (e *WindowEstimate) UnmarshalJSON(data []byte) error {
	var raw estimateJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	window, err := ParseWindow(raw.DrinkingWindow)
	if err != nil {
		return err
	}
	*e = WindowEstimate{
		Window:     window,
		PeakYear:   raw.PeakYear,
		Confidence: raw.Confidence,
		Source:     raw.Source,
		Notes:      raw.Notes,
	}
	return nil
}
