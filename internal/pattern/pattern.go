// Package pattern holds the ordered text rules that pull drinking windows
// out of flattened page text.
package pattern

import (
	"regexp"
	"strconv"
	"strings"

	"WineWindow/internal/domain"
)

// Shape tells how a rule's captures turn into a window.
type Shape int

const (
	// ShapeRange captures start and end years.
	ShapeRange Shape = iota
	// ShapeFromYear captures the first year; the window spans DefaultSpan years.
	ShapeFromYear
	// ShapeUntilYear captures the last year; the window reaches back up to ten years.
	ShapeUntilYear
	// ShapeYearsToMature captures years until the wine is ready.
	ShapeYearsToMature
	// ShapeCellaringYears captures a producer's cellaring potential in years.
	ShapeCellaringYears
)

// DefaultSpan is the width given to windows derived from a single start year.
const DefaultSpan = 8

func (s Shape) String() string {
	switch s {
	case ShapeRange:
		return "range"
	case ShapeFromYear:
		return "from-year"
	case ShapeUntilYear:
		return "until-year"
	case ShapeYearsToMature:
		return "years-to-mature"
	case ShapeCellaringYears:
		return "cellaring-years"
	default:
		return "unknown"
	}
}

// Rule pairs a compiled expression with the shape of its captures.
type Rule struct {
	Expr  *regexp.Regexp
	Shape Shape
}

// Match is the outcome of the first rule that fired.
type Match struct {
	Window domain.Window
	Shape  Shape
	Rule   Rule
	Text   string
}

// Extract runs rules in order against the lowercased text and returns the first hit.
func Extract(rules []Rule, text string, vintage int) (Match, bool) {
	lowered := strings.ToLower(text)
	for _, rule := range rules {
		groups := rule.Expr.FindStringSubmatch(lowered)
		if groups == nil {
			continue
		}
		window, ok := derive(rule.Shape, groups[1:], vintage)
		if !ok {
			continue
		}
		return Match{Window: window, Shape: rule.Shape, Rule: rule, Text: groups[0]}, true
	}
	return Match{}, false
}

func derive(shape Shape, captures []string, vintage int) (domain.Window, bool) {
	values := make([]int, 0, len(captures))
	for _, c := range captures {
		if c == "" {
			continue
		}
		n, err := strconv.Atoi(c)
		if err != nil {
			return domain.Window{}, false
		}
		values = append(values, n)
	}

	switch shape {
	case ShapeRange:
		if len(values) < 2 {
			return domain.Window{}, false
		}
		return domain.NewWindow(values[0], values[1]), true
	case ShapeFromYear:
		if len(values) < 1 {
			return domain.Window{}, false
		}
		return domain.Window{Start: values[0], End: values[0] + DefaultSpan}, true
	case ShapeUntilYear:
		if len(values) < 1 {
			return domain.Window{}, false
		}
		end := values[0]
		start := max(vintage+1, end-10)
		return domain.Window{Start: min(start, end), End: end}, true
	case ShapeYearsToMature:
		if len(values) < 1 {
			return domain.Window{}, false
		}
		n := values[0]
		return domain.Window{Start: vintage + max(1, n-2), End: vintage + n + 8}, true
	case ShapeCellaringYears:
		if len(values) < 1 {
			return domain.Window{}, false
		}
		start := vintage + 2
		return domain.Window{Start: start, End: max(start, vintage+values[0])}, true
	default:
		return domain.Window{}, false
	}
}
