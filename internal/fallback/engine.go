// Package fallback estimates a drinking window from what the wine's name,
// grape, origin and colour say about how it ages.
package fallback

import (
	"strings"

	"WineWindow/internal/domain"
	"WineWindow/internal/ports"
)

var firstGrowths = []string{"lafite", "latour", "margaux", "mouton", "haut-brion"}

var usCountryNames = map[string]bool{
	"usa":                      true,
	"us":                       true,
	"united states":            true,
	"united states of america": true,
}

// facts is the lowercased view of a query the rules test against.
type facts struct {
	vintage int
	name    string
	grape   string
	region  string
	country string
	color   domain.Color
}

func newFacts(q domain.WineQuery) facts {
	return facts{
		vintage: q.Vintage,
		name:    strings.ToLower(strings.TrimSpace(q.Name)),
		grape:   strings.ToLower(strings.TrimSpace(q.GrapeVarietal)),
		region:  strings.ToLower(strings.TrimSpace(q.Region)),
		country: strings.ToLower(strings.TrimSpace(q.Country)),
		color:   q.Color,
	}
}

func (f facts) nameHas(words ...string) bool {
	return containsAny(f.name, words)
}

func (f facts) isUS() bool {
	return usCountryNames[f.country]
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

// outcome is a window expressed as offsets from the vintage.
type outcome struct {
	from, to   int
	confidence domain.Confidence
	notes      string
}

// rule returns ok=false to let the next rule try.
type rule struct {
	name  string
	apply func(f facts) (outcome, bool)
}

func medium(from, to int, notes string) (outcome, bool) {
	return outcome{from: from, to: to, confidence: domain.ConfidenceMedium, notes: notes}, true
}

func low(from, to int, notes string) (outcome, bool) {
	return outcome{from: from, to: to, confidence: domain.ConfidenceLow, notes: notes}, true
}

func none() (outcome, bool) {
	return outcome{}, false
}

// rules are evaluated top to bottom; several overlap, so order is significant.
var rules = []rule{
	{name: "first-growth", apply: func(f facts) (outcome, bool) {
		if !f.nameHas(firstGrowths...) {
			return none()
		}
		return medium(8, 40, "Bordeaux First Growth estimate")
	}},
	{name: "bordeaux", apply: func(f facts) (outcome, bool) {
		if !strings.HasPrefix(f.name, "chateau") && !strings.HasPrefix(f.name, "château") && !strings.Contains(f.region, "bordeaux") {
			return none()
		}
		if f.nameHas("saint-emilion", "pomerol") {
			return medium(3, 20, "Right Bank Bordeaux estimate")
		}
		return medium(5, 25, "Left Bank Bordeaux estimate")
	}},
	{name: "burgundy", apply: func(f facts) (outcome, bool) {
		if !f.nameHas("domaine") || !(strings.Contains(f.region, "burgundy") || f.nameHas("bourgogne")) {
			return none()
		}
		if f.color == domain.ColorRed {
			return medium(3, 15, "Burgundy red wine estimate")
		}
		return medium(1, 8, "Burgundy white wine estimate")
	}},
	{name: "champagne", apply: func(f facts) (outcome, bool) {
		if !strings.Contains(f.region, "champagne") && !f.nameHas("champagne") {
			return none()
		}
		return medium(3, 15, "Champagne estimate")
	}},
	{name: "italy", apply: func(f facts) (outcome, bool) {
		if f.country != "italy" {
			return none()
		}
		switch {
		case f.nameHas("barolo", "barbaresco"):
			return medium(5, 25, "Nebbiolo-based wine estimate")
		case f.nameHas("brunello"):
			return medium(4, 20, "Brunello di Montalcino estimate")
		case f.nameHas("chianti classico"):
			return medium(2, 12, "Chianti Classico estimate")
		}
		return none()
	}},
	{name: "varietal", apply: func(f facts) (outcome, bool) {
		switch g := f.grape; {
		case g == "":
			return none()
		case strings.Contains(g, "cabernet sauvignon"):
			if f.isUS() {
				return low(3, 15, "US Cabernet Sauvignon estimate")
			}
			return low(4, 18, "Cabernet Sauvignon general estimate")
		case strings.Contains(g, "pinot noir"):
			return low(2, 10, "Pinot Noir estimate")
		case strings.Contains(g, "merlot"):
			return low(2, 12, "Merlot estimate")
		case strings.Contains(g, "syrah"), strings.Contains(g, "shiraz"):
			return low(3, 15, "Syrah/Shiraz estimate")
		case strings.Contains(g, "chardonnay"):
			if f.nameHas("chablis") {
				return low(1, 8, "Chablis Chardonnay estimate")
			}
			return low(1, 6, "Chardonnay general estimate")
		case strings.Contains(g, "sauvignon blanc"):
			return low(0, 4, "Sauvignon Blanc estimate")
		case strings.Contains(g, "riesling"):
			return low(1, 12, "Riesling estimate")
		}
		return none()
	}},
	{name: "color", apply: func(f facts) (outcome, bool) {
		switch f.color {
		case domain.ColorRed:
			return low(2, 12, "Generic red wine estimate")
		case domain.ColorWhite:
			return low(0, 5, "Generic white wine estimate")
		}
		return none()
	}},
}

var generic = outcome{from: 1, to: 8, confidence: domain.ConfidenceLow, notes: "Generic wine estimate"}

// Engine is the rule-based estimator used when no source answers.
type Engine struct{}

var _ ports.Estimator = Engine{}

// New returns the rule engine.
func New() Engine {
	return Engine{}
}

// Estimate always returns a window; the peak year is left for the caller.
func (Engine) Estimate(q domain.WineQuery) domain.WindowEstimate {
	est, _ := Explain(q)
	return est
}

// Explain returns the estimate together with the name of the rule that produced it.
func Explain(q domain.WineQuery) (domain.WindowEstimate, string) {
	f := newFacts(q)
	for _, r := range rules {
		if out, ok := r.apply(f); ok {
			return out.estimate(f.vintage), r.name
		}
	}
	return generic.estimate(f.vintage), "generic"
}

func (o outcome) estimate(vintage int) domain.WindowEstimate {
	return domain.WindowEstimate{
		Window:     domain.Window{Start: vintage + o.from, End: vintage + o.to},
		Confidence: o.confidence,
		Source:     domain.FallbackSource,
		Notes:      o.notes,
	}
}
