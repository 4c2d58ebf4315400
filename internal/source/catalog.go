package source

import (
	"fmt"
	"net/url"

	"WineWindow/internal/domain"
	"WineWindow/internal/pattern"
)

// Source identifiers in priority order.
const (
	CellarTracker  = "cellartracker"
	WineSearcher   = "wine_searcher"
	RobertParker   = "erobertparker"
	Vinous         = "vinous"
	JancisRobinson = "jancisrobinson"
	Vivino         = "vivino"
	WineCom        = "wine_com"
	Decanter       = "decanter"
	WineSpectator  = "wine_spectator"
)

const webSearchURL = "https://www.google.com/search?q="

func searchTerms(q domain.WineQuery) string {
	return fmt.Sprintf("%s %d", q.Name, q.Vintage)
}

func queryParam(format string) func(domain.WineQuery) string {
	return func(q domain.WineQuery) string {
		return fmt.Sprintf(format, url.QueryEscape(searchTerms(q)))
	}
}

func pathSegment(format string) func(domain.WineQuery) string {
	return func(q domain.WineQuery) string {
		return fmt.Sprintf(format, url.PathEscape(searchTerms(q)))
	}
}

// siteRestricted searches the exact quoted name within one domain.
func siteRestricted(domainName string) func(domain.WineQuery) string {
	return func(q domain.WineQuery) string {
		terms := fmt.Sprintf(`"%s" %d site:%s`, q.Name, q.Vintage, domainName)
		return webSearchURL + url.QueryEscape(terms)
	}
}

func rangeOnly(c domain.Confidence, notes string) map[pattern.Shape]Grade {
	return map[pattern.Shape]Grade{pattern.ShapeRange: {Confidence: c, Notes: notes}}
}

// singleYear grades a one-year match a rung below the source's range grade.
func singleYear(rangeConfidence domain.Confidence, notes string) Grade {
	return Grade{Confidence: rangeConfidence.Downgrade(), Notes: notes}
}

// Catalog returns the nine source specs in lookup priority order.
func Catalog() []Spec {
	return []Spec{
		{
			ID:      CellarTracker,
			Label:   "CellarTracker",
			Request: queryParam("https://www.cellartracker.com/list.asp?Table=List&iUserOverride=0&szSearch=%s"),
			Rules:   pattern.CellarTracker,
			Grades: map[pattern.Shape]Grade{
				pattern.ShapeRange:    {Confidence: domain.ConfidenceHigh, Notes: "Crowd-sourced collector data"},
				pattern.ShapeFromYear: singleYear(domain.ConfidenceHigh, "Estimated range from single year"),
			},
		},
		{
			ID:      WineSearcher,
			Label:   "Wine-Searcher",
			Request: pathSegment("https://www.wine-searcher.com/find/%s"),
			Rules:   pattern.WineSearcher,
			Grades:  rangeOnly(domain.ConfidenceHigh, "Professional aggregated data"),
		},
		{
			ID:      RobertParker,
			Label:   "Robert Parker Wine Advocate",
			Request: siteRestricted("erobertparker.com"),
			Rules:   pattern.RobertParker,
			Grades: map[pattern.Shape]Grade{
				pattern.ShapeRange:         {Confidence: domain.ConfidenceHigh, Notes: "Professional critic assessment"},
				pattern.ShapeYearsToMature: {Confidence: domain.ConfidenceHigh, Notes: "Professional critic assessment"},
			},
		},
		{
			ID:      Vinous,
			Label:   "Vinous",
			Request: siteRestricted("vinous.com"),
			Rules:   pattern.Vinous,
			Grades:  rangeOnly(domain.ConfidenceHigh, "Professional wine critic review"),
		},
		{
			ID:      JancisRobinson,
			Label:   "Jancis Robinson",
			Request: siteRestricted("jancisrobinson.com"),
			Rules:   pattern.JancisRobinson,
			Grades: map[pattern.Shape]Grade{
				pattern.ShapeRange:     {Confidence: domain.ConfidenceHigh, Notes: "Master of Wine assessment"},
				pattern.ShapeUntilYear: singleYear(domain.ConfidenceHigh, "Estimated from cellar until date"),
			},
		},
		{
			ID:      Vivino,
			Label:   "Vivino",
			Request: queryParam("https://www.vivino.com/search/wines?q=%s"),
			Rules:   pattern.Vivino,
			Grades:  rangeOnly(domain.ConfidenceMedium, "User community data"),
		},
		{
			ID:      WineCom,
			Label:   "Wine.com",
			Request: pathSegment("https://www.wine.com/search/%s"),
			Rules:   pattern.WineCom,
			Grades: map[pattern.Shape]Grade{
				pattern.ShapeRange:          {Confidence: domain.ConfidenceMedium, Notes: "Commercial wine data"},
				pattern.ShapeCellaringYears: {Confidence: domain.ConfidenceMedium, Notes: "Producer-provided cellaring info"},
			},
		},
		{
			ID:      Decanter,
			Label:   "Decanter",
			Request: siteRestricted("decanter.com"),
			Rules:   pattern.Decanter,
			Grades:  rangeOnly(domain.ConfidenceMedium, "Wine magazine professional review"),
		},
		{
			ID:      WineSpectator,
			Label:   "Wine Spectator",
			Request: siteRestricted("winespectator.com"),
			Rules:   pattern.WineSpectator,
			Grades:  rangeOnly(domain.ConfidenceMedium, "Professional wine magazine rating"),
		},
	}
}
