package pattern

import "regexp"

func rangeRule(label string) Rule {
	return Rule{
		Expr:  regexp.MustCompile(label + `[:\s]+(\d{4})\s*[-–]\s*(\d{4})`),
		Shape: ShapeRange,
	}
}

func yearRule(label string, shape Shape) Rule {
	return Rule{
		Expr:  regexp.MustCompile(label + `[:\s]+(\d{4})`),
		Shape: shape,
	}
}

func yearsRule(label string, shape Shape) Rule {
	return Rule{
		Expr:  regexp.MustCompile(label + `[:\s]+(\d+)\s*years`),
		Shape: shape,
	}
}

// Rule sets per source, in evaluation order. Single-year phrases that a
// source does not grade are left out so evaluation moves on to the next rule.
var (
	CellarTracker = []Rule{
		rangeRule(`drink`),
		rangeRule(`drinking window`),
		rangeRule(`mature`),
		rangeRule(`best`),
		yearRule(`cellar until`, ShapeFromYear),
		yearRule(`drink from`, ShapeFromYear),
		rangeRule(`ready`),
	}

	WineSearcher = []Rule{
		rangeRule(`drinking window`),
		rangeRule(`drink`),
		rangeRule(`best consumed`),
		rangeRule(`ready to drink`),
	}

	RobertParker = []Rule{
		rangeRule(`drink`),
		rangeRule(`anticipated maturity`),
		yearsRule(`cellar for`, ShapeYearsToMature),
		yearsRule(`ready in`, ShapeYearsToMature),
		rangeRule(`best`),
	}

	Vinous = []Rule{
		rangeRule(`drinking window`),
		rangeRule(`drink`),
		rangeRule(`best from`),
		rangeRule(`cellar`),
		rangeRule(`ready`),
	}

	JancisRobinson = []Rule{
		rangeRule(`drink`),
		rangeRule(`drinking window`),
		rangeRule(`best`),
		rangeRule(`mature`),
		yearRule(`cellar until`, ShapeUntilYear),
	}

	Vivino = []Rule{
		rangeRule(`drink`),
		rangeRule(`best`),
		rangeRule(`drinking window`),
		rangeRule(`ready`),
	}

	WineCom = []Rule{
		rangeRule(`drink`),
		rangeRule(`drinking window`),
		rangeRule(`best consumed`),
		yearsRule(`cellaring potential`, ShapeCellaringYears),
	}

	Decanter = []Rule{
		rangeRule(`drink`),
		rangeRule(`drinking window`),
		rangeRule(`best`),
		rangeRule(`ready`),
	}

	WineSpectator = []Rule{
		rangeRule(`drink`),
		rangeRule(`drinking window`),
		rangeRule(`best`),
		rangeRule(`ready`),
	}
)
