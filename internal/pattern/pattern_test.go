package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"WineWindow/internal/domain"
)

func TestExtractRange(t *testing.T) {
	t.Parallel()

	m, ok := Extract(CellarTracker, "Community notes. Drink: 2024 - 2036. Lovely.", 2019)
	require.True(t, ok)
	assert.Equal(t, ShapeRange, m.Shape)
	assert.Equal(t, domain.Window{Start: 2024, End: 2036}, m.Window)
}

func TestExtractAcceptsEnDash(t *testing.T) {
	t.Parallel()

	m, ok := Extract(Vinous, "Drinking window 2025–2040", 2018)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2025, End: 2040}, m.Window)
}

func TestExtractFromYearUsesDefaultSpan(t *testing.T) {
	t.Parallel()

	m, ok := Extract(CellarTracker, "cellar until 2030", 2020)
	require.True(t, ok)
	assert.Equal(t, ShapeFromYear, m.Shape)
	assert.Equal(t, "2030-2038", m.Window.String())
}

func TestExtractFirstRuleWins(t *testing.T) {
	t.Parallel()

	// "drink" is listed before "drinking window" for CellarTracker; the text
	// carries both, the first listed rule decides.
	text := "drinking window: 2022-2028 ... drink: 2030-2045"
	m, ok := Extract(CellarTracker, text, 2018)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2030, End: 2045}, m.Window)

	// Wine-Searcher lists "drinking window" first.
	m, ok = Extract(WineSearcher, text, 2018)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2022, End: 2028}, m.Window)
}

func TestExtractUntilYear(t *testing.T) {
	t.Parallel()

	m, ok := Extract(JancisRobinson, "Cellar until 2035.", 2015)
	require.True(t, ok)
	assert.Equal(t, ShapeUntilYear, m.Shape)
	assert.Equal(t, domain.Window{Start: 2025, End: 2035}, m.Window)

	m, ok = Extract(JancisRobinson, "cellar until 2024", 2020)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2021, End: 2024}, m.Window)

	m, ok = Extract(JancisRobinson, "cellar until 2020", 2020)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2020, End: 2020}, m.Window)
}

func TestExtractYearsToMature(t *testing.T) {
	t.Parallel()

	m, ok := Extract(RobertParker, "this will be ready in 10 years", 2016)
	require.True(t, ok)
	assert.Equal(t, ShapeYearsToMature, m.Shape)
	assert.Equal(t, domain.Window{Start: 2024, End: 2034}, m.Window)

	m, ok = Extract(RobertParker, "cellar for 2 years", 2016)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2017, End: 2026}, m.Window)
}

func TestExtractCellaringYears(t *testing.T) {
	t.Parallel()

	m, ok := Extract(WineCom, "Cellaring potential: 15 years", 2018)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2020, End: 2033}, m.Window)

	m, ok = Extract(WineCom, "cellaring potential 1 years", 2018)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2020, End: 2020}, m.Window)
}

func TestExtractSkipsUngradedSingleYear(t *testing.T) {
	t.Parallel()

	_, ok := Extract(WineSearcher, "cellar until 2030", 2020)
	assert.False(t, ok)
	_, ok = Extract(Decanter, "cellar until 2030", 2020)
	assert.False(t, ok)
}

func TestExtractReversedRange(t *testing.T) {
	t.Parallel()

	m, ok := Extract(Decanter, "drink 2040-2030", 2020)
	require.True(t, ok)
	assert.Equal(t, domain.Window{Start: 2030, End: 2040}, m.Window)
}

func TestExtractNoMatch(t *testing.T) {
	t.Parallel()

	_, ok := Extract(Vivino, "a wine with no window in sight, drink now", 2020)
	assert.False(t, ok)
	_, ok = Extract(Vivino, "", 2020)
	assert.False(t, ok)
}
