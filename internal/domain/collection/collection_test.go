package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []Collection {
	return []Collection{
		{ID: 3, Code: "TRA", Name: "Verkehr"},
		{ID: 1, Code: "AGR", Name: "Agricoltura"},
		{ID: 2, Code: "ÉCO", Name: "Économie"},
		{ID: 4, Code: "BAN", Name: "banche"},
	}
}

func TestSortByName(t *testing.T) {
	cols := sample()
	sorted := SortByName(cols)

	require.Len(t, sorted, 4)
	names := []string{sorted[0].Name, sorted[1].Name, sorted[2].Name, sorted[3].Name}
	assert.Equal(t, []string{"Agricoltura", "banche", "Économie", "Verkehr"}, names)

	// input untouched
	assert.Equal(t, "Verkehr", cols[0].Name)
}

func TestMatch(t *testing.T) {
	cols := sample()

	assert.Len(t, Match(cols, ""), 4)
	assert.Len(t, Match(cols, "   "), 4)

	byName := Match(cols, "VERK")
	require.Len(t, byName, 1)
	assert.Equal(t, 3, byName[0].ID)

	byCode := Match(cols, "agr")
	require.Len(t, byCode, 1)
	assert.Equal(t, 1, byCode[0].ID)

	assert.Empty(t, Match(cols, "zzz"))
}

func TestLabelFor(t *testing.T) {
	cols := sample()
	assert.Equal(t, "Verkehr (TRA)", LabelFor(cols, 3))
	assert.Equal(t, "42", LabelFor(cols, 42))
}
