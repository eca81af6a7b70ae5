package label

import (
	"testing"

	"github.com/rustyeddy/propfund/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ftmoPatterns = []domain.AccountNamePattern{
	{Contains: "Challenge", Program: "2 Phase", Phase: "Phase 1"},
	{Contains: "Verification", Program: "2 Phase", Phase: "Phase 2"},
	{Contains: "FTMO Trader", Program: "2 Phase", Phase: "Funded"},
}

var the5ersPatterns = []domain.AccountNamePattern{
	{Contains: "FHS", Program: "2 Phase", Phase: "Funded"},
	{Contains: "HS2", Program: "2 Phase", Phase: "Phase 2"},
	{Contains: "HS1", Program: "2 Phase", Phase: "Phase 1"},
}

func TestClassifyFullLabel(t *testing.T) {
	t.Parallel()

	got, ok := Classify("FTMO Challenge 100k", "", ftmoPatterns)
	require.True(t, ok)
	assert.Equal(t, domain.Classification{Program: "2 Phase", Phase: "Phase 1"}, got)

	got, ok = Classify("FTMO Verification", "", ftmoPatterns)
	require.True(t, ok)
	assert.Equal(t, domain.Classification{Program: "2 Phase", Phase: "Phase 2"}, got)

	got, ok = Classify("ftmo trader 200K", "", ftmoPatterns)
	require.True(t, ok)
	assert.Equal(t, "Funded", got.Phase)

	_, ok = Classify("Personal account", "", ftmoPatterns)
	assert.False(t, ok)

	_, ok = Classify("", "", ftmoPatterns)
	assert.False(t, ok)
}

func TestClassifyUsesPhaseSegment(t *testing.T) {
	t.Parallel()

	// "FHS" appears in the holder name; only the coded segment must count.
	got, ok := Classify("HS1-10K FHSmith", "{phase}-{bal} {name}", the5ersPatterns)
	require.True(t, ok)
	assert.Equal(t, "Phase 1", got.Phase)

	// Without the format, the first declared pattern found anywhere wins.
	got, ok = Classify("HS1-10K FHSmith", "", the5ersPatterns)
	require.True(t, ok)
	assert.Equal(t, "Funded", got.Phase)
}

func TestClassifyFallsBackToFullLabel(t *testing.T) {
	t.Parallel()

	patterns := []domain.AccountNamePattern{
		{Contains: "Funded", Program: "1 Phase", Phase: "Funded"},
		{Contains: "Phase 1", Program: "1 Phase", Phase: "Phase 1"},
	}

	// Segment "Fast" matches nothing; the full label still mentions Funded.
	got, ok := Classify("$6K - Funded - Fast", "{bal} - {type} - {phase}", patterns)
	require.True(t, ok)
	assert.Equal(t, "Funded", got.Phase)

	// Label does not fit the format at all.
	got, ok = Classify("Phase 1 $6K", "{bal} - {type} - {phase}", patterns)
	require.True(t, ok)
	assert.Equal(t, "Phase 1", got.Phase)

	// Malformed format degrades to full-label search.
	got, ok = Classify("Phase 1 $6K", "{bal - {phase}", patterns)
	require.True(t, ok)
	assert.Equal(t, "Phase 1", got.Phase)
}

func TestClassifyHonoursDeclarationOrder(t *testing.T) {
	t.Parallel()

	broad := domain.AccountNamePattern{Contains: "Trader", Program: "2 Phase", Phase: "Funded"}
	narrow := domain.AccountNamePattern{Contains: "FTMO 1Step Trader", Program: "1 Phase", Phase: "Funded"}

	got, ok := Classify("FTMO 1Step Trader 50K", "", []domain.AccountNamePattern{broad, narrow})
	require.True(t, ok)
	assert.Equal(t, "2 Phase", got.Program)

	got, ok = Classify("FTMO 1Step Trader 50K", "", []domain.AccountNamePattern{narrow, broad})
	require.True(t, ok)
	assert.Equal(t, "1 Phase", got.Program)
}

func TestClassifySkipsEmptySubstring(t *testing.T) {
	t.Parallel()

	patterns := []domain.AccountNamePattern{
		{Contains: "", Program: "X", Phase: "Y"},
		{Contains: "Challenge", Program: "2 Phase", Phase: "Phase 1"},
	}
	got, ok := Classify("FTMO Challenge", "", patterns)
	require.True(t, ok)
	assert.Equal(t, "2 Phase", got.Program)
}

func TestNewClassifier(t *testing.T) {
	t.Parallel()

	_, err := NewClassifier("{phase", the5ersPatterns)
	assert.Error(t, err)

	c, err := NewClassifier("{phase}-{bal} {name}", the5ersPatterns)
	require.NoError(t, err)

	first, ok1 := c.Classify("HS1-5K Jane")
	second, ok2 := c.Classify("HS1-5K Jane")
	assert.True(t, ok1)
	assert.True(t, ok2)
	assert.Equal(t, first, second)
	assert.Equal(t, "Phase 1", first.Phase)
}
