package shuffle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railbirdlabs/railbird/poker"
)

func TestGenerateCommitmentVerifies(t *testing.T) {
	t.Parallel()

	c, err := GenerateCommitment()
	require.NoError(t, err)
	assert.Len(t, c.Salt, 64) // 32 bytes hex
	assert.Len(t, c.Hash, 64)
	assert.True(t, Verify(c.Salt, c.Hash))
	assert.False(t, Verify("not-the-salt", c.Hash))
}

func TestCommitmentsAreUnique(t *testing.T) {
	t.Parallel()

	a, err := GenerateCommitment()
	require.NoError(t, err)
	b, err := GenerateCommitment()
	require.NoError(t, err)
	assert.NotEqual(t, a.Salt, b.Salt)
	assert.NotEqual(t, a.Hash, b.Hash)
}

func TestDeckForHandIsDeterministic(t *testing.T) {
	t.Parallel()

	a := DeckForHand("cafef00d", 3)
	b := DeckForHand("cafef00d", 3)
	assert.Equal(t, a, b, "same salt and hand number must yield the same deck")
}

func TestDeckForHandIsCompletePermutation(t *testing.T) {
	t.Parallel()

	deck := DeckForHand("cafef00d", 1)
	require.Len(t, deck, poker.DeckSize)

	seen := map[poker.Card]bool{}
	for _, c := range deck {
		assert.False(t, seen[c], "card %s appears twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, poker.DeckSize)
}

func TestDifferentHandNumbersYieldDifferentDecks(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, DeckForHand("cafef00d", 1), DeckForHand("cafef00d", 2))
	assert.NotEqual(t, DeckForHand("cafef00d", 1), DeckForHand("deadbeef", 1))
}
