// Package shuffle implements the commit-reveal verifiable shuffle.
//
// A game publishes hash(salt) before its first hand is dealt. Every hand's
// deck is a deterministic keyed shuffle seeded by (salt, handNumber), so
// once the salt is revealed anyone can recompute the commitment and
// re-derive every deck that was dealt.
package shuffle

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	mathrand "math/rand/v2"

	"github.com/railbirdlabs/railbird/poker"
)

const saltBytes = 32

// Commitment pairs a secret salt with its public hash. The salt stays
// private until the game resolves; the hash is published up front.
type Commitment struct {
	Salt string
	Hash string
}

// GenerateCommitment creates a fresh random salt and its public commitment
func GenerateCommitment() (Commitment, error) {
	buf := make([]byte, saltBytes)
	if _, err := rand.Read(buf); err != nil {
		return Commitment{}, fmt.Errorf("generating salt: %w", err)
	}
	salt := hex.EncodeToString(buf)
	return Commitment{Salt: salt, Hash: HashSalt(salt)}, nil
}

// HashSalt computes the public commitment for a salt
func HashSalt(salt string) string {
	sum := sha256.Sum256([]byte(salt))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the revealed salt matches the published commitment
func Verify(salt, commitment string) bool {
	return HashSalt(salt) == commitment
}

// DeckForHand derives the deck for one hand of a game. It is a pure
// function: the same (salt, handNumber) always yields the same order.
func DeckForHand(salt string, handNumber int) poker.Deck {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s:%d", salt, handNumber))
	hi := binary.BigEndian.Uint64(sum[0:8])
	lo := binary.BigEndian.Uint64(sum[8:16])
	rng := mathrand.New(mathrand.NewPCG(hi, lo))

	deck := poker.NewOrderedDeck()
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
	return deck
}
