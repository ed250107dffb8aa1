package poker

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Deck is an ordered sequence of cards. Dealing is expressed as pure
// functions that return the dealt cards plus the remaining deck, so the
// same input deck always produces the same runout.
type Deck []Card

// NewOrderedDeck returns all 52 cards in canonical (unshuffled) order
func NewOrderedDeck() Deck {
	d := make(Deck, 0, DeckSize)
	for suit := Clubs; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d = append(d, NewCard(rank, suit))
		}
	}
	return d
}

// Deal removes n cards from the top of the deck
func Deal(d Deck, n int) ([]Card, Deck) {
	if n > len(d) {
		n = len(d)
	}
	return d[:n], d[n:]
}

// DealHole deals two hole cards
func DealHole(d Deck) ([2]Card, Deck) {
	cards, rest := Deal(d, 2)
	var hole [2]Card
	copy(hole[:], cards)
	return hole, rest
}

// DealFlop deals the three flop cards
func DealFlop(d Deck) ([]Card, Deck) {
	return Deal(d, 3)
}

// DealTurn deals the turn card
func DealTurn(d Deck) (Card, Deck) {
	cards, rest := Deal(d, 1)
	return cards[0], rest
}

// DealRiver deals the river card
func DealRiver(d Deck) (Card, Deck) {
	cards, rest := Deal(d, 1)
	return cards[0], rest
}
