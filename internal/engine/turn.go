package engine

// NextActor computes which seat must act next, given only the hand's
// participants, its append-only action log, the current round, the table
// bet and the dealer position. It is a pure function: repeated calls with
// identical inputs return the same result.
//
// participants are in clockwise table order; dealerIdx indexes into that
// slice. The returned value is an index into participants.
//
// It returns ErrRoundClosed when betting is settled, or ErrNoneCanAct
// when fewer than two non-folded, non-all-in seats remain and nobody owes
// a call (the caller picks between all-in fast-forward and default win).
func NextActor(participants []*Participant, log []ActionRecord, round Round, tableBet, dealerIdx int) (int, error) {
	n := len(participants)
	if n == 0 {
		return -1, ErrNoneCanAct
	}

	seatIdx := make(map[int]int, n)
	for i, p := range participants {
		seatIdx[p.Seat] = i
	}

	// Only voluntary actions count; posted blinds are forced and do not
	// make a seat "acted".
	var voluntary []ActionRecord
	for _, rec := range log {
		if rec.Round == round && rec.Kind != Blind {
			voluntary = append(voluntary, rec)
		}
	}

	// Seats settled since the last aggression: everyone who acted at or
	// after the last raise/all-in (the raiser included). With no
	// aggression this round, settled means "has acted at all".
	lastAggr := 0
	for i, rec := range voluntary {
		if rec.aggressive() {
			lastAggr = i
		}
	}
	settled := make(map[int]bool, n)
	for _, rec := range voluntary[lastAggr:] {
		settled[rec.Seat] = true
	}

	// Scan clockwise from the seat after the last actor, or from the
	// round-start seat when nobody has acted: UTG (dealer+3) preflop,
	// small blind (dealer+1) on later streets.
	var scanStart int
	if len(voluntary) > 0 {
		scanStart = (seatIdx[voluntary[len(voluntary)-1].Seat] + 1) % n
	} else if round == Preflop {
		scanStart = (dealerIdx + 3) % n
	} else {
		scanStart = (dealerIdx + 1) % n
	}

	for i := 0; i < n; i++ {
		pos := (scanStart + i) % n
		p := participants[pos]
		if !p.CanAct() {
			continue
		}
		// A seat must act if it owes a call, or if it has not acted since
		// the last aggression. The second clause also grants the big
		// blind its preflop option: the blind post is not a voluntary
		// action, so an unraised big blind is still unsettled even though
		// its bet already matches the table bet.
		if p.Bet < tableBet || !settled[p.Seat] {
			return pos, nil
		}
	}

	actionable := 0
	for _, p := range participants {
		if p.CanAct() {
			actionable++
		}
	}
	if actionable < 2 {
		return -1, ErrNoneCanAct
	}
	return -1, ErrRoundClosed
}
