package engine

// Apply validates and normalizes one actor's decision into a state
// mutation, appends exactly one record to the action log and keeps the
// pot equal to the sum of contributions.
//
// Decisions are never rejected for being merely illegal: a Call with
// nothing to call becomes a Check, a Check facing a bet becomes a Call,
// undersized raises are floored and oversized ones capped. Only actions
// that indicate an accounting bug (acting on a folded or all-in seat,
// acting on a resolved hand) fail, and they fail as IntegrityError.
func (h *Hand) Apply(seat int, d Decision) (ActionRecord, error) {
	if h.state == HandResolved {
		return ActionRecord{}, integrityf(h.ID, "action for seat %d on resolved hand", seat)
	}
	if h.Round == Showdown {
		return ActionRecord{}, integrityf(h.ID, "action for seat %d at showdown", seat)
	}
	p := h.ParticipantAt(seat)
	if p == nil {
		return ActionRecord{}, integrityf(h.ID, "no participant at seat %d", seat)
	}
	if !p.CanAct() {
		return ActionRecord{}, integrityf(h.ID, "duplicate action for settled seat %d", seat)
	}

	tableBet := h.TableBet()
	toCall := tableBet - p.Bet

	kind := d.Kind
	switch {
	case kind == Call && toCall == 0:
		kind = Check
	case kind == Check && toCall > 0:
		kind = Call
	}

	var rec ActionRecord
	switch kind {
	case Fold:
		p.Folded = true
		rec = h.record(seat, Fold, 0)

	case Check:
		rec = h.record(seat, Check, 0)

	case Call:
		paid := p.pay(toCall)
		h.Pot += paid
		// A call that puts the stack all-in does not reopen betting, so
		// it is logged as a call either way.
		rec = h.record(seat, Call, paid)

	case Raise:
		rec = h.applyRaise(p, d.Amount, tableBet)

	case AllIn:
		rec = h.applyRaise(p, p.Bet+p.Stack, tableBet)

	default:
		return ActionRecord{}, integrityf(h.ID, "unexpected decision kind %s from seat %d", kind, seat)
	}

	h.Log = append(h.Log, rec)

	if err := h.CheckConservation(); err != nil {
		return rec, err
	}
	return rec, nil
}

// applyRaise settles a raise (or all-in) to an effective target bet:
// floored at the minimum legal raise, capped at the actor's stack and at
// the best amount any single opponent can still match. Chips nobody could
// ever call stay in the actor's stack instead of sitting dead in the pot.
func (h *Hand) applyRaise(p *Participant, requested, tableBet int) ActionRecord {
	target := requested
	if floor := tableBet + h.lastRaiseSize; target < floor {
		target = floor
	}
	if selfCap := p.Bet + p.Stack; target > selfCap {
		target = selfCap
	}
	if oppCap := h.maxOpponentMatch(p); target > oppCap {
		target = oppCap
	}

	if target <= p.Bet {
		// The cap left nothing to add; resolve to a check.
		return h.record(p.Seat, Check, 0)
	}

	paid := p.pay(target - p.Bet)
	h.Pot += paid

	if p.Bet > tableBet {
		// A capped all-in can land between the table bet and a full
		// raise; the next raise floor still owes at least one big blind.
		h.lastRaiseSize = max(p.Bet-tableBet, h.BigBlind)
		kind := Raise
		if p.AllIn {
			kind = AllIn
		}
		return h.record(p.Seat, kind, paid)
	}

	// Capped down to (at most) the table bet: a call in effect, logged as
	// one so the turn resolver does not treat it as fresh aggression.
	return h.record(p.Seat, Call, paid)
}

// maxOpponentMatch returns the largest total bet any single non-folded
// opponent can still match this round.
func (h *Hand) maxOpponentMatch(actor *Participant) int {
	best := 0
	for _, q := range h.Participants {
		if q == actor || q.Folded {
			continue
		}
		if m := q.Bet + q.Stack; m > best {
			best = m
		}
	}
	return best
}

func (h *Hand) record(seat int, kind ActionKind, amount int) ActionRecord {
	return ActionRecord{
		Seat:   seat,
		Kind:   kind,
		Amount: amount,
		Round:  h.Round,
		Seq:    h.nextSeq(),
	}
}
