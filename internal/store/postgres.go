package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq" // postgres driver

	"github.com/railbirdlabs/railbird/internal/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
    id TEXT PRIMARY KEY,
    sequence INT NOT NULL,
    status TEXT NOT NULL,
    hand_number INT NOT NULL,
    max_hands INT NOT NULL,
    betting_closes_after_hand INT NOT NULL,
    winner_seat INT NOT NULL,
    commitment TEXT NOT NULL,
    salt TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS hands (
    id TEXT PRIMARY KEY,
    game_id TEXT NOT NULL REFERENCES games (id),
    number INT NOT NULL,
    status TEXT NOT NULL,
    round TEXT NOT NULL,
    board TEXT NOT NULL DEFAULT '',
    pot INT NOT NULL,
    dealer_seat INT NOT NULL,
    winner_seat INT NOT NULL,
    winning_hand TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS participants (
    hand_id TEXT NOT NULL REFERENCES hands (id),
    seat INT NOT NULL,
    stack INT NOT NULL,
    contributed INT NOT NULL,
    refunded INT NOT NULL,
    folded BOOLEAN NOT NULL,
    all_in BOOLEAN NOT NULL,
    PRIMARY KEY (hand_id, seat)
);
CREATE TABLE IF NOT EXISTS actions (
    hand_id TEXT NOT NULL REFERENCES hands (id),
    seq INT NOT NULL,
    seat INT NOT NULL,
    kind TEXT NOT NULL,
    amount INT NOT NULL,
    round TEXT NOT NULL,
    PRIMARY KEY (hand_id, seq)
);
`

// PostgresStore persists records in Postgres via database/sql
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects to the given DSN and ensures the schema exists
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Close releases the connection pool
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SaveGame implements Store
func (s *PostgresStore) SaveGame(ctx context.Context, g GameRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO games (id, sequence, status, hand_number, max_hands, betting_closes_after_hand, winner_seat, commitment, salt)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
    status = EXCLUDED.status,
    hand_number = EXCLUDED.hand_number,
    winner_seat = EXCLUDED.winner_seat,
    salt = EXCLUDED.salt`,
		g.ID, g.Sequence, g.Status, g.HandNumber, g.MaxHands, g.BettingClosesAfterHand, g.WinnerSeat, g.Commitment, g.Salt)
	return err
}

// GetGame implements Store
func (s *PostgresStore) GetGame(ctx context.Context, id string) (GameRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, sequence, status, hand_number, max_hands, betting_closes_after_hand, winner_seat, commitment, salt
FROM games WHERE id = $1`, id)

	var g GameRecord
	err := row.Scan(&g.ID, &g.Sequence, &g.Status, &g.HandNumber, &g.MaxHands, &g.BettingClosesAfterHand, &g.WinnerSeat, &g.Commitment, &g.Salt)
	if err == sql.ErrNoRows {
		return GameRecord{}, ErrNotFound
	}
	return g, err
}

// SaveHand implements Store
func (s *PostgresStore) SaveHand(ctx context.Context, h HandRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO hands (id, game_id, number, status, round, board, pot, dealer_seat, winner_seat, winning_hand)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (id) DO UPDATE SET
    status = EXCLUDED.status,
    round = EXCLUDED.round,
    board = EXCLUDED.board,
    pot = EXCLUDED.pot,
    winner_seat = EXCLUDED.winner_seat,
    winning_hand = EXCLUDED.winning_hand`,
		h.ID, h.GameID, h.Number, h.Status, h.Round, strings.Join(h.Board, " "), h.Pot, h.DealerSeat, h.WinnerSeat, h.WinningHand)
	return err
}

// GetHand implements Store
func (s *PostgresStore) GetHand(ctx context.Context, id string) (HandRecord, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, game_id, number, status, round, board, pot, dealer_seat, winner_seat, winning_hand
FROM hands WHERE id = $1`, id)
	return scanHand(row)
}

// ListHands implements Store
func (s *PostgresStore) ListHands(ctx context.Context, gameID string) ([]HandRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT id, game_id, number, status, round, board, pot, dealer_seat, winner_seat, winning_hand
FROM hands WHERE game_id = $1 ORDER BY number`, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []HandRecord
	for rows.Next() {
		h, err := scanHand(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

// SaveParticipants implements Store
func (s *PostgresStore) SaveParticipants(ctx context.Context, handID string, ps []ParticipantRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, p := range ps {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO participants (hand_id, seat, stack, contributed, refunded, folded, all_in)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (hand_id, seat) DO UPDATE SET
    stack = EXCLUDED.stack,
    contributed = EXCLUDED.contributed,
    refunded = EXCLUDED.refunded,
    folded = EXCLUDED.folded,
    all_in = EXCLUDED.all_in`,
			handID, p.Seat, p.Stack, p.Contributed, p.Refunded, p.Folded, p.AllIn); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListParticipants implements Store
func (s *PostgresStore) ListParticipants(ctx context.Context, handID string) ([]ParticipantRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT hand_id, seat, stack, contributed, refunded, folded, all_in
FROM participants WHERE hand_id = $1 ORDER BY seat`, handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ParticipantRecord
	for rows.Next() {
		var p ParticipantRecord
		if err := rows.Scan(&p.HandID, &p.Seat, &p.Stack, &p.Contributed, &p.Refunded, &p.Folded, &p.AllIn); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// AppendAction implements Store
func (s *PostgresStore) AppendAction(ctx context.Context, handID string, rec engine.ActionRecord) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO actions (hand_id, seq, seat, kind, amount, round)
VALUES ($1, $2, $3, $4, $5, $6)`,
		handID, rec.Seq, rec.Seat, rec.Kind.String(), rec.Amount, rec.Round.String())
	return err
}

// ListActions implements Store
func (s *PostgresStore) ListActions(ctx context.Context, handID string) ([]engine.ActionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT seq, seat, kind, amount, round
FROM actions WHERE hand_id = $1 ORDER BY seq`, handID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []engine.ActionRecord
	for rows.Next() {
		var rec engine.ActionRecord
		var kind, round string
		if err := rows.Scan(&rec.Seq, &rec.Seat, &kind, &rec.Amount, &round); err != nil {
			return nil, err
		}
		rec.Kind = parseKind(kind)
		rec.Round = parseRound(round)
		out = append(out, rec)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanHand(row scanner) (HandRecord, error) {
	var h HandRecord
	var board string
	err := row.Scan(&h.ID, &h.GameID, &h.Number, &h.Status, &h.Round, &board, &h.Pot, &h.DealerSeat, &h.WinnerSeat, &h.WinningHand)
	if err == sql.ErrNoRows {
		return HandRecord{}, ErrNotFound
	}
	if board != "" {
		h.Board = strings.Fields(board)
	}
	return h, err
}

func parseKind(s string) engine.ActionKind {
	for k := engine.Blind; k <= engine.AllIn; k++ {
		if k.String() == s {
			return k
		}
	}
	return engine.Blind
}

func parseRound(s string) engine.Round {
	for r := engine.Preflop; r <= engine.Showdown; r++ {
		if r.String() == s {
			return r
		}
	}
	return engine.Preflop
}
