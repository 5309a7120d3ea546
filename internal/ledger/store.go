package ledger

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// sqlStore is the query layer shared by the SQLite and PostgreSQL services.
// Queries are written with '?' placeholders and rebound per driver.
type sqlStore struct {
	db          *sql.DB
	recentLimit int
	numbered    bool // $1, $2... placeholders
	log         logrus.FieldLogger
}

func (s *sqlStore) bind(query string) string {
	if !s.numbered {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *sqlStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqlStore) RecordMatch(ctx context.Context, rec MatchRecord) error {
	if strings.TrimSpace(rec.MatchID) == "" {
		return nil
	}
	if rec.PlayedAt.IsZero() {
		rec.PlayedAt = time.Now().UTC()
	}
	if ctx == nil {
		ctx = context.Background()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, s.bind(`
INSERT INTO match_history (
    match_id, played_at_ms, preset, seed, player0, player1, winner, rounds, actions, tape_blob
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (match_id) DO NOTHING
`), rec.MatchID, rec.PlayedAt.UTC().UnixMilli(), rec.Preset, rec.Seed,
		rec.Players[0], rec.Players[1], int64(rec.Winner), rec.Rounds, rec.Actions, nullableBytes(rec.Tape)); err != nil {
		return err
	}

	if s.recentLimit > 0 {
		if _, err := tx.ExecContext(ctx, s.bind(`
DELETE FROM match_history
WHERE id NOT IN (
    SELECT id
    FROM match_history
    ORDER BY played_at_ms DESC, id DESC
    LIMIT ?
)
`), s.recentLimit); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.log.WithField("match", rec.MatchID).Debug("match recorded")
	return nil
}

func (s *sqlStore) ListRecent(ctx context.Context, limit int) ([]HistoryItem, error) {
	limit = clampLimit(limit, s.recentLimit)
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := s.db.QueryContext(ctx, s.bind(`
SELECT match_id, played_at_ms, preset, player0, player1, winner, rounds, actions
FROM match_history
ORDER BY played_at_ms DESC, id DESC
LIMIT ?
`), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]HistoryItem, 0, limit)
	for rows.Next() {
		var item HistoryItem
		var playedAtMs, winner int64
		if err := rows.Scan(&item.MatchID, &playedAtMs, &item.Preset, &item.Players[0], &item.Players[1],
			&winner, &item.Rounds, &item.Actions); err != nil {
			return nil, err
		}
		item.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		item.Winner = uint16(winner)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *sqlStore) GetMatch(ctx context.Context, matchID string) (*MatchRecord, error) {
	if strings.TrimSpace(matchID) == "" {
		return nil, ErrNotFound
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var rec MatchRecord
	var playedAtMs, winner int64
	err := s.db.QueryRowContext(ctx, s.bind(`
SELECT match_id, played_at_ms, preset, seed, player0, player1, winner, rounds, actions, tape_blob
FROM match_history
WHERE match_id = ?
`), matchID).Scan(&rec.MatchID, &playedAtMs, &rec.Preset, &rec.Seed, &rec.Players[0], &rec.Players[1],
		&winner, &rec.Rounds, &rec.Actions, &rec.Tape)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
	rec.Winner = uint16(winner)
	return &rec, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, statements []string) error {
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func nullableBytes(v []byte) any {
	if len(v) == 0 {
		return nil
	}
	return v
}
