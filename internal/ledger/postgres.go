package ledger

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type PostgresService struct {
	sqlStore
}

func NewPostgresService(dsn string, recentLimit int, log logrus.FieldLogger) (*PostgresService, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSchema(ctx, db, postgresSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	log.Debug("postgres ledger ready")
	return &PostgresService{sqlStore{db: db, recentLimit: recentLimit, numbered: true, log: log}}, nil
}

var postgresSchema = []string{
	`
CREATE TABLE IF NOT EXISTS match_history (
    id BIGSERIAL PRIMARY KEY,
    match_id TEXT NOT NULL UNIQUE,
    played_at_ms BIGINT NOT NULL,
    preset TEXT NOT NULL,
    seed BIGINT NOT NULL,
    player0 TEXT NOT NULL,
    player1 TEXT NOT NULL,
    winner INTEGER NOT NULL,
    rounds INTEGER NOT NULL,
    actions INTEGER NOT NULL,
    tape_blob BYTEA
)`,
	`CREATE INDEX IF NOT EXISTS idx_match_history_recent ON match_history(played_at_ms DESC, id DESC)`,
}
