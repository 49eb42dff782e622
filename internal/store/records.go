// internal/store/records.go
//
// SQL-backed game record log.
// Responsibilities:
//   - Opening an in-process SQLite database (shared-cache memory mode; nothing
//     is written to disk and the data lives as long as the process).
//   - Applying the embedded migrations in sql/*.sql (idempotent, recorded in
//     _migrations).
//   - Per-player game.Recorder views over the record table.
//   - Daily helpers: whether a player already finished a date, leaderboard.

package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle-engine/internal/daily"
	"github.com/robalobadob/wordle-engine/internal/game"
)

//go:embed sql/*.sql
var migrations embed.FS

// Records is the record log shared by every session.
type Records struct {
	db  *sql.DB
	now func() time.Time
}

// OpenRecords opens the named in-memory database and migrates it. Opening
// the same name twice in one process shares the data.
func OpenRecords(ctx context.Context, name string) (*Records, error) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", name)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	// The memory database disappears with its last connection, and shared-cache
	// table locks do not honour the busy timeout: use exactly one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open records: %w", err)
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Records{db: db, now: time.Now}, nil
}

// Close releases the database; its contents are gone afterwards.
func (r *Records) Close() error { return r.db.Close() }

// migrate applies the embedded sql/*.sql files in lexical order, each in its
// own transaction, skipping files already listed in _migrations.
func migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrations, "sql/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := migrations.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Debug().Str("migration", f).Msg("applied")
	}
	return nil
}

// For returns the record log of one player in one mode.
func (r *Records) For(playerID, mode string) game.Recorder {
	return &playerRecords{r: r, playerID: playerID, mode: mode}
}

// playerRecords implements game.Recorder over the shared table.
type playerRecords struct {
	r        *Records
	playerID string
	mode     string
}

// Append files rec under the date its round started, so a round finished
// after midnight still counts for the day its word belonged to.
func (p *playerRecords) Append(ctx context.Context, rec game.GameRecord) error {
	now := p.r.now().UTC()
	played := rec.StartedAt
	if played.IsZero() {
		played = now
	}
	_, err := p.r.db.ExecContext(ctx, `
        INSERT INTO game_records (player_id, mode, date, solved, guesses, created_at)
        VALUES (?, ?, ?, ?, ?, ?)`,
		p.playerID, p.mode, daily.DateKey(played), rec.Solved, rec.Guesses, now.Format(time.RFC3339),
	)
	return err
}

func (p *playerRecords) Records(ctx context.Context) ([]game.GameRecord, error) {
	rows, err := p.r.db.QueryContext(ctx, `
        SELECT solved, guesses
        FROM game_records
        WHERE player_id=? AND mode=?
        ORDER BY id ASC`, p.playerID, p.mode,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []game.GameRecord
	for rows.Next() {
		var rec game.GameRecord
		if err := rows.Scan(&rec.Solved, &rec.Guesses); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// PlayedOn reports whether the player has a record in mode for date.
func (r *Records) PlayedOn(ctx context.Context, playerID, mode, date string) (bool, error) {
	var cnt int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM game_records WHERE player_id=? AND mode=? AND date=?`,
		playerID, mode, date,
	).Scan(&cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// LBRow is one leaderboard entry.
type LBRow struct {
	PlayerID string `json:"playerId"`
	Guesses  int    `json:"guesses"`
}

// Leaderboard returns the solved records of mode on date, fewest guesses
// first, earliest first among ties. limit <= 0 means 20.
func (r *Records) Leaderboard(ctx context.Context, mode, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT player_id, guesses
        FROM game_records
        WHERE mode=? AND date=? AND solved=1
        ORDER BY guesses ASC, id ASC
        LIMIT ?`, mode, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var row LBRow
		if err := rows.Scan(&row.PlayerID, &row.Guesses); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
