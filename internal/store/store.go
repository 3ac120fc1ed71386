// Package store persists bot state (players, MVP votes and the pending
// scheduled message) in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// ErrUnknownPlayer indicates the referenced player was never registered.
var ErrUnknownPlayer = errors.New("player is not registered")

// ErrPlayerExists indicates a player was registered twice.
var ErrPlayerExists = errors.New("player is already registered")

// ErrMissingVotes indicates an MVP resolution was requested before every
// registered player voted.
var ErrMissingVotes = errors.New("not everyone has voted")

// PlayerXP is one player's experience tally.
type PlayerXP struct {
	PlayerID   string
	Experience int64
}

// ScheduledMessage is the single pending scheduled announcement.
type ScheduledMessage struct {
	ChannelID string
	Message   string
	SendAt    time.Time
}

// Store persists bot state in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and
// ensures the schema exists.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("database path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := setup(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("setup schema: %w", err)
	}

	return &Store{db: db}, nil
}

func setup(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS players (
			id         TEXT PRIMARY KEY,
			experience INTEGER NOT NULL DEFAULT 0
		);
		CREATE TABLE IF NOT EXISTS mvp_votes (
			voter_id TEXT PRIMARY KEY,
			mvp_id   TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS schedule (
			id         INTEGER PRIMARY KEY CHECK (id = 1),
			channel_id TEXT NOT NULL,
			message    TEXT NOT NULL,
			send_at    INTEGER NOT NULL
		);
	`)

	return err
}

// Close closes the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Stats reports connection statistics for the underlying pool.
func (s *Store) Stats() sql.DBStats {
	return s.db.Stats()
}

// CreatePlayer registers a player with zero experience.
func (s *Store) CreatePlayer(ctx context.Context, playerID string) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO players (id) VALUES (?)`, playerID)
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	if n == 0 {
		return ErrPlayerExists
	}

	return nil
}

// XP returns a single player's experience.
func (s *Store) XP(ctx context.Context, playerID string) (int64, error) {
	var xp int64
	err := s.db.QueryRowContext(ctx,
		`SELECT experience FROM players WHERE id = ?`, playerID).Scan(&xp)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrUnknownPlayer
	}
	if err != nil {
		return 0, fmt.Errorf("get xp: %w", err)
	}

	return xp, nil
}

// SetXP overwrites a player's experience.
func (s *Store) SetXP(ctx context.Context, playerID string, xp int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET experience = ? WHERE id = ?`, xp, playerID)
	if err != nil {
		return fmt.Errorf("set xp: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set xp: %w", err)
	}
	if n == 0 {
		return ErrUnknownPlayer
	}

	return nil
}

// AllXP returns every player's experience, highest first.
func (s *Store) AllXP(ctx context.Context) ([]PlayerXP, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, experience FROM players ORDER BY experience DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("get all xp: %w", err)
	}
	defer rows.Close()

	var all []PlayerXP
	for rows.Next() {
		var p PlayerXP
		if err := rows.Scan(&p.PlayerID, &p.Experience); err != nil {
			return nil, fmt.Errorf("scan xp row: %w", err)
		}
		all = append(all, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get all xp: %w", err)
	}

	return all, nil
}

// VoteMVP records voterID's vote for mvpID, replacing any earlier vote.
// The voter must be a registered player.
func (s *Store) VoteMVP(ctx context.Context, voterID, mvpID string) error {
	if _, err := s.XP(ctx, voterID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO mvp_votes (voter_id, mvp_id) VALUES (?, ?)
		 ON CONFLICT(voter_id) DO UPDATE SET mvp_id = excluded.mvp_id`,
		voterID, mvpID)
	if err != nil {
		return fmt.Errorf("vote for mvp: %w", err)
	}

	return nil
}

// ResolveMVP tallies the votes and clears them. It fails with
// ErrMissingVotes until every registered player has voted. Ties resolve
// to the lowest player id.
func (s *Store) ResolveMVP(ctx context.Context) (string, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("resolve mvp: %w", err)
	}
	defer tx.Rollback()

	var players, votes int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM players`).Scan(&players); err != nil {
		return "", fmt.Errorf("count players: %w", err)
	}
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM mvp_votes`).Scan(&votes); err != nil {
		return "", fmt.Errorf("count votes: %w", err)
	}
	if players == 0 || votes < players {
		return "", ErrMissingVotes
	}

	var mvpID string
	err = tx.QueryRowContext(ctx,
		`SELECT mvp_id FROM mvp_votes
		 GROUP BY mvp_id
		 ORDER BY COUNT(*) DESC, mvp_id ASC
		 LIMIT 1`).Scan(&mvpID)
	if err != nil {
		return "", fmt.Errorf("tally votes: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM mvp_votes`); err != nil {
		return "", fmt.Errorf("clear votes: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("resolve mvp: %w", err)
	}

	return mvpID, nil
}

// Schedule stores msg as the pending scheduled message, replacing any
// previous one.
func (s *Store) Schedule(ctx context.Context, msg ScheduledMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO schedule (id, channel_id, message, send_at) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   channel_id = excluded.channel_id,
		   message = excluded.message,
		   send_at = excluded.send_at`,
		msg.ChannelID, msg.Message, msg.SendAt.UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("create schedule: %w", err)
	}

	return nil
}

// NextScheduled returns the pending scheduled message, or nil when there
// is none.
func (s *Store) NextScheduled(ctx context.Context) (*ScheduledMessage, error) {
	var msg ScheduledMessage
	var sendAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT channel_id, message, send_at FROM schedule WHERE id = 1`).
		Scan(&msg.ChannelID, &msg.Message, &sendAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	msg.SendAt = time.UnixMilli(sendAt).UTC()
	return &msg, nil
}

// ClearSchedule removes the pending scheduled message, if any.
func (s *Store) ClearSchedule(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM schedule`); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}

	return nil
}
