// Package db implements the fingerprint persistence contract: inserting
// songs and their fingerprints, looking up query fingerprints against the
// store, and resolving a song id back to a title.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"soundmark/models"
)

// Store is the fingerprint persistence contract consumed by the core
// pipeline's callers: insert a song, insert its fingerprints in one
// transaction, look up a query fingerprint set, and resolve a title.
type Store interface {
	InsertSong(ctx context.Context, title string) (songID int64, err error)
	InsertFingerprints(ctx context.Context, songID int64, fps []models.Fingerprint) error
	Lookup(ctx context.Context, query []models.Fingerprint) ([]models.Match, error)
	GetSong(ctx context.Context, songID int64) (title string, err error)
	Close() error
}

// insertBatchSize bounds how many fingerprint rows go into one multi-row
// INSERT, mirroring the teacher's batched-insert shape.
const insertBatchSize = 20000

// PostgresStore is the Store implementation backed by Postgres via the
// pgx stdlib driver.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore opens a connection, verifies it, and ensures the
// songs/fingerprints tables exist.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	sqlDB, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}
	if err := createTables(ctx, sqlDB); err != nil {
		return nil, fmt.Errorf("creating tables: %w", err)
	}
	return &PostgresStore{db: sqlDB}, nil
}

func createTables(ctx context.Context, db *sql.DB) error {
	const songsTable = `
		CREATE TABLE IF NOT EXISTS songs (
			id    BIGSERIAL PRIMARY KEY,
			title TEXT NOT NULL
		);`
	const fingerprintsTable = `
		CREATE TABLE IF NOT EXISTS fingerprints (
			hash         BIGINT NOT NULL,
			anchor_frame BIGINT NOT NULL,
			song_id      BIGINT NOT NULL REFERENCES songs(id),
			PRIMARY KEY (hash, anchor_frame, song_id)
		);
		CREATE INDEX IF NOT EXISTS idx_fingerprints_hash ON fingerprints (hash);`

	if _, err := db.ExecContext(ctx, songsTable); err != nil {
		return fmt.Errorf("songs table: %w", err)
	}
	if _, err := db.ExecContext(ctx, fingerprintsTable); err != nil {
		return fmt.Errorf("fingerprints table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error { return s.db.Close() }

// InsertSong inserts a new song row and returns its generated id.
func (s *PostgresStore) InsertSong(ctx context.Context, title string) (int64, error) {
	var songID int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO songs (title) VALUES ($1) RETURNING id`, title,
	).Scan(&songID)
	if err != nil {
		return 0, fmt.Errorf("inserting song: %w", err)
	}
	return songID, nil
}

// InsertFingerprints persists fps for songID in one transaction, batching
// the INSERT statements so a single track never produces one giant query.
func (s *PostgresStore) InsertFingerprints(ctx context.Context, songID int64, fps []models.Fingerprint) error {
	if len(fps) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for start := 0; start < len(fps); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(fps) {
			end = len(fps)
		}
		batch := fps[start:end]

		valueStrings := make([]string, 0, len(batch))
		valueArgs := make([]any, 0, len(batch)*3)
		p := 1
		for _, fp := range batch {
			valueStrings = append(valueStrings, fmt.Sprintf("($%d, $%d, $%d)", p, p+1, p+2))
			valueArgs = append(valueArgs, int64(fp.Hash), int64(fp.FrameIndex), songID)
			p += 3
		}

		query := fmt.Sprintf(`
			INSERT INTO fingerprints (hash, anchor_frame, song_id)
			VALUES %s
			ON CONFLICT (hash, anchor_frame, song_id) DO NOTHING`,
			strings.Join(valueStrings, ","))

		if _, err := tx.ExecContext(ctx, query, valueArgs...); err != nil {
			return fmt.Errorf("inserting fingerprint batch: %w", err)
		}
	}

	return tx.Commit()
}

// Lookup returns one (song_id, delta) tuple per stored fingerprint whose
// hash equals a query fingerprint's hash, with delta computed relative to
// that specific query fingerprint's frame index.
func (s *PostgresStore) Lookup(ctx context.Context, query []models.Fingerprint) ([]models.Match, error) {
	if len(query) == 0 {
		return nil, nil
	}

	hashSet := make(map[uint64]struct{}, len(query))
	hashes := make([]int64, 0, len(query))
	for _, q := range query {
		if _, seen := hashSet[q.Hash]; !seen {
			hashSet[q.Hash] = struct{}{}
			hashes = append(hashes, int64(q.Hash))
		}
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT hash, anchor_frame, song_id FROM fingerprints WHERE hash = ANY($1)`,
		hashes,
	)
	if err != nil {
		return nil, fmt.Errorf("looking up fingerprints: %w", err)
	}
	defer rows.Close()

	stored := make(map[uint64][]models.Fingerprint)
	storedSongs := make(map[uint64][]int64)
	for rows.Next() {
		var hash, anchorFrame, songID int64
		if err := rows.Scan(&hash, &anchorFrame, &songID); err != nil {
			return nil, err
		}
		h := uint64(hash)
		stored[h] = append(stored[h], models.Fingerprint{Hash: h, FrameIndex: uint32(anchorFrame)})
		storedSongs[h] = append(storedSongs[h], songID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var matches []models.Match
	for _, q := range query {
		rows := stored[q.Hash]
		songs := storedSongs[q.Hash]
		for i, r := range rows {
			matches = append(matches, models.Match{
				SongID: songs[i],
				Delta:  int64(r.FrameIndex) - int64(q.FrameIndex),
			})
		}
	}
	return matches, nil
}

// GetSong resolves a song id back to its title.
func (s *PostgresStore) GetSong(ctx context.Context, songID int64) (string, error) {
	var title string
	err := s.db.QueryRowContext(ctx, `SELECT title FROM songs WHERE id = $1`, songID).Scan(&title)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("song %d not found", songID)
		}
		return "", err
	}
	return title, nil
}
