package cachestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"lingocast/internal/episode"
	"lingocast/internal/services"
	"lingocast/internal/transcript"
)

// Get loads the transcript cached under key. A missing row is reported as
// services.ErrCacheMiss.
func (s *Store) Get(ctx context.Context, key episode.Key) (*transcript.Transcript, error) {
	tr, _, err := s.Lookup(ctx, key)
	return tr, err
}

// Lookup is Get plus the entry metadata.
func (s *Store) Lookup(ctx context.Context, key episode.Key) (*transcript.Transcript, Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT episode_key, title, audio_url, source, line_count, duration_seconds, created_at, updated_at, payload
         FROM transcripts WHERE episode_key = ?`, string(key))

	var (
		entry   Entry
		payload string
	)
	if err := scanEntry(row, &entry, &payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, Entry{}, services.Wrap(services.ErrCacheMiss, "cachestore", "get", string(key), nil)
		}
		return nil, Entry{}, fmt.Errorf("query transcript %s: %w", key, err)
	}
	tr, err := transcript.Decode([]byte(payload))
	if err != nil {
		return nil, entry, services.Wrap(services.ErrValidation, "cachestore", "decode", string(key), err)
	}
	return tr, entry, nil
}

// Put stores tr under key, replacing any previous entry but keeping its
// creation time.
func (s *Store) Put(ctx context.Context, key episode.Key, ep episode.Episode, source string, tr *transcript.Transcript) error {
	if tr.Len() == 0 {
		return services.Wrap(services.ErrValidation, "cachestore", "put", "refusing to cache empty transcript", nil)
	}
	payload, err := transcript.Encode(tr)
	if err != nil {
		return fmt.Errorf("encode transcript: %w", err)
	}
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO transcripts (
            episode_key, title, audio_url, source, line_count, duration_seconds, payload, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(episode_key) DO UPDATE SET
            title = excluded.title,
            audio_url = excluded.audio_url,
            source = excluded.source,
            line_count = excluded.line_count,
            duration_seconds = excluded.duration_seconds,
            payload = excluded.payload,
            updated_at = excluded.updated_at`,
		string(key), ep.Title, ep.AudioURL, source, tr.Len(), tr.Duration(), string(payload), now, now,
	)
	if err != nil {
		return fmt.Errorf("upsert transcript %s: %w", key, err)
	}
	return nil
}

// List returns every cached entry, most recently updated first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT episode_key, title, audio_url, source, line_count, duration_seconds, created_at, updated_at
         FROM transcripts ORDER BY updated_at DESC, episode_key`)
	if err != nil {
		return nil, fmt.Errorf("list transcripts: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := scanEntry(rows, &entry, nil); err != nil {
			return nil, fmt.Errorf("scan transcript row: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// Delete removes the entry for key and reports whether one existed.
func (s *Store) Delete(ctx context.Context, key episode.Key) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transcripts WHERE episode_key = ?", string(key))
	if err != nil {
		return false, fmt.Errorf("delete transcript %s: %w", key, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes every cached transcript and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM transcripts")
	if err != nil {
		return 0, fmt.Errorf("clear transcripts: %w", err)
	}
	return res.RowsAffected()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner, entry *Entry, payload *string) error {
	var (
		key       string
		createdAt string
		updatedAt string
	)
	dest := []any{&key, &entry.Title, &entry.AudioURL, &entry.Source, &entry.LineCount, &entry.Duration, &createdAt, &updatedAt}
	if payload != nil {
		dest = append(dest, payload)
	}
	if err := row.Scan(dest...); err != nil {
		return err
	}
	entry.Key = episode.Key(key)
	entry.CreatedAt = parseTime(createdAt)
	entry.UpdatedAt = parseTime(updatedAt)
	return nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
