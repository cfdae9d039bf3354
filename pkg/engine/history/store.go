// xkcdfetch: A streamlined CLI tool for downloading xkcd comics.
// Copyright (C) 2025 Luca M. Schmidt (LuMiSxh)
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package history

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"xkcdfetch/pkg/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS downloads (
	num           INTEGER NOT NULL,
	title         TEXT,
	file_path     TEXT NOT NULL,
	bytes         INTEGER,
	sha256        TEXT,
	mime          TEXT,
	downloaded_at INTEGER NOT NULL,
	PRIMARY KEY (num, file_path)
);

CREATE INDEX IF NOT EXISTS downloads_at ON downloads (downloaded_at);
`

// Entry is one successful download
type Entry struct {
	Num          int       `json:"num"`
	Title        string    `json:"title"`
	FilePath     string    `json:"file_path"`
	Bytes        int64     `json:"bytes"`
	SHA256       string    `json:"sha256"`
	MIME         string    `json:"mime"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// Store is the download ledger
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger at path
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Track(err).WithFileContext(path, "mkdir").AsFileSystem().Error()
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Track(err).WithFileContext(path, "open").AsFileSystem().Error()
	}
	// Writers come from many workers; SQLite wants them serialised
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Track(err).
			WithFileContext(path, "migrate").
			WithMessagef("Could not initialise history database %s", path).
			AsFileSystem().
			Error()
	}

	return &Store{db: db}, nil
}

// Record upserts an entry keyed by comic number and file path
func (s *Store) Record(ctx context.Context, e Entry) error {
	if e.DownloadedAt.IsZero() {
		e.DownloadedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO downloads (num, title, file_path, bytes, sha256, mime, downloaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (num, file_path) DO UPDATE SET
			title = excluded.title,
			bytes = excluded.bytes,
			sha256 = excluded.sha256,
			mime = excluded.mime,
			downloaded_at = excluded.downloaded_at
	`, e.Num, e.Title, e.FilePath, e.Bytes, e.SHA256, e.MIME, e.DownloadedAt.Unix())
	if err != nil {
		return errors.Track(err).WithContext("comic", e.Num).AsFileSystem().Error()
	}
	return nil
}

// List returns the most recent entries, newest first
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT num, title, file_path, bytes, sha256, mime, downloaded_at
		FROM downloads
		ORDER BY downloaded_at DESC, num DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, errors.Track(err).AsFileSystem().Error()
	}
	defer rows.Close()

	out := make([]Entry, 0, limit)
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Track(err).AsFileSystem().Error()
	}
	return out, nil
}

// Get returns every recorded file for a comic
func (s *Store) Get(ctx context.Context, num int) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT num, title, file_path, bytes, sha256, mime, downloaded_at
		FROM downloads
		WHERE num = ?
		ORDER BY downloaded_at DESC
	`, num)
	if err != nil {
		return nil, errors.Track(err).WithContext("comic", num).AsFileSystem().Error()
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		e, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Track(err).AsFileSystem().Error()
	}
	if len(out) == 0 {
		return nil, errors.Track(errors.ErrNotFound).WithContext("comic", num).WithMessagef("Comic %d was never downloaded", num).Error()
	}
	return out, nil
}

// Close releases the database
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func scan(rows *sql.Rows) (Entry, error) {
	var e Entry
	var title, sum, mime sql.NullString
	var bytes sql.NullInt64
	var at int64
	if err := rows.Scan(&e.Num, &title, &e.FilePath, &bytes, &sum, &mime, &at); err != nil {
		return Entry{}, errors.Track(err).AsFileSystem().Error()
	}
	e.Title = title.String
	e.Bytes = bytes.Int64
	e.SHA256 = sum.String
	e.MIME = mime.String
	e.DownloadedAt = time.Unix(at, 0)
	return e, nil
}
