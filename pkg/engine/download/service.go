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

package download

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"xkcdfetch/pkg/engine/logger"
	"xkcdfetch/pkg/errors"
)

// LockFileName guards the output directory. It is left in place between runs.
const LockFileName = ".xkcdfetch.lock"

const sniffLen = 512

// Getter is the part of the network client the service uses
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// Written describes one saved file
type Written struct {
	Path    string
	Bytes   int64
	MIME    string
	SHA256  string
	Skipped bool
}

// Service fetches images and writes them atomically
type Service struct {
	client    Getter
	logger    logger.Logger
	overwrite bool
}

// NewService creates a new download service
func NewService(client Getter, log logger.Logger) *Service {
	if log == nil {
		log = logger.Nop{}
	}
	return &Service{
		client: client,
		logger: log,
	}
}

// SetOverwrite replaces existing files instead of skipping them
func (s *Service) SetOverwrite(overwrite bool) {
	s.overwrite = overwrite
}

// Save downloads url into destPath. The payload goes to a temporary file in the
// same directory which is renamed into place once complete; it never outlives a failure.
// When destPath has no extension the sniffed one is appended.
func (s *Service) Save(ctx context.Context, url, destPath string) (*Written, error) {
	if existing, ok := s.existing(destPath); ok && !s.overwrite {
		s.logger.Debug("File already exists: %s", existing)
		info, _ := os.Stat(existing)
		w := &Written{Path: existing, Skipped: true}
		if info != nil {
			w.Bytes = info.Size()
		}
		return w, nil
	}

	resp, err := s.client.Get(ctx, url)
	if err != nil {
		return nil, errors.Track(err).WithContext("url", url).Error()
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			s.logger.Warn("failed to close response body: %v", err)
		}
	}()

	// Read the first bytes for content sniffing, then stitch them back on
	header := make([]byte, sniffLen)
	n, rerr := io.ReadFull(resp.Body, header)
	if rerr != nil && rerr != io.ErrUnexpectedEOF && rerr != io.EOF {
		return nil, errors.Track(&errors.FetchError{URL: url, Err: rerr}).AsDownload().Error()
	}
	header = header[:n]
	body := io.MultiReader(bytes.NewReader(header), resp.Body)

	mime := resp.Header.Get("Content-Type")
	if kind, _ := filetype.Match(header); kind != filetype.Unknown {
		mime = kind.MIME.Value
		if filepath.Ext(destPath) == "" && kind.Extension != "" {
			destPath = destPath + "." + kind.Extension
		}
	}

	written, err := s.writeAtomic(body, destPath, url)
	if err != nil {
		return nil, err
	}
	written.MIME = mime

	s.logger.Debug("Saved %s (%d bytes, %s)", destPath, written.Bytes, mime)
	return written, nil
}

func (s *Service) writeAtomic(body io.Reader, destPath, url string) (w *Written, err error) {
	tempPath := fmt.Sprintf("%s.%s.part", destPath, uuid.NewString())

	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return nil, writeFailure(tempPath, "create", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		_ = file.Close()
		if rmErr := os.Remove(tempPath); rmErr != nil && !os.IsNotExist(rmErr) {
			s.logger.Warn("Failed to remove temporary file %s: %v", tempPath, rmErr)
		}
	}()

	sum := sha256.New()
	size, err := copyPayload(io.MultiWriter(file, sum), body, url, destPath)
	if err != nil {
		return nil, err
	}

	if err := file.Sync(); err != nil {
		return nil, writeFailure(destPath, "sync", err)
	}
	if err := file.Close(); err != nil {
		return nil, writeFailure(destPath, "close", err)
	}
	if err := os.Rename(tempPath, destPath); err != nil {
		return nil, writeFailure(destPath, "rename", err)
	}
	committed = true

	return &Written{
		Path:   destPath,
		Bytes:  size,
		SHA256: digest(sum),
	}, nil
}

// copyPayload is io.Copy that tells read failures (network) from write failures (disk)
func copyPayload(dst io.Writer, src io.Reader, url, destPath string) (int64, error) {
	buf := make([]byte, 32*1024)
	var total int64
	for {
		n, rerr := src.Read(buf)
		if n > 0 {
			if _, werr := dst.Write(buf[:n]); werr != nil {
				return total, writeFailure(destPath, "write", werr)
			}
			total += int64(n)
		}
		if rerr == io.EOF {
			return total, nil
		}
		if rerr != nil {
			return total, errors.Track(&errors.FetchError{URL: url, Err: rerr}).AsDownload().Error()
		}
	}
}

// existing returns the file a previous run left for destPath, if any
func (s *Service) existing(destPath string) (string, bool) {
	if _, err := os.Stat(destPath); err == nil {
		return destPath, true
	}
	if filepath.Ext(destPath) != "" {
		return "", false
	}

	// The extension may have been sniffed on a previous run
	matches, _ := filepath.Glob(escapeGlob(destPath) + ".*")
	for _, m := range matches {
		if !strings.HasSuffix(m, ".part") {
			return m, true
		}
	}
	return "", false
}

// Lock takes an exclusive lock on dir for the duration of a run.
// The returned function releases it. The lock file itself stays behind:
// unlinking it after Unlock would let two later runs lock different inodes.
func (s *Service) Lock(dir string) (func() error, error) {
	path := filepath.Join(dir, LockFileName)
	fileLock := flock.New(path)

	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, writeFailure(path, "lock", err)
	}
	if !locked {
		return nil, writeFailure(path, "lock", errors.ErrLocked)
	}

	s.logger.Debug("Locked output directory %s", dir)
	return func() error {
		if err := fileLock.Unlock(); err != nil {
			return writeFailure(path, "unlock", err)
		}
		return nil
	}, nil
}

// SanitizeFilename makes a string safe for use as a filename
func SanitizeFilename(name string) string {
	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
	)

	name = strings.TrimSpace(replacer.Replace(name))

	// Leave room for the numbered prefix and the temp suffix
	if len(name) > 200 {
		ext := filepath.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		cut := 200 - len(ext)
		for cut > 0 && !utf8.RuneStart(name[cut]) {
			cut--
		}
		name = name[:cut] + ext
	}

	return name
}

func writeFailure(path, op string, err error) error {
	return errors.Track(&errors.WriteError{Path: path, Op: op, Err: err}).
		AsFileSystem().
		WithFileContext(path, op).
		Error()
}

func digest(h hash.Hash) string {
	return hex.EncodeToString(h.Sum(nil))
}

func escapeGlob(path string) string {
	replacer := strings.NewReplacer("[", "\\[", "]", "\\]", "*", "\\*", "?", "\\?")
	return replacer.Replace(path)
}
