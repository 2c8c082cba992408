// Package file implements the credential store as a line-oriented text file:
// one "username:password_hash" record per line, appended and never rewritten.
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/haguru/gatekeeper/internal/apperrors"
	"github.com/haguru/gatekeeper/internal/interfaces"
	"github.com/haguru/gatekeeper/internal/models"
)

// Store is a flat-file CredentialStore.
type Store struct {
	path   string
	logger interfaces.Logger
	mu     sync.Mutex
}

// NewStore returns a store backed by the file at path. The file is created on
// the first append.
func NewStore(path string, logger interfaces.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the location of the credential file.
func (s *Store) Path() string {
	return s.path
}

// ListUsers reads every record. A missing file is an empty store.
func (s *Store) ListUsers(ctx context.Context) (map[string]string, error) {
	users, err := s.readAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
	return users, nil
}

// AppendUser writes one record with a single append. The username is checked
// again while the lock is held so two concurrent sign-ups for the same name
// cannot both land.
func (s *Store) AppendUser(ctx context.Context, user models.User) error {
	line, err := formatRecord(user)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), dirPerm); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrCreateStoreDir, err)
	}

	f, err := os.OpenFile(s.path, os.O_RDWR|os.O_APPEND|os.O_CREATE, filePerm)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrOpenStore, err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrLockStore, err)
	}
	defer func() {
		if err := unlockFile(f); err != nil {
			s.logger.Warn("failed to unlock credential file", "path", s.path, "error", err)
		}
	}()

	users, err := s.readAll()
	if err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrStoreUnavailable, err)
	}
	if _, exists := users[user.Username]; exists {
		return apperrors.ErrUsernameTaken
	}

	// a record cut short by an earlier crash must not swallow this one
	terminated, err := endsWithNewline(f)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrReadStore, err)
	}
	if !terminated {
		line = "\n" + line
	}

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrWriteStore, err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("%w: %s: %w", apperrors.ErrStoreUnavailable, ErrWriteStore, err)
	}

	return nil
}

// Close is a no-op; the file is opened per operation.
func (s *Store) Close(ctx context.Context) error {
	return nil
}

func (s *Store) readAll() (map[string]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("%s: %w", ErrOpenStore, err)
	}
	defer f.Close()

	users, err := parseRecords(f, func(lineNo int) {
		s.logger.Warn("skipping malformed credential record", "path", s.path, "line", lineNo)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrReadStore, err)
	}
	return users, nil
}

// parseRecords reads "username:hash" lines. Blank lines are skipped, trailing
// line terminators are trimmed and the hash is everything after the first
// delimiter. Lines without a delimiter or with an empty username are reported
// to malformed and skipped.
func parseRecords(r io.Reader, malformed func(lineNo int)) (map[string]string, error) {
	users := make(map[string]string)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 4096), maxLineBytes)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}

		username, hash, ok := strings.Cut(line, FieldDelimiter)
		if !ok || username == "" {
			if malformed != nil {
				malformed(lineNo)
			}
			continue
		}
		users[username] = hash
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

func endsWithNewline(f *os.File) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return true, nil
	}
	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, err
	}
	return last[0] == '\n', nil
}

func formatRecord(user models.User) (string, error) {
	if user.Username == "" || strings.ContainsAny(user.Username, FieldDelimiter+"\r\n") {
		return "", fmt.Errorf("%s: username must be non-empty without %q or line breaks", ErrInvalidRecord, FieldDelimiter)
	}
	if user.PasswordHash == "" || strings.ContainsAny(user.PasswordHash, "\r\n") {
		return "", fmt.Errorf("%s: password hash must be non-empty without line breaks", ErrInvalidRecord)
	}
	return user.Username + FieldDelimiter + user.PasswordHash + "\n", nil
}
