// Package json persists the session collection as a single JSON document
// on disk, implementing [minerva.Store].
//
// The whole collection lives under one file in a versioned envelope.
// Writes replace the file atomically via a temp file and rename. Missing
// or corrupt data loads as an empty collection, never as an error.
package json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/fwojciec/minerva"
)

// Interface compliance check.
var _ minerva.Store = (*Store)(nil)

// Store is a file-backed [minerva.Store].
type Store struct {
	path   string
	logger zerolog.Logger
}

// NewStore creates a Store persisting to the given file path.
func NewStore(path string, logger zerolog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// envelope is the v1 wire format for the persisted collection.
type envelope struct {
	Version  int          `json:"version"`
	Sessions []sessionDTO `json:"sessions"`
}

// Load reads the session collection. A missing file yields an empty
// collection; a corrupt payload is logged and likewise yields an empty
// collection, to be overwritten by the next save.
func (s *Store) Load(ctx context.Context) ([]minerva.ChatSession, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read sessions file: %w", err)
	}
	sessions, err := UnmarshalSessions(data)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.path).Msg("corrupt session data, starting empty")
		return nil, nil
	}
	return sessions, nil
}

// Save writes the whole collection, creating parent directories as needed.
func (s *Store) Save(ctx context.Context, sessions []minerva.ChatSession) error {
	data, err := MarshalSessions(sessions)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Clear removes the sessions file. Removing an already-absent file is not
// an error.
func (s *Store) Clear(ctx context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove sessions file: %w", err)
	}
	return nil
}

// MarshalSessions serializes the collection in v1 envelope format.
func MarshalSessions(sessions []minerva.ChatSession) ([]byte, error) {
	env := envelope{
		Version:  1,
		Sessions: make([]sessionDTO, len(sessions)),
	}
	for i, sess := range sessions {
		env.Sessions[i] = marshalSession(sess)
	}
	return json.MarshalIndent(env, "", "  ")
}

// UnmarshalSessions deserializes a collection from v1 envelope format.
func UnmarshalSessions(data []byte) ([]minerva.ChatSession, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	if env.Version != 1 {
		return nil, fmt.Errorf("unsupported envelope version: %d", env.Version)
	}
	sessions := make([]minerva.ChatSession, len(env.Sessions))
	for i, dto := range env.Sessions {
		sess, err := unmarshalSession(dto)
		if err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		sessions[i] = sess
	}
	return sessions, nil
}
