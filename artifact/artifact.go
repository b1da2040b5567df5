// Package artifact persists per-stage JSON artifacts of a pipeline run, so
// intermediate results (parsed diff, candidates, report) can be inspected or
// replayed later. Large payloads are stored brotli-compressed; Read is
// transparent about which form a stage was written in.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/google/uuid"

	"effdiff/logger"
)

const (
	// CompressThreshold is the envelope size in bytes above which the
	// artifact is written brotli-compressed.
	CompressThreshold = 64 * 1024

	// compressQuality trades ratio for speed; artifacts are written once
	// per run and rarely read back.
	compressQuality = 4
)

// Envelope wraps every stored payload with run provenance.
type Envelope struct {
	RunID     string          `json:"run_id"`
	Stage     string          `json:"stage"`
	CreatedAt time.Time       `json:"created_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Store writes stage artifacts into one directory. A nil Store or an empty
// directory disables persistence: Write becomes a no-op so callers never
// need to branch on whether artifacts were requested.
type Store struct {
	dir       string
	runID     string
	threshold int
}

// NewStore creates a store rooted at dir with a fresh run ID. An empty dir
// yields a disabled store.
func NewStore(dir string) (*Store, error) {
	s := &Store{dir: dir, runID: uuid.NewString(), threshold: CompressThreshold}
	if dir == "" {
		return s, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating artifact dir: %w", err)
	}
	return s, nil
}

// Enabled reports whether artifacts are persisted.
func (s *Store) Enabled() bool {
	return s != nil && s.dir != ""
}

// RunID returns the identifier stamped into every envelope this store writes.
func (s *Store) RunID() string {
	if s == nil {
		return ""
	}
	return s.runID
}

// Write persists payload as the named stage's artifact. Disabled stores
// discard the write silently.
func (s *Store) Write(stage string, payload any) error {
	if !s.Enabled() {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", stage, err)
	}

	envelope, err := json.MarshalIndent(Envelope{
		RunID:     s.runID,
		Stage:     stage,
		CreatedAt: time.Now().UTC(),
		Payload:   raw,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %s envelope: %w", stage, err)
	}

	if len(envelope) < s.threshold {
		path := s.path(stage, false)
		if err := os.WriteFile(path, envelope, 0644); err != nil {
			return fmt.Errorf("writing %s: %w", stage, err)
		}
		logger.Debug("artifact: wrote %s (%d bytes)", path, len(envelope))
		return nil
	}

	var buf bytes.Buffer
	w := brotli.NewWriterLevel(&buf, compressQuality)
	if _, err := w.Write(envelope); err != nil {
		return fmt.Errorf("compressing %s: %w", stage, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("compressing %s: %w", stage, err)
	}

	path := s.path(stage, true)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", stage, err)
	}
	logger.Debug("artifact: wrote %s (%d bytes, %d compressed)", path, len(envelope), buf.Len())
	return nil
}

// Read loads a stage's payload into out, decompressing if the artifact was
// written in compressed form.
func (s *Store) Read(stage string, out any) error {
	if !s.Enabled() {
		return fmt.Errorf("artifact store is disabled")
	}

	data, err := os.ReadFile(s.path(stage, false))
	if errors.Is(err, os.ErrNotExist) {
		var compressed []byte
		compressed, err = os.ReadFile(s.path(stage, true))
		if err == nil {
			data, err = io.ReadAll(brotli.NewReader(bytes.NewReader(compressed)))
		}
	}
	if err != nil {
		return fmt.Errorf("reading %s artifact: %w", stage, err)
	}

	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("unmarshaling %s envelope: %w", stage, err)
	}
	if err := json.Unmarshal(envelope.Payload, out); err != nil {
		return fmt.Errorf("unmarshaling %s payload: %w", stage, err)
	}
	return nil
}

// path builds the artifact file path for a stage.
func (s *Store) path(stage string, compressed bool) string {
	name := stage + ".json"
	if compressed {
		name += ".br"
	}
	return filepath.Join(s.dir, name)
}
