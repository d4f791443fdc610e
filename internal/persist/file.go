package persist

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/restotycoon/server/internal/world"
)

// FileStore writes one zstd-compressed JSON document per slot and appends
// the day ledger as JSON lines next to it.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

func OpenFileStore(dir string) (*FileStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty save directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{dir: dir}, nil
}

func (s *FileStore) path(slot, ext string) (string, error) {
	if slot == "" || slot != filepath.Base(slot) || slot == "." || slot == ".." {
		return "", fmt.Errorf("invalid slot name %q", slot)
	}
	return filepath.Join(s.dir, slot+ext), nil
}

func (s *FileStore) LoadState(_ context.Context, slot string, dst *world.GameState) (bool, error) {
	p, err := s.path(slot, ".json.zst")
	if err != nil {
		return false, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return false, err
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return false, fmt.Errorf("read save %s: %w", slot, err)
	}
	return true, mergeState(raw, dst)
}

// SaveState writes to a temp file and renames it over the old save, so a
// crash mid-write leaves the previous save intact.
func (s *FileStore) SaveState(_ context.Context, slot string, state world.GameState) error {
	p, err := s.path(slot, ".json.zst")
	if err != nil {
		return err
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp := p + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		f.Close()
		return err
	}
	if _, err := enc.Write(raw); err != nil {
		enc.Close()
		f.Close()
		return fmt.Errorf("write save %s: %w", slot, err)
	}
	if err := enc.Close(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

func (s *FileStore) RecordDay(_ context.Context, slot string, d DayReport) error {
	p, err := s.path(slot, ".ledger.jsonl")
	if err != nil {
		return err
	}
	line, err := json.Marshal(d)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(append(line, '\n'))
	return err
}

// Days reads back the ledger of a slot.
func (s *FileStore) Days(slot string) ([]DayReport, error) {
	p, err := s.path(slot, ".ledger.jsonl")
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []DayReport
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var d DayReport
		if err := json.Unmarshal(sc.Bytes(), &d); err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", len(out)+1, err)
		}
		out = append(out, d)
	}
	return out, sc.Err()
}

func (s *FileStore) Close() error { return nil }
