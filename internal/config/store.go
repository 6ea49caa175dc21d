package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

const redacted = "********"

// Store holds the live configuration and the file it was read from.
type Store struct {
	mu   sync.RWMutex
	path string
	cfg  *Config
}

func NewStore(path string) (*Store, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	return &Store{path: path, cfg: cfg}, nil
}

func (s *Store) Current() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.cfg
}

// Redacted returns the persisted config document with secret values masked.
func (s *Store) Redacted() (map[string]any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDocument()
	if err != nil {
		return nil, err
	}

	redact(doc)
	return doc, nil
}

// Merge shallow-merges overrides into the persisted document: top-level keys in
// overrides replace the stored ones wholesale. The result must still be a valid
// config, otherwise nothing is written and ErrInvalid is returned.
func (s *Store) Merge(overrides map[string]any) error {
	const op = "config.Store.Merge"

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	for k, v := range overrides {
		doc[k] = v
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrInvalid, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".config-*"+filepath.Ext(s.path))
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cfg, err := Load(tmp.Name())
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.cfg = cfg
	return nil
}

func (s *Store) readDocument() (map[string]any, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	doc := make(map[string]any)
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

func redact(doc map[string]any) {
	for k, v := range doc {
		if nested, ok := v.(map[string]any); ok {
			redact(nested)
			continue
		}

		key := strings.ToLower(k)
		if strings.Contains(key, "token") || strings.Contains(key, "secret") || strings.Contains(key, "password") {
			doc[k] = redacted
		}
	}
}
