package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gardenmap/internal/model"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const jsonDocVersion = 1

// jsonDoc is the on-disk shape of the JSON document store: the whole garden in one file.
type jsonDoc struct {
	Version int           `json:"version"`
	Plants  []model.Plant `json:"gardenPlants"`
}

// JSONStore keeps the full plant list in a single JSON document and rewrites it atomically on
// every mutation.
type JSONStore struct {
	path string
	log  logrus.FieldLogger

	mu sync.Mutex
}

func OpenJSON(path string, log logrus.FieldLogger) (*JSONStore, error) {
	path = filepath.Clean(path)
	if path == "." || path == "" {
		return nil, errors.New("json store: missing path")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return &JSONStore{path: path, log: log.WithField("path", path)}, nil
}

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) read() ([]model.Plant, error) {
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(b) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc jsonDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	if doc.Version > jsonDocVersion {
		return nil, fmt.Errorf("%s: unsupported document version %d", s.path, doc.Version)
	}
	for i := range doc.Plants {
		doc.Plants[i].SeasonalInfo = doc.Plants[i].SeasonalInfo.Normalize()
	}
	return doc.Plants, nil
}

func (s *JSONStore) write(plants []model.Plant) error {
	if plants == nil {
		plants = []model.Plant{}
	}
	b, err := json.MarshalIndent(jsonDoc{Version: jsonDocVersion, Plants: plants}, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(s.path, append(b, '\n'))
}

func (s *JSONStore) GetAll(_ context.Context) ([]model.Plant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	plants, err := s.read()
	if err != nil {
		return nil, err
	}
	if plants == nil {
		plants = []model.Plant{}
	}
	return plants, nil
}

func (s *JSONStore) Insert(_ context.Context, p model.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plants, err := s.read()
	if err != nil {
		return err
	}
	for _, existing := range plants {
		if existing.ID == p.ID {
			return fmt.Errorf("plant already exists: %s", p.ID)
		}
	}
	return s.write(append(plants, p))
}

func (s *JSONStore) Update(_ context.Context, p model.Plant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plants, err := s.read()
	if err != nil {
		return err
	}
	for i := range plants {
		if plants[i].ID == p.ID {
			plants[i] = p
			return s.write(plants)
		}
	}
	return notFound(p.ID)
}

func (s *JSONStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	plants, err := s.read()
	if err != nil {
		return err
	}
	for i := range plants {
		if plants[i].ID == id {
			return s.write(append(plants[:i], plants[i+1:]...))
		}
	}
	return notFound(id)
}

func (s *JSONStore) Close() error { return nil }

// Watch reports writes to the document made by other processes (or editors). The directory is
// watched rather than the file because atomic renames replace the inode.
func (s *JSONStore) Watch(ctx context.Context, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != s.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				s.log.WithField("op", ev.Op.String()).Debug("json store changed on disk")
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			s.log.WithError(err).Warn("json store watch error")
		}
	}
}
