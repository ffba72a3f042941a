package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gardenmap/internal/model"

	"github.com/sirupsen/logrus"
)

// PlantStore is the durable CRUD contract every backend implements.
//
// Update and Delete return model.NotFoundError when the id is absent. Any other error is an I/O
// failure; callers wrap it into model.StoreError.
type PlantStore interface {
	GetAll(ctx context.Context) ([]model.Plant, error)
	Insert(ctx context.Context, p model.Plant) error
	Update(ctx context.Context, p model.Plant) error
	Delete(ctx context.Context, id string) error
	Close() error
}

// Watcher is implemented by backends that can notice changes made by another process.
// Watch blocks until ctx is done, calling onChange after each external modification.
type Watcher interface {
	Watch(ctx context.Context, onChange func()) error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendGorm   = "gorm"
	BackendRemote = "remote"
	BackendMemory = "memory"
)

func Backends() []string {
	return []string{BackendSQLite, BackendJSON, BackendGorm, BackendRemote, BackendMemory}
}

type Options struct {
	Backend string
	// Path is the database/document file for json, sqlite and gorm.
	Path string
	// URL is the base URL of another gardenmap server for the remote backend.
	URL    string
	Logger logrus.FieldLogger
}

// Open builds the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (PlantStore, error) {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	backend := strings.ToLower(strings.TrimSpace(opts.Backend))
	if backend == "" {
		backend = BackendSQLite
	}
	path := strings.TrimSpace(opts.Path)
	if path == "" && backend != BackendRemote && backend != BackendMemory {
		p, err := DefaultPath(backend)
		if err != nil {
			return nil, err
		}
		path = p
	}
	log = log.WithField("backend", backend)

	switch backend {
	case BackendJSON:
		return OpenJSON(path, log)
	case BackendSQLite:
		return OpenSQLite(ctx, path)
	case BackendGorm:
		return OpenGorm(path)
	case BackendRemote:
		return NewRemote(opts.URL, nil)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (want one of %s)", backend, strings.Join(Backends(), ", "))
	}
}

// DataDir is where file-backed stores live by default.
func DataDir() (string, error) {
	// Test/advanced override (keeps unit tests from touching ~/.gardenmap).
	if v := strings.TrimSpace(os.Getenv("GARDENMAP_DATA_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gardenmap"), nil
}

func DefaultPath(backend string) (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	switch backend {
	case BackendJSON:
		return filepath.Join(dir, "garden.json"), nil
	case BackendSQLite:
		return filepath.Join(dir, "garden.sqlite"), nil
	case BackendGorm:
		return filepath.Join(dir, "garden-gorm.sqlite"), nil
	default:
		return "", errors.New("backend has no default path: " + backend)
	}
}

func notFound(id string) error {
	return model.NotFoundError{Kind: "plant", ID: id}
}
