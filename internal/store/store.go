package store

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ticklist/internal/model"
)

const (
	legacyFileName = "checklists.json"
	sqliteFileName = "data.sqlite"
)

// DB is the local checklist document. Theme preference lives in the global
// config, keyed separately from checklist data.
type DB struct {
	Version    int               `json:"version"`
	Checklists []model.Checklist `json:"checklists"`
}

type Store struct {
	Dir string
}

// Adapter is the persistence contract shared by the local store and the
// remote client: same shape, different transport.
type Adapter interface {
	LoadChecklists() ([]model.Checklist, error)
	SaveChecklists([]model.Checklist) error
}

// DefaultDir resolves the data directory: TICKLIST_DIR wins (fixtures/tests),
// otherwise ~/.ticklist.
func DefaultDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv("TICKLIST_DIR")); v != "" {
		return v, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ticklist"), nil
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) legacyPath() string {
	return filepath.Join(s.Dir, legacyFileName)
}

// Load reads the document from SQLite. If the SQLite state is empty but a
// legacy checklists.json exists, it is imported once and SQLite becomes the
// source of truth. Loaded data is always normalized.
func (s Store) Load() (*DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	return s.LoadSQLite(context.Background())
}

func (s Store) Save(db *DB) error {
	if err := s.Ensure(); err != nil {
		return err
	}
	return s.SaveSQLite(context.Background(), db)
}

// LoadChecklists and SaveChecklists make Store satisfy Adapter.
func (s Store) LoadChecklists() ([]model.Checklist, error) {
	db, err := s.Load()
	if err != nil {
		return nil, err
	}
	return db.Checklists, nil
}

func (s Store) SaveChecklists(lists []model.Checklist) error {
	return s.Save(&DB{Version: 1, Checklists: model.NormalizeChecklists(lists)})
}

func (db *DB) FindChecklist(id string) (*model.Checklist, bool) {
	id = strings.TrimSpace(id)
	for i := range db.Checklists {
		if db.Checklists[i].ID == id {
			return &db.Checklists[i], true
		}
	}
	return nil, false
}

// Visible returns the active (non-archived) lists, pinned first, otherwise in
// stored order. Archived returns the archived partition.
func (db *DB) Visible() []model.Checklist {
	out := make([]model.Checklist, 0, len(db.Checklists))
	for _, c := range db.Checklists {
		if !c.Archived {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Pinned && !out[j].Pinned
	})
	return out
}

func (db *DB) Archived() []model.Checklist {
	out := make([]model.Checklist, 0)
	for _, c := range db.Checklists {
		if c.Archived {
			out = append(out, c)
		}
	}
	return out
}

func (db *DB) normalize() {
	if db.Version == 0 {
		db.Version = 1
	}
	db.Checklists = model.NormalizeChecklists(db.Checklists)
}
