package ingest

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"catalogcalc/internal/config"
	"catalogcalc/internal/store"
)

type mockStore struct {
	entities     []store.EntityInput
	removeCalls  [][]string
	ensureCalled bool
	failUpsert   string
	hashes       map[string]string
}

func (m *mockStore) EnsureSchema(ctx context.Context) error {
	m.ensureCalled = true
	return nil
}

func (m *mockStore) UpsertEntity(ctx context.Context, e store.EntityInput) error {
	if m.failUpsert != "" && e.Name == m.failUpsert {
		return errors.New("forced error")
	}
	m.entities = append(m.entities, e)
	return nil
}

func (m *mockStore) RemoveStaleEntities(ctx context.Context, currentSourceFiles []string) (int64, error) {
	m.removeCalls = append(m.removeCalls, currentSourceFiles)
	return 0, nil
}

func (m *mockStore) GetSourceHashes(ctx context.Context) (map[string]string, error) {
	if m.hashes == nil {
		return map[string]string{}, nil
	}
	return m.hashes, nil
}

func (m *mockStore) names() []string {
	names := make([]string, 0, len(m.entities))
	for _, e := range m.entities {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

func TestRun_BasicIngestion(t *testing.T) {
	db := &mockStore{}

	result, err := Run(context.Background(), testCatalogConfig(), db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if !db.ensureCalled {
		t.Fatalf("expected ensure schema")
	}
	if got := db.names(); !reflect.DeepEqual(got, []string{"Pikachu", "Tatooine"}) {
		t.Fatalf("unexpected entities: %v", got)
	}
	if result.EntitiesUpserted != 2 {
		t.Fatalf("expected 2 entities upserted, got %d", result.EntitiesUpserted)
	}
	if result.FilesSkipped != 1 {
		t.Fatalf("expected the empty file skipped, got %d", result.FilesSkipped)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error for the nameless record, got %v", result.Errors)
	}
}

func TestRun_CanonicalizesRecords(t *testing.T) {
	db := &mockStore{}

	if _, err := Run(context.Background(), testCatalogConfig(), db, Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, e := range db.entities {
		switch e.Name {
		case "Pikachu":
			if e.Universe != "creature" || e.EntityType != "creature" {
				t.Fatalf("unexpected pikachu record: %+v", e)
			}
		case "Tatooine":
			if e.Universe != "scifi" || e.EntityType != "planet" {
				t.Fatalf("unexpected tatooine record: %+v", e)
			}
		}
		if e.SourceHash == "" {
			t.Fatalf("expected source hash for %s", e.Name)
		}
	}
}

func TestRun_ExcludedDirectory(t *testing.T) {
	db := &mockStore{}
	cfg := testCatalogConfig()
	cfg.Exclude = nil

	if _, err := Run(context.Background(), cfg, db, Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := db.names(); !reflect.DeepEqual(got, []string{"Hoth", "Pikachu", "Tatooine"}) {
		t.Fatalf("expected drafts to be walked without exclude, got %v", got)
	}
}

func TestRun_ContinuesOnError(t *testing.T) {
	db := &mockStore{failUpsert: "Pikachu"}

	result, err := Run(context.Background(), testCatalogConfig(), db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %v", result.Errors)
	}
	if got := db.names(); !reflect.DeepEqual(got, []string{"Tatooine"}) {
		t.Fatalf("expected Tatooine still ingested, got %v", got)
	}
}

func TestRun_RemoveStaleEntities(t *testing.T) {
	db := &mockStore{}

	if _, err := Run(context.Background(), testCatalogConfig(), db, Options{}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(db.removeCalls) != 1 {
		t.Fatalf("expected one remove stale call, got %d", len(db.removeCalls))
	}
	for _, f := range db.removeCalls[0] {
		if filepath.Base(filepath.Dir(f)) == "drafts" {
			t.Fatalf("excluded file %s passed as current", f)
		}
	}
	if len(db.removeCalls[0]) != 4 {
		t.Fatalf("expected 4 current record files, got %v", db.removeCalls[0])
	}
}

func TestRun_IncrementalSkip(t *testing.T) {
	path := filepath.Join("testdata", "catalog", "pikachu.yaml")
	hash, err := computeHash(path)
	if err != nil {
		t.Fatalf("compute hash: %v", err)
	}
	db := &mockStore{hashes: map[string]string{path: hash}}

	result, err := Run(context.Background(), testCatalogConfig(), db, Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for _, e := range db.entities {
		if e.Name == "Pikachu" {
			t.Fatalf("expected Pikachu to be skipped")
		}
	}
	if result.FilesSkipped != 2 {
		t.Fatalf("expected 2 skipped files, got %d", result.FilesSkipped)
	}
}

func TestRun_FullIngestionOverridesHashes(t *testing.T) {
	path := filepath.Join("testdata", "catalog", "pikachu.yaml")
	hash, err := computeHash(path)
	if err != nil {
		t.Fatalf("compute hash: %v", err)
	}
	db := &mockStore{hashes: map[string]string{path: hash}}

	if _, err := Run(context.Background(), testCatalogConfig(), db, Options{Full: true}); err != nil {
		t.Fatalf("run: %v", err)
	}
	found := false
	for _, e := range db.entities {
		if e.Name == "Pikachu" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Pikachu to be ingested in full mode")
	}
}

func TestRun_NoPaths(t *testing.T) {
	if _, err := Run(context.Background(), config.CatalogConfig{}, &mockStore{}, Options{}); err == nil {
		t.Fatalf("expected error without paths")
	}
}

func TestIsRecordFile(t *testing.T) {
	cases := map[string]bool{
		"a.yaml":    true,
		"a.YML":     true,
		"a.json":    true,
		"README.md": false,
		"notes.txt": false,
		"yaml":      false,
	}
	for name, want := range cases {
		if got := isRecordFile(name); got != want {
			t.Fatalf("isRecordFile(%q) = %v, want %v", name, got, want)
		}
	}
}

func testCatalogConfig() config.CatalogConfig {
	root := filepath.Join("testdata", "catalog")
	return config.CatalogConfig{
		Paths:   []string{root},
		Exclude: []string{filepath.Join(root, "drafts")},
	}
}
