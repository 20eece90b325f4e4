package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"catalogcalc/internal/calc"
	"catalogcalc/internal/config"
	"catalogcalc/internal/parser"
	"catalogcalc/internal/store"
)

// Store is the part of the catalog mirror ingest writes to.
type Store interface {
	EnsureSchema(ctx context.Context) error
	UpsertEntity(ctx context.Context, e store.EntityInput) error
	RemoveStaleEntities(ctx context.Context, currentSourceFiles []string) (int64, error)
	GetSourceHashes(ctx context.Context) (map[string]string, error)
}

type Result struct {
	EntitiesUpserted int
	EntitiesRemoved  int
	FilesSkipped     int
	Errors           []error
}

type Options struct {
	Full bool
}

var recordExtensions = []string{".yaml", ".yml", ".json"}

// Run mirrors the record files under cfg.Paths into db. Unchanged files are
// skipped unless options.Full is set; per-file failures are collected in
// the result and do not stop the run.
func Run(ctx context.Context, cfg config.CatalogConfig, db Store, options Options) (*Result, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("no catalog paths configured")
	}
	if err := db.EnsureSchema(ctx); err != nil {
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	var existingHashes map[string]string
	if !options.Full {
		var err error
		existingHashes, err = db.GetSourceHashes(ctx)
		if err != nil {
			return nil, fmt.Errorf("get source hashes: %w", err)
		}
	}

	files, err := walkRecordFiles(cfg.Paths, cfg.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walking catalog files: %w", err)
	}

	result := &Result{}
	seen := make(map[string]string)
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		hash, err := computeHash(path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("hashing %s: %w", path, err))
			continue
		}
		if !options.Full {
			if existing, ok := existingHashes[path]; ok && existing == hash {
				result.FilesSkipped++
				continue
			}
		}

		rec, err := parser.ParseFile(path)
		if err != nil {
			if errors.Is(err, parser.ErrEmptyDocument) {
				result.FilesSkipped++
				continue
			}
			result.Errors = append(result.Errors, fmt.Errorf("parsing %s: %w", path, err))
			continue
		}

		key := rec.Universe + "/" + rec.EntityType + "/" + calc.NormalizeName(rec.Name)
		if first, dup := seen[key]; dup {
			result.Errors = append(result.Errors, fmt.Errorf("%s: %s already defined in %s", path, rec.Name, first))
			continue
		}
		seen[key] = path

		input := store.EntityInput{
			Name:       rec.Name,
			Universe:   rec.Universe,
			EntityType: rec.EntityType,
			SourceFile: path,
			SourceHash: hash,
			Attributes: rec.Attributes,
		}
		if err := db.UpsertEntity(ctx, input); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("upserting %s: %w", path, err))
			continue
		}
		result.EntitiesUpserted++
	}

	removed, err := db.RemoveStaleEntities(ctx, files)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("removing stale entities: %w", err))
	} else {
		result.EntitiesRemoved = int(removed)
	}

	return result, nil
}

func walkRecordFiles(roots []string, excludes []string) ([]string, error) {
	excluded := make([]string, 0, len(excludes))
	for _, path := range excludes {
		if path == "" {
			continue
		}
		excluded = append(excluded, filepath.Clean(path))
	}

	var files []string
	for _, root := range roots {
		if root == "" {
			continue
		}
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if isExcluded(path, excluded) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !isRecordFile(d.Name()) {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return files, nil
}

func isRecordFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range recordExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func isExcluded(path string, excludes []string) bool {
	clean := filepath.Clean(path)
	for _, exclude := range excludes {
		if exclude == clean || strings.HasPrefix(clean, exclude+string(os.PathSeparator)) {
			return true
		}
	}
	return false
}

func computeHash(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
