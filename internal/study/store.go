package study

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Store manages study IO rooted at the output directory. Metadata records
// live in a .metadata subdirectory; the directory scan is the index, there
// is no separate database.
type Store struct {
	outputDir   string
	metadataDir string
	now         func() time.Time
}

// StoreOption customizes a Store during construction.
type StoreOption func(*Store)

// WithClock overrides the clock used for slugs and timestamps.
func WithClock(clock func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = clock
	}
}

// NewStore builds a store over the output directory.
func NewStore(outputDir string, opts ...StoreOption) *Store {
	store := &Store{
		outputDir:   outputDir,
		metadataDir: filepath.Join(outputDir, ".metadata"),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// SaveRequest carries everything needed to persist one generated study.
type SaveRequest struct {
	Engine      string
	Reference   string
	Translation string
	Source      string
	Body        string
	WordCount   int
	Model       string
	LengthFlag  string
	Constraints Constraints
}

// Save persists the study body and its metadata record. The body goes to a
// temporary file first and is renamed into place only after the metadata
// record is written, so a crash leaves either both files or neither. Slug
// collisions on the same day get -2, -3 suffixes.
func (s *Store) Save(req SaveRequest) (Artifact, error) {
	if strings.TrimSpace(req.Engine) == "" || strings.TrimSpace(req.Reference) == "" {
		return Artifact{}, fmt.Errorf("study: engine and reference are required")
	}
	if err := os.MkdirAll(s.metadataDir, 0o755); err != nil {
		return Artifact{}, &PersistenceError{Op: "mkdir", Path: s.metadataDir, Err: err}
	}

	timestamp := s.now()
	slug := s.freeSlug(Slug(req.Engine, req.Reference, timestamp))
	finalPath := filepath.Join(s.outputDir, slug+".md")
	metaPath := filepath.Join(s.metadataDir, slug+".json")
	tempPath := filepath.Join(s.outputDir, "."+slug+".md.tmp")

	meta := Metadata{
		Slug:        slug,
		Engine:      req.Engine,
		Reference:   req.Reference,
		Translation: req.Translation,
		Source:      req.Source,
		Timestamp:   timestamp.UTC(),
		WordCount:   req.WordCount,
		Model:       req.Model,
		LengthFlag:  req.LengthFlag,
		Constraints: req.Constraints,
		Filepath:    finalPath,
	}
	document, err := WriteFrontMatter(FrontMatter{
		Engine:      req.Engine,
		Reference:   req.Reference,
		Date:        timestamp.Format(dateLayout),
		WordCount:   req.WordCount,
		Translation: req.Translation,
		Source:      req.Source,
		LengthFlag:  req.LengthFlag,
	}, []byte(req.Body))
	if err != nil {
		return Artifact{}, err
	}

	if err := os.WriteFile(tempPath, document, 0o644); err != nil {
		return Artifact{}, &PersistenceError{Op: "write", Path: tempPath, Err: err}
	}
	encoded, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		os.Remove(tempPath)
		return Artifact{}, fmt.Errorf("study: encode metadata: %w", err)
	}
	if err := os.WriteFile(metaPath, encoded, 0o644); err != nil {
		os.Remove(tempPath)
		return Artifact{}, &PersistenceError{Op: "write", Path: metaPath, Err: err}
	}
	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		os.Remove(metaPath)
		return Artifact{}, &PersistenceError{Op: "rename", Path: finalPath, Err: err}
	}

	return Artifact{Metadata: meta, Body: req.Body}, nil
}

// freeSlug returns base, or base-2, base-3 and so on until no study file or
// metadata record claims the name.
func (s *Store) freeSlug(base string) string {
	candidate := base
	for n := 2; s.slugTaken(candidate); n++ {
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	return candidate
}

func (s *Store) slugTaken(slug string) bool {
	if _, err := os.Stat(filepath.Join(s.outputDir, slug+".md")); err == nil {
		return true
	}
	if _, err := os.Stat(filepath.Join(s.metadataDir, slug+".json")); err == nil {
		return true
	}
	return false
}

// List scans the metadata directory and returns all records, newest first.
// A missing metadata directory means no studies. Unreadable records are
// skipped rather than failing the whole listing.
func (s *Store) List() ([]Metadata, error) {
	entries, err := os.ReadDir(s.metadataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, &PersistenceError{Op: "read", Path: s.metadataDir, Err: err}
	}
	var records []Metadata
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.metadataDir, entry.Name()))
		if err != nil {
			continue
		}
		var meta Metadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		if meta.Slug == "" {
			meta.Slug = strings.TrimSuffix(entry.Name(), ".json")
		}
		records = append(records, meta)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// Get loads one stored study by slug or by the path of its markdown file.
func (s *Store) Get(key string) (Artifact, error) {
	slug := strings.TrimSpace(key)
	if filepath.Ext(slug) == ".md" {
		slug = strings.TrimSuffix(filepath.Base(slug), ".md")
	}
	metaPath := filepath.Join(s.metadataDir, slug+".json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, fmt.Errorf("study: %q: %w", slug, ErrArtifactNotFound)
		}
		return Artifact{}, &PersistenceError{Op: "read", Path: metaPath, Err: err}
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Artifact{}, fmt.Errorf("study: decode metadata %s: %w", metaPath, err)
	}

	bodyPath := meta.Filepath
	if bodyPath == "" {
		bodyPath = filepath.Join(s.outputDir, slug+".md")
	}
	content, err := os.ReadFile(bodyPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Artifact{}, fmt.Errorf("study: %q body missing: %w", slug, ErrArtifactNotFound)
		}
		return Artifact{}, &PersistenceError{Op: "read", Path: bodyPath, Err: err}
	}
	_, body, err := ParseFrontMatter(content)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Metadata: meta, Body: string(body)}, nil
}
