// Package study persists generated studies as markdown with YAML
// frontmatter plus a parallel JSON metadata record, and validates study
// bodies against their protocol's structure.
package study

import (
	"errors"
	"fmt"
	"time"
)

// ErrArtifactNotFound indicates no stored study matches the slug.
var ErrArtifactNotFound = errors.New("study not found")

// Constraints records the word budget the study was generated under.
type Constraints struct {
	MinWords  int `json:"min_words"`
	MaxWords  int `json:"max_words"`
	MaxTokens int `json:"max_tokens,omitempty"`
}

// Metadata mirrors the JSON record stored alongside each study.
type Metadata struct {
	Slug        string      `json:"slug"`
	Engine      string      `json:"engine"`
	Reference   string      `json:"reference"`
	Translation string      `json:"translation,omitempty"`
	Source      string      `json:"source,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	WordCount   int         `json:"word_count"`
	Model       string      `json:"model,omitempty"`
	LengthFlag  string      `json:"length_flag,omitempty"`
	Constraints Constraints `json:"constraints"`
	Filepath    string      `json:"filepath"`
}

// Artifact is a stored study: its metadata record plus the markdown body.
type Artifact struct {
	Metadata Metadata
	Body     string
}

// PersistenceError wraps filesystem failures during save or load.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("study: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
