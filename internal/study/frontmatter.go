package study

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var (
	// ErrMissingFrontMatter indicates the document did not start with a YAML fence.
	ErrMissingFrontMatter = errors.New("study: missing frontmatter")
	// ErrMalformedFrontMatter indicates the YAML block could not be parsed.
	ErrMalformedFrontMatter = errors.New("study: malformed frontmatter")
)

const dateLayout = "2006-01-02"

// FrontMatter is the flat YAML header on every saved study.
type FrontMatter struct {
	Engine      string `yaml:"engine"`
	Reference   string `yaml:"reference"`
	Date        string `yaml:"date"`
	WordCount   int    `yaml:"word_count"`
	Translation string `yaml:"translation,omitempty"`
	Source      string `yaml:"source,omitempty"`
	LengthFlag  string `yaml:"length_flag,omitempty"`
}

// WriteFrontMatter renders the header and body with YAML fences.
func WriteFrontMatter(fm FrontMatter, body []byte) ([]byte, error) {
	if fm.Engine == "" || fm.Reference == "" {
		return nil, fmt.Errorf("study: frontmatter missing engine or reference")
	}
	data, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("study: encode frontmatter: %w", err)
	}
	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(bytes.TrimRight(data, "\n"))
	buf.WriteString("\n---\n\n")
	buf.Write(body)
	return buf.Bytes(), nil
}

// ParseFrontMatter extracts the header and body from a document that starts
// with `---` YAML fences.
func ParseFrontMatter(content []byte) (FrontMatter, []byte, error) {
	if len(content) == 0 {
		return FrontMatter{}, nil, ErrMissingFrontMatter
	}
	normalized := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(normalized, []byte("---\n")) {
		return FrontMatter{}, nil, ErrMissingFrontMatter
	}
	rest := normalized[4:]
	parts := bytes.SplitN(rest, []byte("\n---\n"), 2)
	if len(parts) < 2 {
		return FrontMatter{}, nil, ErrMalformedFrontMatter
	}
	var fm FrontMatter
	if err := yaml.Unmarshal(parts[0], &fm); err != nil {
		return FrontMatter{}, nil, fmt.Errorf("study: parse frontmatter: %w", err)
	}
	if fm.Engine == "" || fm.Reference == "" {
		return FrontMatter{}, nil, ErrMalformedFrontMatter
	}
	body := bytes.TrimPrefix(parts[1], []byte("\n"))
	return fm, body, nil
}

// ParseDate reads the frontmatter date field.
func (fm FrontMatter) ParseDate() (time.Time, error) {
	value := strings.TrimSpace(fm.Date)
	if value == "" {
		return time.Time{}, fmt.Errorf("study: empty date")
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("study: parse date: %w", err)
	}
	return t, nil
}
