// Package protocol defines the study protocols: the system prompts,
// section structure, and word budgets that shape a generated study,
// plus the registry and renderer that turn a protocol and resolved
// scripture into a model prompt.
package protocol

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownProtocol is returned when a protocol id is not registered.
var ErrUnknownProtocol = errors.New("unknown protocol")

// ErrTemplate is returned when a protocol cannot be rendered into a prompt.
var ErrTemplate = errors.New("prompt assembly failed")

// WordRange is the inclusive word budget a study should land in.
type WordRange struct {
	Min int `yaml:"min_words"`
	Max int `yaml:"max_words"`
}

// Protocol is one interpretation methodology. The system prompt carries the
// methodology itself; Sections lists the markdown headings the output must
// contain, in order.
type Protocol struct {
	ID           string    `yaml:"id"`
	Title        string    `yaml:"title"`
	Tone         string    `yaml:"tone"`
	Words        WordRange `yaml:"words"`
	MaxTokens    int       `yaml:"max_tokens"`
	Sections     []string  `yaml:"sections"`
	SystemPrompt string    `yaml:"system_prompt"`

	// RequiresVectors marks protocols that need collision vectors injected
	// into the user prompt.
	RequiresVectors bool `yaml:"requires_vectors"`
}

// Validate checks the definition holds together.
func (p Protocol) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return fmt.Errorf("protocol: id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("protocol: %s: title is required", p.ID)
	}
	if strings.TrimSpace(p.SystemPrompt) == "" {
		return fmt.Errorf("protocol: %s: system prompt is required", p.ID)
	}
	if len(p.Sections) == 0 {
		return fmt.Errorf("protocol: %s: at least one section is required", p.ID)
	}
	for i, section := range p.Sections {
		if strings.TrimSpace(section) == "" {
			return fmt.Errorf("protocol: %s: section %d is empty", p.ID, i+1)
		}
	}
	if p.Words.Min <= 0 || p.Words.Max <= p.Words.Min {
		return fmt.Errorf("protocol: %s: word range %d-%d is invalid", p.ID, p.Words.Min, p.Words.Max)
	}
	if p.MaxTokens <= 0 {
		return fmt.Errorf("protocol: %s: max tokens is required", p.ID)
	}
	return nil
}

// Normalized lowercases the id and trims string fields.
func (p Protocol) Normalized() Protocol {
	p.ID = strings.ToLower(strings.TrimSpace(p.ID))
	p.Title = strings.TrimSpace(p.Title)
	p.Tone = strings.TrimSpace(p.Tone)
	sections := make([]string, len(p.Sections))
	for i, section := range p.Sections {
		sections[i] = strings.TrimSpace(section)
	}
	p.Sections = sections
	return p
}
