package study

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"lectio/internal/protocol"
)

// ErrMissingSection indicates a required section heading is absent or out
// of order. This is a hard failure; the study must not be persisted.
var ErrMissingSection = errors.New("required section missing or out of order")

// LengthTolerance is the slack applied to the protocol word budget before a
// study is flagged. Being outside the tolerated range is soft: the study
// still persists, flagged in its metadata.
const LengthTolerance = 0.10

// Length flags recorded in metadata.
const (
	LengthFlagShort = "short"
	LengthFlagLong  = "long"
)

// Report is the outcome of validating a study body. Validation is
// idempotent; the same body and protocol always produce the same report.
type Report struct {
	WordCount  int
	LengthFlag string // empty when within tolerance
	Sections   []string
}

// LengthOutOfRange reports whether the word count fell outside the
// tolerated budget.
func (r Report) LengthOutOfRange() bool {
	return r.LengthFlag != ""
}

// Validate checks a study body against its protocol: every required
// section heading must appear, in order, and the word count should land
// within the budget plus tolerance.
func Validate(body string, proto protocol.Protocol) (Report, error) {
	report := Report{
		WordCount: len(strings.Fields(body)),
		Sections:  headings(body),
	}

	if err := checkSections(report.Sections, proto.Sections); err != nil {
		return report, err
	}

	minWords := int(float64(proto.Words.Min) * (1 - LengthTolerance))
	maxWords := int(float64(proto.Words.Max) * (1 + LengthTolerance))
	switch {
	case report.WordCount < minWords:
		report.LengthFlag = LengthFlagShort
	case report.WordCount > maxWords:
		report.LengthFlag = LengthFlagLong
	}
	return report, nil
}

// checkSections verifies every required heading appears in sequence.
// Headings match when they contain the required label, so decoration around
// the label does not break validation.
func checkSections(found, required []string) error {
	next := 0
	for _, heading := range found {
		if next >= len(required) {
			break
		}
		if strings.Contains(normalizeHeading(heading), normalizeHeading(required[next])) {
			next++
		}
	}
	if next < len(required) {
		return fmt.Errorf("study: %w: %q", ErrMissingSection, required[next])
	}
	return nil
}

// headings extracts the document's heading texts in order via the markdown
// AST, so markers inside code fences or blockquotes do not count.
func headings(body string) []string {
	source := []byte(body)
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))

	var found []string
	ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		var sb strings.Builder
		for child := heading.FirstChild(); child != nil; child = child.NextSibling() {
			collectText(child, source, &sb)
		}
		found = append(found, sb.String())
		return ast.WalkSkipChildren, nil
	})
	return found
}

func collectText(n ast.Node, source []byte, sb *strings.Builder) {
	if textNode, ok := n.(*ast.Text); ok {
		sb.Write(textNode.Segment.Value(source))
	}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		collectText(child, source, sb)
	}
}

func normalizeHeading(heading string) string {
	return strings.ToLower(strings.Join(strings.Fields(heading), " "))
}
