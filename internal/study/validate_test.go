package study

import (
	"errors"
	"strings"
	"testing"

	"lectio/internal/protocol"
)

func thresholdProto(t *testing.T) protocol.Protocol {
	t.Helper()
	proto, err := protocol.NewRegistry().Get(protocol.Threshold)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	return proto
}

// studyBody builds a markdown body with the given headings, padded so the
// total whitespace-separated word count lands exactly on words.
func studyBody(headings []string, words int) string {
	var sb strings.Builder
	sb.WriteString("# Threshold Study: John 3:16\n\n")
	for _, heading := range headings {
		sb.WriteString("## " + heading + "\n\nbody text here\n\n")
	}
	scaffold := sb.String()
	filler := words - len(strings.Fields(scaffold))
	if filler > 0 {
		sb.WriteString(strings.Repeat("word ", filler))
	}
	return sb.String()
}

func TestValidateWellFormedStudy(t *testing.T) {
	proto := thresholdProto(t)
	body := studyBody(proto.Sections, 3000)

	report, err := Validate(body, proto)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.LengthOutOfRange() {
		t.Errorf("expected length within range, got flag %q (%d words)", report.LengthFlag, report.WordCount)
	}
}

func TestValidateLengthBoundaries(t *testing.T) {
	proto := thresholdProto(t) // 2500-3500 word budget

	// Right at the ceiling passes.
	report, err := Validate(studyBody(proto.Sections, 3500), proto)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.LengthOutOfRange() {
		t.Errorf("3500 words must be within range, got flag %q", report.LengthFlag)
	}

	// Just inside the 10% tolerance still passes.
	report, err = Validate(studyBody(proto.Sections, 3840), proto)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.LengthOutOfRange() {
		t.Errorf("3840 words is inside tolerance, got flag %q", report.LengthFlag)
	}

	// Past the tolerance is flagged long but not an error.
	report, err = Validate(studyBody(proto.Sections, 3900), proto)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.LengthFlag != LengthFlagLong {
		t.Errorf("expected long flag, got %q", report.LengthFlag)
	}

	// Far below the floor is flagged short.
	report, err = Validate(studyBody(proto.Sections, 1200), proto)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if report.LengthFlag != LengthFlagShort {
		t.Errorf("expected short flag, got %q", report.LengthFlag)
	}
}

func TestValidateMissingSectionIsHard(t *testing.T) {
	proto := thresholdProto(t)
	truncated := proto.Sections[:len(proto.Sections)-1]

	_, err := Validate(studyBody(truncated, 3000), proto)
	if !errors.Is(err, ErrMissingSection) {
		t.Errorf("expected ErrMissingSection, got %v", err)
	}
}

func TestValidateOutOfOrderSectionsIsHard(t *testing.T) {
	proto := thresholdProto(t)
	shuffled := append([]string{}, proto.Sections...)
	shuffled[0], shuffled[1] = shuffled[1], shuffled[0]

	_, err := Validate(studyBody(shuffled, 3000), proto)
	if !errors.Is(err, ErrMissingSection) {
		t.Errorf("expected ErrMissingSection for out-of-order headings, got %v", err)
	}
}

func TestValidateIgnoresHeadingsInCodeFences(t *testing.T) {
	proto := thresholdProto(t)
	var sb strings.Builder
	sb.WriteString("# Threshold Study: John 3:16\n\n")
	sb.WriteString("```\n## " + proto.Sections[0] + "\n```\n\n")
	for _, heading := range proto.Sections[1:] {
		sb.WriteString("## " + heading + "\n\nbody text here\n\n")
	}

	_, err := Validate(sb.String(), proto)
	if !errors.Is(err, ErrMissingSection) {
		t.Errorf("fenced heading must not satisfy the section check, got %v", err)
	}
}

func TestValidateIsIdempotent(t *testing.T) {
	proto := thresholdProto(t)
	body := studyBody(proto.Sections, 3000)

	first, err := Validate(body, proto)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	second, err := Validate(body, proto)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if first.WordCount != second.WordCount || first.LengthFlag != second.LengthFlag {
		t.Error("repeated validation must produce the same report")
	}
}
