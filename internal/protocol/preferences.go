package protocol

import (
	"fmt"
	"strings"
)

// Study length names.
const (
	LengthShort  = "short"
	LengthMedium = "medium"
	LengthLong   = "long"
)

// Language complexity names.
const (
	ComplexityAccessible = "accessible"
	ComplexityStandard   = "standard"
	ComplexityAdvanced   = "advanced"
)

// Preferences shape how a protocol expresses its insights without changing
// the methodology. Zero value means "no customization".
type Preferences struct {
	Length     string // short, medium, long; empty keeps the protocol default
	ToneLevel  int    // 0 (academic) through 8 (devotional)
	Complexity string // accessible, standard, advanced
	FocusAreas string // free-form themes the reader cares about
}

type lengthProfile struct {
	words     WordRange
	maxTokens int
	guidance  string
}

// Token limits run roughly 2x the word budget to cover markdown overhead
// and prevent mid-sentence cutoffs.
var lengthProfiles = map[string]lengthProfile{
	LengthShort: {
		words:     WordRange{Min: 1000, Max: 1500},
		maxTokens: 4000,
		guidance:  "Be concise and focus on core insights. Omit extended examples. Get to the heart of the matter quickly.",
	},
	LengthMedium: {
		words:     WordRange{Min: 2500, Max: 3500},
		maxTokens: 8000,
		guidance:  "Balanced depth with moderate examples and exploration. Develop insights thoroughly without excessive detail.",
	},
	LengthLong: {
		words:     WordRange{Min: 5000, Max: 7000},
		maxTokens: 16000,
		guidance:  "Maximum depth. Include extensive examples, multiple perspectives, deep exploration. Leave no stone unturned.",
	},
}

var complexityGuidance = map[string]string{
	ComplexityAccessible: "Use clear, simple language suitable for high school level readers. Define all technical or theological terms. Make complex ideas accessible without dumbing them down.",
	ComplexityStandard:   "Use moderate vocabulary and concepts suitable for college level readers. Provide brief definitions for specialized terms where helpful. Balance accessibility with intellectual rigor.",
	ComplexityAdvanced:   "Use technical terminology freely. Assume graduate-level theological and biblical studies knowledge. Engage with scholarly debates and complex hermeneutical questions without extended explanations.",
}

var toneGuidance = map[string]string{
	"academic":   "Use scholarly tone with objective analysis. Employ technical terminology where appropriate. Maintain analytical distance while remaining engaging.",
	"balanced":   "Mix scholarly insight with personal application. Balance objective analysis with reflective engagement. Use moderate theological vocabulary with brief explanations.",
	"devotional": "Use warm, personal tone that invites spiritual formation. Make it intimate and inviting. Speak to the heart while honoring the mind.",
}

// Validate rejects out-of-range preference values.
func (p Preferences) Validate() error {
	if p.Length != "" {
		if _, ok := lengthProfiles[p.Length]; !ok {
			return fmt.Errorf("protocol: unknown study length %q", p.Length)
		}
	}
	if p.ToneLevel < 0 || p.ToneLevel > 8 {
		return fmt.Errorf("protocol: tone level %d out of range 0-8", p.ToneLevel)
	}
	if p.Complexity != "" {
		if _, ok := complexityGuidance[p.Complexity]; !ok {
			return fmt.Errorf("protocol: unknown language complexity %q", p.Complexity)
		}
	}
	return nil
}

// ToneCategory buckets the 0-8 tone level into academic, balanced, or
// devotional.
func (p Preferences) ToneCategory() string {
	switch {
	case p.ToneLevel <= 2:
		return "academic"
	case p.ToneLevel <= 5:
		return "balanced"
	default:
		return "devotional"
	}
}

// Apply adjusts the protocol's word budget and token limit for the chosen
// study length. Protocols keep their own budgets when no length is set.
func (p Preferences) Apply(proto Protocol) Protocol {
	if p.Length == "" {
		return proto
	}
	profile := lengthProfiles[p.Length]
	proto.Words = profile.words
	proto.MaxTokens = profile.maxTokens
	return proto
}

// injection builds the customization block inserted into a system prompt.
// The tone directive is always stated, even at the default level; the
// length, language, and focus parts appear only when set.
func (p Preferences) injection() string {
	var parts []string
	if p.Length != "" {
		profile := lengthProfiles[p.Length]
		parts = append(parts, fmt.Sprintf("**LENGTH**: Target %d-%d words\n%s",
			profile.words.Min, profile.words.Max, profile.guidance))
	}
	parts = append(parts, fmt.Sprintf("**TONE**: %s (level %d/8)\n%s",
		titleCase(p.ToneCategory()), p.ToneLevel, toneGuidance[p.ToneCategory()]))
	if p.Complexity != "" {
		parts = append(parts, fmt.Sprintf("**LANGUAGE**: %s\n%s",
			titleCase(p.Complexity), complexityGuidance[p.Complexity]))
	}
	if strings.TrimSpace(p.FocusAreas) != "" {
		parts = append(parts, fmt.Sprintf("**FOCUS AREAS**: The reader is particularly interested in themes related to: %q\n\nPay special attention to how this text speaks to these interests. Look for connections even when not immediately obvious.",
			strings.TrimSpace(p.FocusAreas)))
	}
	return fmt.Sprintf(`
## READER CUSTOMIZATION

The reader has requested the following customizations for this study:

%s

**CRITICAL**: Honor these preferences while maintaining the core methodology of this engine. The structural approach remains unchanged; these preferences shape how you express the insights.

---
`, strings.Join(parts, "\n\n"))
}

func titleCase(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
