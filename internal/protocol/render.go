package protocol

import (
	"fmt"
	"strings"

	"lectio/internal/reference"
)

// Prompt is a fully assembled model request: system and user messages plus
// the sampling budget. Rendering is pure; the same inputs always produce the
// same prompt.
type Prompt struct {
	System    string
	User      string
	MaxTokens int
	Words     WordRange
}

// RenderOptions carry the per-run customization for a render.
type RenderOptions struct {
	// Preferences customize expression without changing methodology.
	// Nil renders the protocol unmodified.
	Preferences *Preferences
	// Vectors are required for protocols with RequiresVectors set and
	// ignored otherwise.
	Vectors *VectorSet
}

// Render assembles the prompt for a protocol over the resolved scripture.
func Render(proto Protocol, refs []reference.ScriptureReference, opts RenderOptions) (Prompt, error) {
	if err := proto.Validate(); err != nil {
		return Prompt{}, fmt.Errorf("%w: %v", ErrTemplate, err)
	}
	if len(refs) == 0 {
		return Prompt{}, fmt.Errorf("%w: no scripture references", ErrTemplate)
	}
	for _, ref := range refs {
		if strings.TrimSpace(ref.Text) == "" {
			return Prompt{}, fmt.Errorf("%w: reference %q has no text", ErrTemplate, ref.Citation)
		}
	}
	if proto.RequiresVectors && opts.Vectors == nil {
		return Prompt{}, fmt.Errorf("%w: %s requires collision vectors", ErrTemplate, proto.ID)
	}

	system := proto.SystemPrompt
	if opts.Preferences != nil {
		prefs := *opts.Preferences
		if err := prefs.Validate(); err != nil {
			return Prompt{}, fmt.Errorf("%w: %v", ErrTemplate, err)
		}
		proto = prefs.Apply(proto)
		system = injectCustomization(proto.SystemPrompt, prefs.injection())
	}

	return Prompt{
		System:    system,
		User:      userPrompt(proto, refs, opts.Vectors),
		MaxTokens: proto.MaxTokens,
		Words:     proto.Words,
	}, nil
}

// injectCustomization inserts the customization block after the prompt's
// opening description, before the first second-level heading.
func injectCustomization(prompt, injection string) string {
	if marker := strings.Index(prompt, "##"); marker != -1 {
		return prompt[:marker] + injection + prompt[marker:]
	}
	return injection + prompt
}

func userPrompt(proto Protocol, refs []reference.ScriptureReference, vectors *VectorSet) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Biblical Reference: %s\n\n", reference.CombinedCitation(refs))
	sb.WriteString("Text:\n")
	for i, ref := range refs {
		if i > 0 {
			sb.WriteString("\n")
		}
		if len(refs) > 1 {
			heading := ref.Citation
			if ref.Label != "" {
				heading = fmt.Sprintf("%s (%s)", ref.Label, ref.Citation)
			}
			fmt.Fprintf(&sb, "%s:\n", heading)
		}
		sb.WriteString(strings.TrimSpace(ref.Text))
		sb.WriteString("\n")
	}
	if proto.RequiresVectors && vectors != nil {
		fmt.Fprintf(&sb, `
Collision Vectors:
- Scientific: %s
- Cultural: %s
- Philosophical: %s
- Technological: %s
- Personal: %s
`, vectors.Scientific, vectors.Cultural, vectors.Philosophical, vectors.Technological, vectors.Personal)
	}
	fmt.Fprintf(&sb, "\nGenerate a complete %s Engine study following the protocol above.\n", proto.Title)
	return sb.String()
}
