package reference

import (
	"context"
	"fmt"
	"strings"
)

// QueryKind selects how a request should be resolved.
type QueryKind string

const (
	// QueryPassage resolves an explicit citation via the text source.
	QueryPassage QueryKind = "passage"
	// QueryPaste wraps user-provided text without any fetching.
	QueryPaste QueryKind = "paste"
	// QueryMoravian resolves today's Moravian Daily Text readings.
	QueryMoravian QueryKind = "moravian"
	// QueryRCL resolves today's Revised Common Lectionary reading.
	QueryRCL QueryKind = "rcl"
)

// Query describes one resolution request.
type Query struct {
	Kind        QueryKind
	Citation    string // passage, paste
	Text        string // paste only
	Translation string // overrides the resolver default
	RCLReading  string // rcl only; defaults to gospel
}

// Resolver turns queries into ScriptureReference values. It performs no
// caching; every call re-resolves against the source.
type Resolver struct {
	source             TextSource
	defaultTranslation string
}

// NewResolver builds a resolver over the given text source.
func NewResolver(source TextSource, defaultTranslation string) (*Resolver, error) {
	if source == nil {
		return nil, fmt.Errorf("reference: text source is required")
	}
	if strings.TrimSpace(defaultTranslation) == "" {
		defaultTranslation = "NRSVue"
	}
	if _, err := TranslationCode(defaultTranslation); err != nil {
		return nil, fmt.Errorf("reference: default translation %q: %w", defaultTranslation, err)
	}
	return &Resolver{source: source, defaultTranslation: defaultTranslation}, nil
}

// Resolve produces one or more references for the query. Calendar queries
// delegate date resolution entirely to the source.
func (r *Resolver) Resolve(ctx context.Context, q Query) ([]ScriptureReference, error) {
	translation := strings.TrimSpace(q.Translation)
	if translation == "" {
		translation = r.defaultTranslation
	}
	if _, err := TranslationCode(translation); err != nil {
		return nil, fmt.Errorf("reference: translation %q: %w", translation, err)
	}

	switch q.Kind {
	case QueryPassage:
		return r.resolvePassage(ctx, q.Citation, translation)
	case QueryPaste:
		return r.resolvePaste(q.Citation, q.Text)
	case QueryMoravian:
		return r.resolveMoravian(ctx, translation)
	case QueryRCL:
		return r.resolveRCL(ctx, q.RCLReading, translation)
	default:
		return nil, fmt.Errorf("reference: unknown query kind %q", q.Kind)
	}
}

func (r *Resolver) resolvePassage(ctx context.Context, citation, translation string) ([]ScriptureReference, error) {
	citation = strings.TrimSpace(citation)
	if citation == "" {
		return nil, fmt.Errorf("reference: citation is required: %w", ErrReferenceNotFound)
	}
	text, err := r.source.FetchPassage(ctx, citation, translation)
	if err != nil {
		return nil, fmt.Errorf("reference: fetch %q: %w", citation, err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("reference: %q returned no text: %w", citation, ErrReferenceNotFound)
	}
	return []ScriptureReference{{
		Citation:    citation,
		Text:        strings.TrimSpace(text),
		Translation: translation,
		Source:      "gateway",
	}}, nil
}

func (r *Resolver) resolvePaste(citation, text string) ([]ScriptureReference, error) {
	citation = strings.TrimSpace(citation)
	text = strings.TrimSpace(text)
	if citation == "" {
		return nil, fmt.Errorf("reference: citation is required for pasted text: %w", ErrReferenceNotFound)
	}
	if text == "" {
		return nil, fmt.Errorf("reference: no text provided for %q: %w", citation, ErrReferenceNotFound)
	}
	return []ScriptureReference{{
		Citation: citation,
		Text:     text,
		Source:   "paste",
	}}, nil
}

func (r *Resolver) resolveMoravian(ctx context.Context, translation string) ([]ScriptureReference, error) {
	readings, err := r.source.FetchMoravian(ctx)
	if err != nil {
		return nil, fmt.Errorf("reference: moravian: %w", err)
	}
	if len(readings) == 0 {
		return nil, fmt.Errorf("reference: moravian returned no readings: %w", ErrSourceUnavailable)
	}
	refs := make([]ScriptureReference, 0, len(readings))
	for _, reading := range readings {
		if strings.TrimSpace(reading.Text) == "" {
			continue
		}
		refs = append(refs, ScriptureReference{
			Citation:    strings.TrimSpace(reading.Citation),
			Text:        strings.TrimSpace(reading.Text),
			Translation: translation,
			Source:      "moravian",
			Label:       reading.Label,
		})
	}
	if len(refs) == 0 {
		return nil, fmt.Errorf("reference: moravian readings were empty: %w", ErrSourceUnavailable)
	}
	return refs, nil
}

func (r *Resolver) resolveRCL(ctx context.Context, slot, translation string) ([]ScriptureReference, error) {
	slot = strings.ToLower(strings.TrimSpace(slot))
	if slot == "" {
		slot = RCLGospel
	}
	switch slot {
	case RCLOldTestament, RCLPsalm, RCLEpistle, RCLGospel:
	default:
		return nil, fmt.Errorf("reference: unknown rcl reading %q", slot)
	}
	reading, err := r.source.FetchRCL(ctx, slot)
	if err != nil {
		return nil, fmt.Errorf("reference: rcl: %w", err)
	}
	if strings.TrimSpace(reading.Text) == "" {
		return nil, fmt.Errorf("reference: rcl returned no text: %w", ErrSourceUnavailable)
	}
	return []ScriptureReference{{
		Citation:    strings.TrimSpace(reading.Citation),
		Text:        strings.TrimSpace(reading.Text),
		Translation: translation,
		Source:      "rcl",
		Label:       reading.Label,
	}}, nil
}

// CombinedCitation joins multiple reference citations into one display
// string, matching how lectionary studies are titled.
func CombinedCitation(refs []ScriptureReference) string {
	parts := make([]string, 0, len(refs))
	for _, ref := range refs {
		citation := ref.Citation
		if ref.Label != "" {
			citation = fmt.Sprintf("%s: %s", ref.Label, citation)
		}
		parts = append(parts, citation)
	}
	return strings.Join(parts, " | ")
}
