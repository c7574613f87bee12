// Package reference resolves user-supplied scripture requests into concrete
// citation + text pairs. Resolution is stateless: every call re-fetches from
// the configured text source, since lectionary pages change daily.
package reference

import (
	"errors"
	"regexp"
	"sort"
	"strings"
)

var (
	// ErrReferenceNotFound indicates the text source could not supply text
	// for an explicit citation.
	ErrReferenceNotFound = errors.New("reference: passage not found")
	// ErrSourceUnavailable indicates a calendar source could not be reached
	// or returned no readings for the current date.
	ErrSourceUnavailable = errors.New("reference: text source unavailable")
	// ErrUnsupportedTranslation indicates a translation outside the
	// supported table.
	ErrUnsupportedTranslation = errors.New("reference: unsupported translation")
)

// ScriptureReference pairs a citation with the raw text it identifies.
// Immutable once resolved.
type ScriptureReference struct {
	Citation    string
	Text        string
	Translation string
	Source      string // gateway, paste, moravian, rcl
	Label       string // optional reading label (e.g. "Watchword")
}

// WordCount returns the whitespace-delimited word count of the passage text.
func (r ScriptureReference) WordCount() int {
	return len(strings.Fields(r.Text))
}

// supportedTranslations maps user-facing translation names to Bible Gateway
// version codes.
var supportedTranslations = map[string]string{
	"NRSVue": "NRSVUE",
	"NIV":    "NIV",
	"CEB":    "CEB",
	"NLT":    "NLT",
	"MSG":    "MSG",
}

// TranslationCode returns the Bible Gateway version code for a translation.
func TranslationCode(translation string) (string, error) {
	code, ok := supportedTranslations[translation]
	if !ok {
		return "", ErrUnsupportedTranslation
	}
	return code, nil
}

// Translations returns the supported translation names, sorted.
func Translations() []string {
	names := make([]string, 0, len(supportedTranslations))
	for name := range supportedTranslations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// citationPattern matches "Book Chapter", "Book Chapter:Verse" and
// "Book Chapter:Verse-Verse", with an optional leading book number.
var citationPattern = regexp.MustCompile(`^[1-3]?\s?[A-Za-z]+\s+\d+(:\d+(-\d+)?)?$`)

// ValidCitation reports whether a citation looks like a biblical reference.
// This is advisory; the text source is the final arbiter.
func ValidCitation(citation string) bool {
	return citationPattern.MatchString(strings.TrimSpace(citation))
}
