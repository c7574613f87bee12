package study

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var (
	refSeparators = regexp.MustCompile(`[\s:]+`)
	refInvalid    = regexp.MustCompile(`[^a-z0-9\-]`)
	refHyphenRuns = regexp.MustCompile(`-+`)
)

// SanitizeReference converts a biblical reference into a filename-safe
// fragment: "John 3:16-21" becomes "john-3-16-21".
func SanitizeReference(reference string) string {
	safe := strings.ToLower(reference)
	safe = refSeparators.ReplaceAllString(safe, "-")
	safe = refInvalid.ReplaceAllString(safe, "")
	safe = refHyphenRuns.ReplaceAllString(safe, "-")
	return strings.Trim(safe, "-")
}

// Slug builds the base study identifier: {engine}_{safe-reference}_{YYYYMMDD}.
func Slug(engine, reference string, date time.Time) string {
	return fmt.Sprintf("%s_%s_%s", engine, SanitizeReference(reference), date.Format("20060102"))
}
