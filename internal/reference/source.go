package reference

import "context"

// RCL reading slots in lectionary order.
const (
	RCLOldTestament = "ot"
	RCLPsalm        = "psalm"
	RCLEpistle      = "epistle"
	RCLGospel       = "gospel"
)

// Reading is one labeled passage returned by a calendar source.
type Reading struct {
	Label    string
	Citation string
	Text     string
}

// TextSource supplies raw scripture text. Implementations may scrape remote
// pages or serve fixtures; the resolver only cares that text comes back keyed
// to a citation.
type TextSource interface {
	// FetchPassage fetches the text for an explicit citation in the given
	// translation.
	FetchPassage(ctx context.Context, citation, translation string) (string, error)

	// FetchMoravian fetches today's Moravian Daily Text readings.
	FetchMoravian(ctx context.Context) ([]Reading, error)

	// FetchRCL fetches today's Revised Common Lectionary reading for the
	// given slot (ot, psalm, epistle, gospel).
	FetchRCL(ctx context.Context, slot string) (Reading, error)
}
