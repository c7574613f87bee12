package reference

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"
)

const (
	defaultGatewayURL  = "https://www.biblegateway.com"
	defaultMoravianURL = "https://www.moravian.org/daily_texts/"
	defaultRCLURL      = "https://lectionary.library.vanderbilt.edu/daily-readings/"

	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"
)

// GatewaySource fetches scripture text by scraping Bible Gateway, and
// calendar readings from moravian.org and the Vanderbilt lectionary pages.
type GatewaySource struct {
	client      *http.Client
	gatewayURL  string
	moravianURL string
	rclURL      string
	translation string
	now         func() time.Time
}

// GatewayOption customizes a GatewaySource during construction.
type GatewayOption func(*GatewaySource)

// WithHTTPClient overrides the HTTP client (timeouts, transports).
func WithHTTPClient(client *http.Client) GatewayOption {
	return func(s *GatewaySource) {
		if client != nil {
			s.client = client
		}
	}
}

// WithEndpoints overrides the scraped page locations. Empty strings keep the
// defaults; tests point these at local fixtures.
func WithEndpoints(gateway, moravian, rcl string) GatewayOption {
	return func(s *GatewaySource) {
		if gateway != "" {
			s.gatewayURL = strings.TrimRight(gateway, "/")
		}
		if moravian != "" {
			s.moravianURL = moravian
		}
		if rcl != "" {
			s.rclURL = rcl
		}
	}
}

// WithClock overrides the clock used for date-keyed calendar lookups.
func WithClock(clock func() time.Time) GatewayOption {
	return func(s *GatewaySource) {
		if clock != nil {
			s.now = clock
		}
	}
}

// NewGatewaySource builds a source with the given default translation for
// calendar readings.
func NewGatewaySource(defaultTranslation string, opts ...GatewayOption) *GatewaySource {
	s := &GatewaySource{
		client:      &http.Client{Timeout: 10 * time.Second},
		gatewayURL:  defaultGatewayURL,
		moravianURL: defaultMoravianURL,
		rclURL:      defaultRCLURL,
		translation: defaultTranslation,
		now:         time.Now,
	}
	if s.translation == "" {
		s.translation = "NRSVue"
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FetchPassage retrieves a citation's text from Bible Gateway, stripped of
// verse numbers, footnotes, and cross references.
func (s *GatewaySource) FetchPassage(ctx context.Context, citation, translation string) (string, error) {
	code, err := TranslationCode(translation)
	if err != nil {
		return "", err
	}
	pageURL := fmt.Sprintf("%s/passage/?search=%s&version=%s",
		s.gatewayURL, url.QueryEscape(citation), code)

	root, err := s.getHTML(ctx, pageURL)
	if err != nil {
		return "", err
	}

	passage := findNode(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "passage-text")
	})
	if passage == nil {
		return "", fmt.Errorf("no passage text for %q: %w", citation, ErrReferenceNotFound)
	}

	text := nodeText(passage, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		switch n.Data {
		case "span":
			return hasClass(n, "chapternum") || hasClass(n, "versenum")
		case "sup":
			return hasClass(n, "footnote") || hasClass(n, "crossreference")
		}
		return false
	})

	text = collapseWhitespace(text)
	if text == "" {
		return "", fmt.Errorf("empty passage for %q: %w", citation, ErrReferenceNotFound)
	}
	return text, nil
}

// FetchMoravian fetches today's complete Moravian Daily Text: the daily
// readings plus the Watchword and Daily Text verses. All passages fetch in
// the source's default translation.
func (s *GatewaySource) FetchMoravian(ctx context.Context) ([]Reading, error) {
	root, err := s.getHTML(ctx, s.moravianURL)
	if err != nil {
		return nil, err
	}

	dayName := s.now().Format("Monday")
	var citations []string
	for _, p := range findAll(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && n.Data == "p"
	}) {
		text := nodeText(p, nil)
		if !strings.Contains(text, dayName) || !strings.Contains(text, "—") {
			continue
		}
		// "Tuesday, ... — Psalm 5; Genesis 6:1-7:10; Matthew 3"
		parts := strings.SplitN(text, "—", 2)
		if len(parts) < 2 {
			continue
		}
		for _, citation := range strings.Split(parts[1], ";") {
			citation = strings.TrimSpace(citation)
			if citation != "" && strings.ContainsAny(citation, "0123456789") {
				citations = append(citations, citation)
			}
		}
	}

	// Watchword and Daily Text arrive as the first two Bible Gateway links.
	verseRefs := gatewayLinkCitations(root)
	labels := []string{"Watchword", "Daily Text"}

	var readings []Reading
	for _, citation := range citations {
		text, err := s.FetchPassage(ctx, citation, s.translation)
		if err != nil {
			continue
		}
		readings = append(readings, Reading{Label: "Daily Reading", Citation: citation, Text: text})
	}
	for i, citation := range verseRefs {
		if i >= len(labels) {
			break
		}
		text, err := s.FetchPassage(ctx, citation, s.translation)
		if err != nil {
			continue
		}
		readings = append(readings, Reading{Label: labels[i], Citation: citation, Text: text})
	}

	if len(readings) == 0 {
		return nil, fmt.Errorf("no moravian readings found: %w", ErrSourceUnavailable)
	}
	return readings, nil
}

// rclSlotIndex maps reading slots to their position on the Vanderbilt page.
var rclSlotIndex = map[string]int{
	RCLOldTestament: 0,
	RCLPsalm:        1,
	RCLEpistle:      2,
	RCLGospel:       3,
}

// rclSlotLabels maps reading slots to label text found near the link.
var rclSlotLabels = map[string][]string{
	RCLOldTestament: {"old testament", "first reading"},
	RCLPsalm:        {"psalm"},
	RCLEpistle:      {"epistle", "second reading", "new testament"},
	RCLGospel:       {"gospel"},
}

// FetchRCL fetches today's Revised Common Lectionary reading for the slot.
func (s *GatewaySource) FetchRCL(ctx context.Context, slot string) (Reading, error) {
	root, err := s.getHTML(ctx, s.rclURL)
	if err != nil {
		return Reading{}, err
	}

	// The page keys each day's section by a MMDDYYYY element id.
	today := s.now()
	dateID := today.Format("01022006")
	section := findNode(root, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attrValue(n, "id") == dateID
	})
	if section == nil {
		return Reading{}, fmt.Errorf("no readings for %s: %w",
			today.Format("January 2, 2006"), ErrSourceUnavailable)
	}

	links := labeledGatewayLinks(section)
	if len(links) == 0 {
		return Reading{}, fmt.Errorf("no scripture readings for today: %w", ErrSourceUnavailable)
	}

	var citation string
	for _, link := range links {
		for _, label := range rclSlotLabels[slot] {
			if strings.Contains(strings.ToLower(link.label), label) {
				citation = link.citation
				break
			}
		}
		if citation != "" {
			break
		}
	}
	if citation == "" {
		// Positional fallback when the page omits labels.
		index := rclSlotIndex[slot]
		if index >= len(links) {
			index = len(links) - 1
		}
		citation = links[index].citation
	}

	text, err := s.FetchPassage(ctx, citation, s.translation)
	if err != nil {
		return Reading{}, err
	}
	return Reading{Label: slot, Citation: citation, Text: text}, nil
}

func (s *GatewaySource) getHTML(ctx context.Context, pageURL string) (*html.Node, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w: %v", pageURL, ErrSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: status %d: %w", pageURL, resp.StatusCode, ErrSourceUnavailable)
	}
	root, err := html.Parse(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}
	return root, nil
}

type labeledLink struct {
	label    string
	citation string
}

var searchParamPattern = regexp.MustCompile(`[?&]search=([^&]+)`)

// gatewayLinkCitations extracts citations from Bible Gateway passage links.
func gatewayLinkCitations(root *html.Node) []string {
	var citations []string
	for _, link := range findAll(root, isGatewayLink) {
		if citation := linkCitation(link); citation != "" {
			citations = append(citations, citation)
		}
	}
	return citations
}

// labeledGatewayLinks walks the subtree in document order, pairing each
// Bible Gateway link with the text that immediately precedes it.
func labeledGatewayLinks(root *html.Node) []labeledLink {
	var links []labeledLink
	var pending strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			pending.WriteString(n.Data)
			return
		}
		if isGatewayLink(n) {
			if citation := linkCitation(n); citation != "" {
				links = append(links, labeledLink{
					label:    strings.TrimSpace(pending.String()),
					citation: citation,
				})
			}
			pending.Reset()
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return links
}

func isGatewayLink(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "a" &&
		strings.Contains(attrValue(n, "href"), "biblegateway.com")
}

func linkCitation(link *html.Node) string {
	// Prefer the link text; fall back to the search parameter.
	if text := collapseWhitespace(nodeText(link, nil)); text != "" {
		return text
	}
	match := searchParamPattern.FindStringSubmatch(attrValue(link, "href"))
	if len(match) < 2 {
		return ""
	}
	citation := strings.NewReplacer("%20", " ", "+", " ", "%3A", ":").Replace(match[1])
	return strings.TrimSpace(citation)
}

// findNode returns the first node in the subtree matching the predicate.
func findNode(root *html.Node, match func(*html.Node) bool) *html.Node {
	if match(root) {
		return root
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every node in the subtree matching the predicate.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var nodes []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if match(n) {
			nodes = append(nodes, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return nodes
}

// nodeText collects the text content of a subtree, skipping nodes matched by
// skip (verse numbers, footnotes).
func nodeText(root *html.Node, skip func(*html.Node) bool) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if skip != nil && skip(n) {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return sb.String()
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attrValue(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

var (
	multiNewline = regexp.MustCompile(`\n+`)
	multiSpace   = regexp.MustCompile(`[ \t]+`)
)

func collapseWhitespace(text string) string {
	text = multiNewline.ReplaceAllString(text, "\n")
	text = multiSpace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
