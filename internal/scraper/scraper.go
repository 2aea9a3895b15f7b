// Package scraper pulls pseudo-events out of an external website on a best
// effort basis. The site publishes no contract, so extraction is a cascade
// of selector guesses; every failure class degrades to an error the service
// layer flattens into "no web events available".
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/example/event-desk/internal/persistence"
	"github.com/example/event-desk/internal/persistence/jsonfile"
)

// DefaultURL is the endpoint scraped when no override is configured.
const DefaultURL = "https://sansukien.com/"

// browserHeaders mimic an interactive browser; the target serves a reduced
// page to obvious non-browser clients.
var browserHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.5",
	"Connection":      "keep-alive",
}

// Scraper fetches the configured page and regenerates the scrape artifact.
type Scraper struct {
	client  *http.Client
	url     string
	outPath string
	logger  *slog.Logger
}

// New returns a scraper writing its artifact to outPath. A nil client gets
// a default with a conservative timeout.
func New(url, outPath string, client *http.Client, logger *slog.Logger) *Scraper {
	if url == "" {
		url = DefaultURL
	}
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scraper{client: client, url: url, outPath: outPath, logger: logger}
}

// Refresh performs one fetch-parse-overwrite cycle. The artifact is fully
// replaced on success and left untouched on any failure.
func (s *Scraper) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for name, value := range browserHeaders {
		req.Header.Set(name, value)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", s.url, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			s.logger.Warn("failed to close response body", "error", cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: unexpected status %d", s.url, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return fmt.Errorf("parse %s: %w", s.url, err)
	}

	events := extractEvents(doc)
	s.logger.Info("scrape completed", "url", s.url, "events", len(events))

	if err := jsonfile.WriteWebEvents(s.outPath, events); err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

// Load reads the artifact as last written.
func (s *Scraper) Load() ([]persistence.WebEvent, error) {
	return jsonfile.ReadWebEvents(s.outPath)
}

// sectionClasses are tried in order; the first class yielding any node wins
// the whole extraction.
var sectionClasses = []string{"event-item", "event-card", "", "event", "event-list-item", "event-section"}

// extractEvents walks the parsed document through the selector cascade and
// assembles sequentially numbered pseudo-events.
func extractEvents(doc *html.Node) []persistence.WebEvent {
	var events []persistence.WebEvent

	for _, class := range sectionClasses {
		var sections []*html.Node
		if class == "" {
			sections = findAllByTag(doc, "article")
		} else {
			sections = findAllByClass(doc, "div", class)
		}
		if len(sections) == 0 {
			continue
		}
		for _, section := range sections {
			if event, ok := extractEvent(section, len(events)+1); ok {
				events = append(events, event)
			}
		}
		break
	}

	if len(events) == 0 {
		events = keywordFallback(doc)
	}
	return events
}

// extractEvent pulls the title, date, location, and description candidates
// out of one section. Sections yielding no field at all are skipped.
func extractEvent(section *html.Node, seq int) (persistence.WebEvent, bool) {
	title := findTitle(section)
	date := findDate(section)
	location := findLocation(section)
	description := findDescription(section)

	if title == "" && date == "" && location == "" && description == "" {
		return persistence.WebEvent{}, false
	}

	var parts []string
	if location != "" {
		parts = append(parts, "Location: "+location)
	}
	if description != "" {
		parts = append(parts, description)
	}

	if title == "" {
		title = "No title"
	}
	return persistence.WebEvent{
		ID:          fmt.Sprintf("web_%d", seq),
		Title:       title,
		Description: strings.Join(parts, "\n"),
		Date:        date,
	}, true
}

func findTitle(section *html.Node) string {
	for _, class := range []string{"title", "event-title", "event-name", "event-heading"} {
		if n := findFirstByClass(section, "", class); n != nil {
			return nodeText(n)
		}
	}
	for _, tag := range []string{"h1", "h2", "h3", "h4", "h5", "h6"} {
		if nodes := findAllByTag(section, tag); len(nodes) > 0 {
			return nodeText(nodes[0])
		}
	}
	// Anything short enough to plausibly be a heading, as a last resort.
	var title string
	walk(section, func(n *html.Node) bool {
		if title != "" {
			return false
		}
		if n.Type != html.ElementNode {
			return true
		}
		switch n.Data {
		case "div", "span", "p":
			text := nodeText(n)
			lower := strings.ToLower(text)
			if len(text) > 5 && len(text) < 100 &&
				!strings.Contains(lower, "location") && !strings.Contains(lower, "date") &&
				!strings.Contains(lower, "time") && !strings.Contains(lower, "địa điểm") {
				title = text
				return false
			}
		}
		return true
	})
	return title
}

func findDate(section *html.Node) string {
	if nodes := findAllByTag(section, "time"); len(nodes) > 0 {
		return nodeText(nodes[0])
	}
	for _, class := range []string{"date", "event-date", "time", "event-time"} {
		for _, tag := range []string{"span", "div"} {
			if n := findFirstByClass(section, tag, class); n != nil {
				return nodeText(n)
			}
		}
	}
	return findByKeyword(section, "div", "ngày", "date", "thời gian", "time")
}

func findLocation(section *html.Node) string {
	for _, class := range []string{"location", "event-location", "venue", "event-venue"} {
		for _, tag := range []string{"span", "div"} {
			if n := findFirstByClass(section, tag, class); n != nil {
				return nodeText(n)
			}
		}
	}
	return findByKeyword(section, "div", "địa điểm", "location", "venue")
}

func findDescription(section *html.Node) string {
	for _, class := range []string{"description", "event-description", "content", "event-content"} {
		for _, tag := range []string{"div", "p"} {
			if n := findFirstByClass(section, tag, class); n != nil {
				return nodeText(n)
			}
		}
	}
	if nodes := findAllByTag(section, "p"); len(nodes) > 0 {
		return nodeText(nodes[0])
	}
	return ""
}

// keywordFallback sweeps every div for event-ish vocabulary when the
// selector cascade found nothing.
func keywordFallback(doc *html.Node) []persistence.WebEvent {
	var events []persistence.WebEvent
	for _, div := range findAllByTag(doc, "div") {
		text := nodeText(div)
		lower := strings.ToLower(text)
		if len(text) <= 5 {
			continue
		}
		if strings.Contains(lower, "sự kiện") || strings.Contains(lower, "event") ||
			strings.Contains(lower, "hội thảo") || strings.Contains(lower, "seminar") {
			events = append(events, persistence.WebEvent{
				ID:    fmt.Sprintf("web_%d", len(events)+1),
				Title: text,
			})
		}
	}
	return events
}

// walk visits nodes depth first; fn returning false prunes the subtree.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, attr := range n.Attr {
		if attr.Key != "class" {
			continue
		}
		for _, name := range strings.Fields(attr.Val) {
			if name == class {
				return true
			}
		}
	}
	return false
}

// findAllByClass returns the matching elements, skipping descendants of a
// match so nested duplicates do not double-count sections.
func findAllByClass(root *html.Node, tag, class string) []*html.Node {
	var matches []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && (tag == "" || n.Data == tag) && hasClass(n, class) {
			matches = append(matches, n)
			return false
		}
		return true
	})
	return matches
}

func findFirstByClass(root *html.Node, tag, class string) *html.Node {
	matches := findAllByClass(root, tag, class)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

func findAllByTag(root *html.Node, tag string) []*html.Node {
	var matches []*html.Node
	walk(root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == tag {
			matches = append(matches, n)
			return false
		}
		return true
	})
	return matches
}

// findByKeyword returns the text of the first element of the given tag
// whose content mentions any keyword.
func findByKeyword(root *html.Node, tag string, keywords ...string) string {
	var found string
	walk(root, func(n *html.Node) bool {
		if found != "" {
			return false
		}
		if n.Type == html.ElementNode && n.Data == tag {
			text := nodeText(n)
			lower := strings.ToLower(text)
			for _, keyword := range keywords {
				if strings.Contains(lower, keyword) {
					found = text
					return false
				}
			}
		}
		return true
	})
	return found
}

// nodeText concatenates the text content below n with whitespace collapsed.
func nodeText(n *html.Node) string {
	var b strings.Builder
	walk(n, func(node *html.Node) bool {
		if node.Type == html.TextNode {
			b.WriteString(node.Data)
			b.WriteString(" ")
		}
		return true
	})
	return strings.Join(strings.Fields(b.String()), " ")
}
