package feed

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"lingocast/internal/episode"
	"lingocast/internal/logging"
	"lingocast/internal/services"
)

// Feed is a parsed podcast feed.
type Feed struct {
	Title       string
	Link        string
	Description string
	Items       []Item
	// Skipped counts feed items without a playable enclosure.
	Skipped int
}

// Item is one playable episode of a feed.
type Item struct {
	Episode episode.Episode
	Key     episode.Key
	// Notes is the episode description reduced to plain text.
	Notes string
}

// Reader fetches and parses feeds.
type Reader struct {
	parser *gofeed.Parser
	logger *slog.Logger
}

// Option customizes a Reader.
type Option func(*Reader)

// WithHTTPClient sets the client used to fetch feeds.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Reader) {
		if client != nil {
			r.parser.Client = client
		}
	}
}

// WithUserAgent overrides the User-Agent header sent with feed requests.
func WithUserAgent(agent string) Option {
	return func(r *Reader) { r.parser.UserAgent = agent }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reader) { r.logger = logger }
}

// NewReader returns a Reader with a 30 second fetch timeout.
func NewReader(opts ...Option) *Reader {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}
	parser.UserAgent = "lingocast/1.0"
	r := &Reader{parser: parser}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = logging.NewComponentLogger(r.logger, "feed")
	return r
}

// Fetch downloads and parses the feed at feedURL.
func (r *Reader) Fetch(ctx context.Context, feedURL string) (*Feed, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, services.Wrap(services.ErrValidation, "feed", "fetch", "feed url required", nil)
	}
	parsed, err := r.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		var httpErr gofeed.HTTPError
		if errors.As(err, &httpErr) {
			return nil, services.Wrap(services.ErrTransient, "feed", "fetch", httpErr.Status, err)
		}
		if errors.Is(err, gofeed.ErrFeedTypeNotDetected) {
			return nil, services.Wrap(services.ErrValidation, "feed", "parse", feedURL, err)
		}
		return nil, services.Wrap(services.ErrTransient, "feed", "fetch", feedURL, err)
	}
	return r.convert(parsed)
}

// Parse reads a feed document from src.
func (r *Reader) Parse(src io.Reader) (*Feed, error) {
	parsed, err := r.parser.Parse(src)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "feed", "parse", "", err)
	}
	return r.convert(parsed)
}

func (r *Reader) convert(parsed *gofeed.Feed) (*Feed, error) {
	out := &Feed{
		Title:       strings.TrimSpace(parsed.Title),
		Link:        strings.TrimSpace(parsed.Link),
		Description: ShowNotes(parsed.Description),
	}
	for _, item := range parsed.Items {
		ep := episode.FromFeedItem(item)
		if ep.AudioURL == "" {
			out.Skipped++
			r.logger.Debug("feed item skipped",
				logging.Args(append(logging.DecisionAttrs("feed_item", "skip", "no_enclosure"), logging.String("title", ep.Title))...)...)
			continue
		}
		out.Items = append(out.Items, Item{
			Episode: ep,
			Key:     episode.ComputeKey(ep),
			Notes:   ShowNotes(ep.Description),
		})
	}
	if len(out.Items) == 0 {
		return nil, services.Wrap(services.ErrValidation, "feed", "parse", "feed has no playable episodes", nil)
	}
	r.logger.Info("feed parsed",
		logging.String("feed", out.Title),
		logging.Int("episodes", len(out.Items)),
		logging.Int("skipped", out.Skipped),
	)
	return out, nil
}

// ShowNotes converts an HTML description to plain text with one paragraph
// per line.
func ShowNotes(html string) string {
	html = strings.TrimSpace(html)
	if html == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return collapse(html)
	}
	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, blockquote").Each(func(_ int, sel *goquery.Selection) {
		sel.AfterHtml("\n")
	})
	return collapse(doc.Text())
}

func collapse(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}
	return strings.Join(lines, "\n")
}
