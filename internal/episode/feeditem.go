package episode

import (
	"strconv"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
)

// FromFeedItem builds an Episode from a parsed RSS/Atom item. The first
// audio enclosure supplies the audio URL; items without one fall back to the
// first enclosure of any type.
func FromFeedItem(item *gofeed.Item) Episode {
	if item == nil {
		return Episode{}
	}
	ep := Episode{
		GUID:        strings.TrimSpace(item.GUID),
		Title:       strings.TrimSpace(item.Title),
		Description: strings.TrimSpace(item.Description),
		AudioURL:    audioEnclosure(item.Enclosures),
	}
	if ep.Description == "" {
		ep.Description = strings.TrimSpace(item.Content)
	}
	switch {
	case item.PublishedParsed != nil:
		ep.Published = item.PublishedParsed.UTC()
	case item.UpdatedParsed != nil:
		ep.Published = item.UpdatedParsed.UTC()
	}
	if item.ITunesExt != nil {
		ep.Duration = ParseITunesDuration(item.ITunesExt.Duration)
	}
	return ep
}

func audioEnclosure(enclosures []*gofeed.Enclosure) string {
	var first string
	for _, enc := range enclosures {
		if enc == nil || strings.TrimSpace(enc.URL) == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(enc.Type), "audio/") {
			return strings.TrimSpace(enc.URL)
		}
		if first == "" {
			first = strings.TrimSpace(enc.URL)
		}
	}
	return first
}

// ParseITunesDuration accepts the itunes:duration forms "SS", "MM:SS" and
// "HH:MM:SS". Unparseable values yield zero.
func ParseITunesDuration(value string) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	parts := strings.Split(value, ":")
	if len(parts) > 3 {
		return 0
	}
	var seconds int
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || n < 0 {
			return 0
		}
		seconds = seconds*60 + n
	}
	return time.Duration(seconds) * time.Second
}
