package episode

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Episode is a single audio item.
type Episode struct {
	// GUID is the publisher's stable identifier, when the feed provides one.
	GUID        string
	Title       string
	AudioURL    string
	Description string
	Published   time.Time
	Duration    time.Duration
}

// Key identifies an episode in the transcript caches. It is URL-path safe.
type Key string

func (k Key) String() string { return string(k) }

const (
	guidDomain    = "g"
	contentDomain = "t"
	// KeyLength is the length of every Key: one domain byte plus 32 hex digits.
	KeyLength = 1 + 32
)

// ComputeKey derives the cache key for ep. Episodes with a GUID are keyed on
// the trimmed GUID; otherwise the title and audio URL are hashed together.
// The domain byte keeps the two spaces disjoint even when the hashed bytes are
// equal.
func ComputeKey(ep Episode) Key {
	if guid := strings.TrimSpace(ep.GUID); guid != "" {
		return hashKey(guidDomain, guid)
	}
	return hashKey(contentDomain, strings.TrimSpace(ep.Title)+"\n"+strings.TrimSpace(ep.AudioURL))
}

func hashKey(domain, payload string) Key {
	sum := sha256.Sum256([]byte(domain + ":" + payload))
	return Key(domain + hex.EncodeToString(sum[:16]))
}

// ValidKey reports whether s has the shape produced by ComputeKey.
func ValidKey(s string) bool {
	if len(s) != KeyLength {
		return false
	}
	if s[0] != guidDomain[0] && s[0] != contentDomain[0] {
		return false
	}
	for _, r := range s[1:] {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f') {
			return false
		}
	}
	return true
}

// Label returns a short human label for logs and tables.
func (ep Episode) Label() string {
	if title := strings.TrimSpace(ep.Title); title != "" {
		return title
	}
	if guid := strings.TrimSpace(ep.GUID); guid != "" {
		return guid
	}
	return strings.TrimSpace(ep.AudioURL)
}
