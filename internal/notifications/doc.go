// Package notifications delivers transcript events to ntfy.
//
// Generation can take minutes, so a finished or degraded transcript is
// announced on the topic configured under [notifications]. With no topic
// configured NewService returns a no-op Service.
package notifications
