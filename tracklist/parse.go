package tracklist

import (
	"regexp"
	"strconv"
	"strings"
)

// Entry is one parsed line. Title is empty when the line held nothing worth
// resolving; callers drop those.
type Entry struct {
	Artist string
	Title  string
	// DurationSec is nil when the line carried no mm:ss token.
	DurationSec *int
	// ArtistInferred is true when Artist was filled from block context
	// rather than the line itself.
	ArtistInferred bool
}

// Context carries the most recently seen explicit artist across the lines of
// one pasted block. It is scoped to a single request and never shared.
type Context struct {
	lastArtist string
}

// Artist returns the carried artist, or "".
func (c *Context) Artist() string {
	if c == nil {
		return ""
	}
	return c.lastArtist
}

// Observe updates the carried artist from a parsed entry. Only entries that
// named their own artist move the context forward.
func (c *Context) Observe(e Entry) {
	if c == nil || e.ArtistInferred || e.Artist == "" || e.Title == "" {
		return
	}
	c.lastArtist = e.Artist
}

var (
	durationRe  = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*$`)
	clockLineRe = regexp.MustCompile(`^\s*\d{1,2}:\d{2}\s*$`)
	bareNumRe   = regexp.MustCompile(`^\d+\s+`)
)

// Parse splits one normalized line into artist, title, and duration.
// contextArtist fills a missing artist; a line with neither a separator nor
// inferable context becomes a title-only entry, never an error.
func Parse(line string, contextArtist string) Entry {
	var e Entry

	s := strings.TrimSpace(line)
	if s == "" {
		return e
	}

	// trailing "mm:ss" duration token
	if m := durationRe.FindStringSubmatchIndex(s); m != nil {
		mins, _ := strconv.Atoi(s[m[2]:m[3]])
		secs, _ := strconv.Atoi(s[m[4]:m[5]])
		d := mins*60 + secs
		e.DurationSec = &d
		s = strings.TrimRight(s[:m[0]], " \t")
	}

	var artist, title string
	if strings.Contains(s, "\t") {
		artist, title = splitTabbed(s)
	} else {
		artist, title = splitPlain(s)
	}

	artist = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(artist), "*"))
	title = strings.TrimSpace(title)

	if artist == "" && contextArtist != "" {
		artist = contextArtist
		e.ArtistInferred = true
	}

	e.Artist = artist
	e.Title = title
	return e
}

// splitTabbed handles spreadsheet-style pastes where fields arrive
// tab-separated, usually "num \t artist \t title" or "num \t title".
func splitTabbed(s string) (artist, title string) {
	var fields []string
	for _, f := range strings.Split(s, "\t") {
		f = strings.TrimSpace(f)
		if f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return "", ""
	}

	// purely numeric first field is a track number
	if _, err := strconv.Atoi(fields[0]); err == nil {
		fields = fields[1:]
	}
	if len(fields) == 0 {
		return "", ""
	}

	first := fields[0]
	if i := strings.Index(first, " - "); i >= 0 {
		rest := append([]string{strings.TrimSpace(first[i+3:])}, fields[1:]...)
		return first[:i], strings.TrimSpace(strings.Join(rest, " "))
	}
	if strings.HasSuffix(first, "-") {
		return strings.TrimSuffix(first, "-"), strings.Join(fields[1:], " ")
	}
	if len(fields) >= 2 {
		return first, strings.Join(fields[1:], " ")
	}
	return "", first
}

// splitPlain handles free-typed lines: optional leading track number, then
// "Artist - Title" with dash preferred over colon. A colon splits only when
// the line isn't itself a bare duration, so "Artist: Title" works without
// mangling timestamp-only lines.
func splitPlain(s string) (artist, title string) {
	s = bareNumRe.ReplaceAllString(s, "")

	if i := strings.Index(s, " - "); i >= 0 {
		return s[:i], s[i+3:]
	}
	if i := strings.Index(s, "-"); i >= 0 {
		return s[:i], s[i+1:]
	}
	if i := strings.Index(s, ":"); i >= 0 && !clockLineRe.MatchString(s) {
		return s[:i], s[i+1:]
	}
	return "", s
}
