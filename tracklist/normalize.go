// Package tracklist turns pasted track-listing text into structured entries:
// one pass of layout cleanup per line, then artist/title/duration parsing
// with artist context carried across the block.
package tracklist

import (
	"regexp"
	"strings"
)

// separators unifies the Unicode dash/colon/semicolon variants that show up
// in copied sleeve text and exports.
var separators = strings.NewReplacer(
	"–", "-",
	"—", "-",
	"：", ":",
	"；", ";",
)

var (
	// leading numbering like "1.", "A2 ", "B1 -"
	leadOrdinalRe = regexp.MustCompile(`(?i)^\s*[A-D]?\d+\s*[.\-)]\s*`)
	leadNumberRe  = regexp.MustCompile(`(?i)^\s*[A-D]?\d+\s+`)

	sideRe = regexp.MustCompile(`(?i)^Side\s+[A-D]\s*:?`)

	// Discogs-style attribution asterisk: "Orlandivo* - ..." or "Orlandivo*"
	attribDashRe = regexp.MustCompile(`\*+(\s*-\s)`)
	attribEndRe  = regexp.MustCompile(`\*+\s*$`)

	// trailing release metadata: "(LP, Album)", "(JP-Press, Reissue)", "[VG+]"
	parenFormatRe = regexp.MustCompile(`(?i)\s*\((?:LP|Album|EP|Single)[^)]*\)\s*$`)
	parenPressRe  = regexp.MustCompile(`(?i)\s*\([^)]*(?:Reissue|Remastered|Press|JP-|US-|UK-)[^)]*\)\s*$`)
	bracketRe     = regexp.MustCompile(`\s*\[[^\]]*\]\s*$`)

	// lines that are only dividers or box drawing
	dividerRe = regexp.MustCompile(`^[-_~=*.\s` + "─-╿" + `]+$`)

	// non-musical layout words at the end of a line
	layoutRe = regexp.MustCompile(`(?i)\s*\b(FOURSIDER|STEREO|MONO|QUADROPHONIC|33⅓|33RPM|45RPM)\b\s*$`)

	// collapse runs of spaces; tabs are preserved because they carry the
	// spreadsheet-paste convention through to the parser
	spaceRunRe = regexp.MustCompile(` {2,}`)
)

// Normalize strips layout noise from one raw line and unifies separators.
// It returns "" for lines that carry nothing musical. Every rewrite shrinks
// the line, so applying the passes until nothing changes makes the whole
// function idempotent.
func Normalize(raw string) string {
	s := raw
	for {
		next := normalizeOnce(s)
		if next == s {
			return s
		}
		s = next
	}
}

func normalizeOnce(line string) string {
	s := separators.Replace(line)
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = leadOrdinalRe.ReplaceAllString(s, "")
	s = leadNumberRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(sideRe.ReplaceAllString(s, ""))

	s = attribDashRe.ReplaceAllString(s, "$1")
	s = attribEndRe.ReplaceAllString(s, "")

	s = parenFormatRe.ReplaceAllString(s, "")
	s = parenPressRe.ReplaceAllString(s, "")
	s = bracketRe.ReplaceAllString(s, "")

	if dividerRe.MatchString(s) {
		return ""
	}

	s = layoutRe.ReplaceAllString(s, "")
	s = spaceRunRe.ReplaceAllString(s, " ")

	return strings.TrimSpace(s)
}
