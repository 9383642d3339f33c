// Package camelot maps pitch class and mode to the 24-position harmonic
// mixing wheel used on DJ sheets.
package camelot

import "fmt"

// Key pairs a wheel symbol with its human-readable key name.
type Key struct {
	// Symbol is the wheel position, e.g. "8A" for A minor.
	Symbol string `json:"symbol"`
	// Name is the readable key, e.g. "A min".
	Name string `json:"name"`
}

const (
	// ModeMinor and ModeMajor follow the feature service's convention.
	ModeMinor = 0
	ModeMajor = 1
)

var pitchNames = map[int]string{
	0:  "C",
	1:  "C♯/D♭",
	2:  "D",
	3:  "D♯/E♭",
	4:  "E",
	5:  "F",
	6:  "F♯/G♭",
	7:  "G",
	8:  "G♯/A♭",
	9:  "A",
	10: "A♯/B♭",
	11: "B",
}

// wheel is the fixed (pitch class, mode) -> symbol table. It is deliberately
// a lookup table rather than anything derived from music theory at runtime.
var wheel = map[[2]int]string{
	{0, ModeMajor}:  "8B",
	{1, ModeMajor}:  "3B",
	{2, ModeMajor}:  "10B",
	{3, ModeMajor}:  "5B",
	{4, ModeMajor}:  "12B",
	{5, ModeMajor}:  "7B",
	{6, ModeMajor}:  "2B",
	{7, ModeMajor}:  "9B",
	{8, ModeMajor}:  "4B",
	{9, ModeMajor}:  "11B",
	{10, ModeMajor}: "6B",
	{11, ModeMajor}: "1B",
	{0, ModeMinor}:  "5A",
	{1, ModeMinor}:  "12A",
	{2, ModeMinor}:  "7A",
	{3, ModeMinor}:  "2A",
	{4, ModeMinor}:  "9A",
	{5, ModeMinor}:  "4A",
	{6, ModeMinor}:  "11A",
	{7, ModeMinor}:  "6A",
	{8, ModeMinor}:  "1A",
	{9, ModeMinor}:  "8A",
	{10, ModeMinor}: "3A",
	{11, ModeMinor}: "10A",
}

// FromPitch maps a pitch class (0-11) and mode (1 = major, 0 = minor) to its
// wheel key. ok is false for values outside that domain.
func FromPitch(pitchClass, mode int) (Key, bool) {
	symbol, ok := wheel[[2]int{pitchClass, mode}]
	if !ok {
		return Key{}, false
	}
	suffix := "min"
	if mode == ModeMajor {
		suffix = "maj"
	}
	return Key{
		Symbol: symbol,
		Name:   fmt.Sprintf("%s %s", pitchNames[pitchClass], suffix),
	}, true
}
