package spotify

import (
	"strings"

	spot "github.com/zmb3/spotify/v2"
)

// ArtistNames returns the artist names in credited order.
func ArtistNames(artists []spot.SimpleArtist) []string {
	names := make([]string, len(artists))
	for i, a := range artists {
		names[i] = a.Name
	}
	return names
}

// ConcatArtists returns a comma-separated list of artist names
func ConcatArtists(artists []spot.SimpleArtist) string {
	return strings.Join(ArtistNames(artists), ", ")
}

// GetThumb returns the 300x300 album image, or "" when there isn't one.
func GetThumb(a spot.SimpleAlbum) string {
	for _, img := range a.Images {
		if img.Height == 300 && img.Width == 300 {
			return img.URL
		}
	}
	return ""
}
