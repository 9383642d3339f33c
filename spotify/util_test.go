package spotify

import (
	"testing"

	spot "github.com/zmb3/spotify/v2"
)

func TestConcatArtists(t *testing.T) {
	artists := []spot.SimpleArtist{
		{Name: "Stan Getz"},
		{Name: "Charlie Byrd"},
	}
	if got := ConcatArtists(artists); got != "Stan Getz, Charlie Byrd" {
		t.Errorf("ConcatArtists = %q", got)
	}
	if got := ConcatArtists(nil); got != "" {
		t.Errorf("ConcatArtists(nil) = %q", got)
	}
}

func TestGetThumb(t *testing.T) {
	album := spot.SimpleAlbum{Images: []spot.Image{
		{Height: 640, Width: 640, URL: "https://i.scdn.co/image/big"},
		{Height: 300, Width: 300, URL: "https://i.scdn.co/image/thumb"},
		{Height: 64, Width: 64, URL: "https://i.scdn.co/image/tiny"},
	}}
	if got := GetThumb(album); got != "https://i.scdn.co/image/thumb" {
		t.Errorf("GetThumb = %q", got)
	}
	if got := GetThumb(spot.SimpleAlbum{}); got != "" {
		t.Errorf("GetThumb(empty) = %q", got)
	}
}
