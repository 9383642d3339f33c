package tracklist

import "testing"

func intPtr(v int) *int { return &v }

func TestParse(t *testing.T) {
	cases := []struct {
		name          string
		line          string
		contextArtist string
		wantArtist    string
		wantTitle     string
		wantDur       *int
		wantInferred  bool
	}{
		{
			name:       "artist dash title with duration",
			line:       "Miles Davis - So What 9:22",
			wantArtist: "Miles Davis",
			wantTitle:  "So What",
			wantDur:    intPtr(562),
		},
		{
			name:          "artist inferred from context",
			line:          "All Blues 11:33",
			contextArtist: "Miles Davis",
			wantArtist:    "Miles Davis",
			wantTitle:     "All Blues",
			wantDur:       intPtr(693),
			wantInferred:  true,
		},
		{
			name:      "tab separated with empty artist field",
			line:      "8\t\tDear Limmertz\t4:34",
			wantTitle: "Dear Limmertz",
			wantDur:   intPtr(274),
		},
		{
			name:       "tab separated with artist field",
			line:       "3\tAzymuth\tDear Limmertz\t4:34",
			wantArtist: "Azymuth",
			wantTitle:  "Dear Limmertz",
			wantDur:    intPtr(274),
		},
		{
			name:       "tab field with embedded dash",
			line:       "1\tAzymuth - Fly Over The Horizon\t4:01",
			wantArtist: "Azymuth",
			wantTitle:  "Fly Over The Horizon",
			wantDur:    intPtr(241),
		},
		{
			name:       "bare dash split",
			line:       "Sérgio Mendes- Oba-La-La",
			wantArtist: "Sérgio Mendes",
			wantTitle:  "Oba-La-La",
		},
		{
			name:       "colon split",
			line:       "Moodymann: Shades of Jae",
			wantArtist: "Moodymann",
			wantTitle:  "Shades of Jae",
		},
		{
			name:       "artist attribution asterisk",
			line:       "Orlandivo* - Tamanco No Samba",
			wantArtist: "Orlandivo",
			wantTitle:  "Tamanco No Samba",
		},
		{
			name:      "no separator and no context",
			line:      "Desafinado",
			wantTitle: "Desafinado",
		},
		{
			name:       "leading track number",
			line:       "7 Corcovado 4:15",
			wantTitle:  "Corcovado",
			wantDur:    intPtr(255),
			wantArtist: "",
		},
		{
			name:      "timestamp only line keeps no artist",
			line:      "Intro 0:45",
			wantTitle: "Intro",
			wantDur:   intPtr(45),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Parse(tc.line, tc.contextArtist)
			if got.Artist != tc.wantArtist {
				t.Errorf("artist = %q, want %q", got.Artist, tc.wantArtist)
			}
			if got.Title != tc.wantTitle {
				t.Errorf("title = %q, want %q", got.Title, tc.wantTitle)
			}
			if got.ArtistInferred != tc.wantInferred {
				t.Errorf("inferred = %v, want %v", got.ArtistInferred, tc.wantInferred)
			}
			switch {
			case tc.wantDur == nil && got.DurationSec != nil:
				t.Errorf("duration = %d, want none", *got.DurationSec)
			case tc.wantDur != nil && got.DurationSec == nil:
				t.Errorf("duration missing, want %d", *tc.wantDur)
			case tc.wantDur != nil && *got.DurationSec != *tc.wantDur:
				t.Errorf("duration = %d, want %d", *got.DurationSec, *tc.wantDur)
			}
		})
	}
}

func TestContextCarriesExplicitArtistsOnly(t *testing.T) {
	var ctx Context

	first := Parse("Miles Davis - So What 9:22", ctx.Artist())
	ctx.Observe(first)
	if ctx.Artist() != "Miles Davis" {
		t.Fatalf("context artist = %q, want %q", ctx.Artist(), "Miles Davis")
	}

	second := Parse("All Blues 11:33", ctx.Artist())
	ctx.Observe(second)
	if !second.ArtistInferred {
		t.Error("second entry should have inferred artist")
	}
	if second.Artist != "Miles Davis" {
		t.Errorf("second artist = %q, want %q", second.Artist, "Miles Davis")
	}

	// an inferred entry must not move the context
	if ctx.Artist() != "Miles Davis" {
		t.Errorf("context artist = %q, inferred entries must not update it", ctx.Artist())
	}

	third := Parse("Bill Evans - Peace Piece", ctx.Artist())
	ctx.Observe(third)
	if ctx.Artist() != "Bill Evans" {
		t.Errorf("context artist = %q, want %q", ctx.Artist(), "Bill Evans")
	}
}
