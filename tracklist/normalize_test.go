package tracklist

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "side marker with duration",
			in:   "A2 Stan Getz, Charlie Byrd - Desafinado 1:59",
			want: "Stan Getz, Charlie Byrd - Desafinado 1:59",
		},
		{
			name: "numbered with dot",
			in:   "1. Desafinado 2:01",
			want: "Desafinado 2:01",
		},
		{
			name: "unicode dash",
			in:   "João Gilberto – Bim Bom",
			want: "João Gilberto - Bim Bom",
		},
		{
			name: "side label",
			in:   "Side A:",
			want: "",
		},
		{
			name: "attribution asterisk before dash",
			in:   "Orlandivo* - Onde Anda O Meu Amor",
			want: "Orlandivo - Onde Anda O Meu Amor",
		},
		{
			name: "trailing attribution asterisk",
			in:   "Orlandivo*",
			want: "Orlandivo",
		},
		{
			name: "release metadata parens",
			in:   "Moodymann - Mahogany Brown (LP, Album)",
			want: "Moodymann - Mahogany Brown",
		},
		{
			name: "pressing parens",
			in:   "Getz/Gilberto (JP-Press, Reissue)",
			want: "Getz/Gilberto",
		},
		{
			name: "trailing bracket codes",
			in:   "Getz/Gilberto [180g]",
			want: "Getz/Gilberto",
		},
		{
			name: "divider line",
			in:   "----------",
			want: "",
		},
		{
			name: "box drawing line",
			in:   "────────",
			want: "",
		},
		{
			name: "layout token",
			in:   "STEREO",
			want: "",
		},
		{
			name: "speed marking",
			in:   "Mahogany Brown 33RPM",
			want: "Mahogany Brown",
		},
		{
			name: "space runs collapse",
			in:   "Quincy Jones   -   Soul  Bossa Nova",
			want: "Quincy Jones - Soul Bossa Nova",
		},
		{
			name: "blank",
			in:   "   ",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"A2 Stan Getz, Charlie Byrd - Desafinado 1:59",
		"12 34 Some Title",
		"Side B: Orlandivo* - Tamanco No Samba (LP, Reissue)",
		"– — ： ；",
		"─━│ mixed ┃",
		"B1 - Quincy Jones - Soul Bossa Nova 2:43",
		"",
		"plain title with no markup",
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestNormalizePreservesTabs(t *testing.T) {
	in := "Azymuth\tDear Limmertz\t4:34"
	got := Normalize(in)
	if got != in {
		t.Errorf("Normalize(%q) = %q, tab fields should survive", in, got)
	}
}
