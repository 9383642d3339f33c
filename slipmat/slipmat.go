package slipmat

// FeatureSample holds the musical descriptors the feature service reports for
// one catalog recording. Every field may be nil: ids the service doesn't know
// simply have no sample, and partial samples keep whatever came back.
type FeatureSample struct {
	// Tempo is the estimated tempo of the track in beats per minute.
	// Example: 118.211
	Tempo *float64 `json:"tempo"`
	// Key is the pitch class the track is in, using standard Pitch Class
	// notation: 0 = C, 1 = C♯/D♭, 2 = D, and so on up to 11 = B.
	Key *int `json:"key"`
	// Mode indicates the modality (major or minor) of the track.
	// Major is represented by 1 and minor is 0.
	Mode *int `json:"mode"`
	// Danceability describes how suitable the track is for dancing, from 0.0
	// (least danceable) to 1.0 (most danceable).
	Danceability *float64 `json:"danceability"`
	// Energy is a perceptual measure of intensity and activity from 0.0 to 1.0.
	Energy *float64 `json:"energy"`
}

// HasTempo reports whether the sample carries a tempo estimate.
func (f FeatureSample) HasTempo() bool {
	return f.Tempo != nil
}

// HasKey reports whether the sample carries both a pitch class and a mode.
func (f FeatureSample) HasKey() bool {
	return f.Key != nil && f.Mode != nil
}

// ResolvedTrack is one line of pasted text resolved against the catalog and
// enriched with tempo and key. It is the terminal record handed to whoever
// renders or exports the sheet.
type ResolvedTrack struct {
	ID             string `json:"id"`
	Disc           int    `json:"disc,omitempty"`
	TrackNumber    int    `json:"track_number,omitempty"`
	Name           string `json:"name"`
	Artists        string `json:"artists"`
	ArtistInferred bool   `json:"artist_inferred,omitempty"`

	// BPM is the tempo rounded to the nearest whole beat per minute.
	// Nil when the feature service had no sample for this track.
	BPM *int `json:"bpm"`
	// Camelot is the harmonic-mixing wheel symbol, e.g. "8A".
	Camelot string `json:"camelot"`
	// KeyName is the human-readable key, e.g. "A min".
	KeyName string `json:"key_name"`

	Popularity *int   `json:"popularity"`
	SpotifyURL string `json:"spotify_url"`
	Image      string `json:"image,omitempty"`

	// Score is the resolver's confidence in the catalog match, in [0,1]
	// before feature bonuses.
	Score float64 `json:"score,omitempty"`
}

// ResolvedAlbum is one pasted line resolved to a catalog album together with
// its ordered, feature-enriched track list.
type ResolvedAlbum struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Subtitle    string `json:"subtitle"`
	Year        string `json:"year"`
	TotalTracks int    `json:"total_tracks"`
	SpotifyURL  string `json:"spotify_url"`

	// Artists is the full comma-joined album artist credit.
	Artists string `json:"artists"`
	// SingleArtist is set when every track shares one artist credit, so the
	// renderer can strip the repeated name from track labels.
	SingleArtist string `json:"single_artist"`

	Tracks []ResolvedTrack `json:"tracks"`
}
