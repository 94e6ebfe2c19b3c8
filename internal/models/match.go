package models

// Tier identifies the strategy that produced a [MatchResult].
type Tier int

const (
	TierNone         Tier = iota // no strategy applied; the track was not found
	TierAlbumFolder              // folder scan of the resolved album folder
	TierArtistFolder             // folder scan of the artist folder
	TierIndex                    // lookup in the root-level library index
)

// String returns the human-readable name of the tier.
func (t Tier) String() string {
	switch t {
	case TierAlbumFolder:
		return "album_folder"
	case TierArtistFolder:
		return "artist_folder"
	case TierIndex:
		return "index"
	default:
		return "none"
	}
}

// Failure records a remote track no strategy could place.
type Failure struct {
	Ordinal int    `json:"ordinal"`
	Title   string `json:"title"`
}

// MatchResult is the outcome of resolving one [RemoteTrack].
//
// Local is nil when the track was not found.
type MatchResult struct {
	Remote RemoteTrack `json:"remote"`
	Local  *LocalTrack `json:"local,omitempty"`
	Tier   Tier        `json:"tier"`
}

// Matched reports whether a local file was found.
func (r MatchResult) Matched() bool {
	return r.Local != nil
}

// Failure returns the failure record for an unmatched result.
func (r MatchResult) Failure() Failure {
	return Failure{Ordinal: r.Remote.Ordinal, Title: r.Remote.Title}
}

// ConversionOutcome holds one [MatchResult] per remote track, in playlist order.
type ConversionOutcome struct {
	Playlist Playlist      `json:"playlist"`
	Results  []MatchResult `json:"results"`
}

// MatchedCount returns the number of results with a local file.
func (o ConversionOutcome) MatchedCount() int {
	n := 0
	for _, r := range o.Results {
		if r.Matched() {
			n++
		}
	}
	return n
}

// FailureCount returns the number of unmatched results.
func (o ConversionOutcome) FailureCount() int {
	return len(o.Results) - o.MatchedCount()
}

// Failures returns the unmatched results in playlist order.
func (o ConversionOutcome) Failures() []Failure {
	var failures []Failure
	for _, r := range o.Results {
		if !r.Matched() {
			failures = append(failures, r.Failure())
		}
	}
	return failures
}

// Matches returns the matched local tracks in playlist order.
func (o ConversionOutcome) Matches() []LocalTrack {
	var tracks []LocalTrack
	for _, r := range o.Results {
		if r.Matched() {
			tracks = append(tracks, *r.Local)
		}
	}
	return tracks
}
