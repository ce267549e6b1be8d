package domain

// Song is the shared content assigned to a room at creation. The core never
// mutates it; lyrics exist purely for client-side display.
type Song struct {
	ID        string      `json:"id"`
	Title     string      `json:"title"`
	Artist    string      `json:"artist"`
	YoutubeID string      `json:"youtubeId"`
	Lyrics    []LyricLine `json:"lyrics"`
}

// LyricLine is a timed marker: playback offset in seconds plus the line shown
// at that offset.
type LyricLine struct {
	Time float64 `json:"time"`
	Text string  `json:"text"`
}
