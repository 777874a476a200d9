package component

// MusicRequest is a one-shot request for global music playback. An empty
// Track stops the music.
//
// Only one song plays at a time. A new request while another song is active
// fades the current song to silence first, then starts the requested song.
type MusicRequest struct {
	Track         string
	Volume        float64
	Loop          bool
	FadeOutFrames int
}

var MusicRequestComponent = NewComponent[MusicRequest]()
