package component

// MusicPlayer stores global music playback state on a dedicated ECS entity.
// The music system mutates this component; no playback state is kept on the system.
type MusicPlayer struct {
	Players      map[string]Sound
	TrackVolumes map[string]float64

	CurrentTrack  string
	CurrentVolume float64
	CurrentLoop   bool

	PendingTrack  string
	PendingVolume float64
	PendingLoop   bool
	PendingActive bool

	FadeStep float64
	// Gain is the settings multiplier applied on top of track volumes.
	Gain float64
}

var MusicPlayerComponent = NewComponent[MusicPlayer]()
