package system

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

type fakeSound struct {
	volume  float64
	playing bool
	rewinds int
}

func (f *fakeSound) Play() { f.playing = true }
func (f *fakeSound) Pause() { f.playing = false }
func (f *fakeSound) Rewind() error { f.rewinds++; return nil }
func (f *fakeSound) IsPlaying() bool { return f.playing }
func (f *fakeSound) SetVolume(v float64) { f.volume = v }

type fakeTracks struct {
	opened map[string]*fakeSound
	broken map[string]bool
}

func newFakeTracks() *fakeTracks {
	return &fakeTracks{opened: map[string]*fakeSound{}, broken: map[string]bool{}}
}

func (f *fakeTracks) load(track string) (component.Sound, error) {
	if f.broken[track] {
		return nil, errors.New("no such track")
	}
	s := &fakeSound{}
	f.opened[track] = s
	return s, nil
}

func spawnMusicPlayer(t *testing.T, w *ecs.World, volumes map[string]float64) *component.MusicPlayer {
	t.Helper()
	return add(t, w, ecs.CreateEntity(w), component.MusicPlayerComponent, &component.MusicPlayer{
		Players:      map[string]component.Sound{},
		TrackVolumes: volumes,
		Gain:         1,
	})
}

func queueTrack(t *testing.T, w *ecs.World, req component.MusicRequest) {
	t.Helper()
	add(t, w, ecs.CreateEntity(w), component.MusicRequestComponent, &req)
}

func TestMusicFadesOutBeforeSwitching(t *testing.T) {
	w := ecs.NewWorld()
	mp := spawnMusicPlayer(t, w, nil)
	tracks := newFakeTracks()
	sys := NewMusicSystem(nil, tracks.load)

	requestMusic(w, "field", true)
	sys.Update(w)
	field := tracks.opened["field"]
	require.NotNil(t, field)
	assert.True(t, field.playing)
	assert.InDelta(t, 1.0, field.volume, 1e-9)

	queueTrack(t, w, component.MusicRequest{Track: "boss", Loop: true, FadeOutFrames: 4})
	sys.Update(w)
	assert.InDelta(t, 0.75, field.volume, 1e-9)
	updateN(w, 2, sys)
	assert.InDelta(t, 0.25, field.volume, 1e-9)
	assert.True(t, field.playing, "still fading")
	assert.NotContains(t, tracks.opened, "boss")
	assert.Equal(t, "field", mp.CurrentTrack)

	sys.Update(w)
	assert.False(t, field.playing)
	boss := tracks.opened["boss"]
	require.NotNil(t, boss, "starts on the frame the fade reaches silence")
	assert.True(t, boss.playing)
	assert.Equal(t, "boss", mp.CurrentTrack)
	assert.True(t, mp.CurrentLoop)
	assert.False(t, mp.PendingActive)
}

func TestMusicLatestRequestInFrameWins(t *testing.T) {
	w := ecs.NewWorld()
	mp := spawnMusicPlayer(t, w, nil)
	tracks := newFakeTracks()
	sys := NewMusicSystem(nil, tracks.load)

	requestMusic(w, "first", true)
	requestMusic(w, "second", false)
	requestMusic(w, "third", true)
	sys.Update(w)

	assert.Equal(t, "third", mp.CurrentTrack)
	assert.Len(t, tracks.opened, 1)
	assert.Contains(t, tracks.opened, "third")
	assert.Zero(t, ecs.Count(w, component.MusicRequestComponent.Kind()), "requests are one-shot")
}

func TestMusicEmptyTrackStops(t *testing.T) {
	w := ecs.NewWorld()
	mp := spawnMusicPlayer(t, w, map[string]float64{"cave": 0.5})
	tracks := newFakeTracks()
	sys := NewMusicSystem(nil, tracks.load)

	requestMusic(w, "cave", true)
	sys.Update(w)
	cave := tracks.opened["cave"]
	require.NotNil(t, cave)
	assert.InDelta(t, 0.5, cave.volume, 1e-9, "per-track volume from the prefab")

	queueTrack(t, w, component.MusicRequest{FadeOutFrames: 2})
	sys.Update(w)
	assert.InDelta(t, 0.25, cave.volume, 1e-9)
	sys.Update(w)
	assert.False(t, cave.playing)
	assert.Empty(t, mp.CurrentTrack)

	updateN(w, 5, sys)
	assert.False(t, cave.playing, "a stopped looping track stays stopped")
	assert.Len(t, tracks.opened, 1)

	requestMusic(w, "", false)
	sys.Update(w)
	assert.Empty(t, mp.CurrentTrack, "stopping silence is a no-op")
	assert.False(t, mp.PendingActive)
}

func TestMusicGainScalesVolume(t *testing.T) {
	w := ecs.NewWorld()
	mp := spawnMusicPlayer(t, w, map[string]float64{"town": 0.8})
	tracks := newFakeTracks()
	gain := 0.5
	sys := NewMusicSystem(func() float64 { return gain }, tracks.load)

	requestMusic(w, "town", true)
	sys.Update(w)
	town := tracks.opened["town"]
	require.NotNil(t, town)
	assert.InDelta(t, 0.4, town.volume, 1e-9)

	gain = 0.25
	sys.Update(w)
	assert.InDelta(t, 0.2, town.volume, 1e-9, "settings apply on the next frame")
	assert.Equal(t, 0.25, mp.Gain)

	queueTrack(t, w, component.MusicRequest{Track: "town", Volume: 0.6, Loop: true})
	sys.Update(w)
	assert.InDelta(t, 0.15, town.volume, 1e-9, "same track only changes volume")
	assert.Len(t, tracks.opened, 1)
}

func TestMusicLoopRestartsFinishedTrack(t *testing.T) {
	w := ecs.NewWorld()
	spawnMusicPlayer(t, w, nil)
	tracks := newFakeTracks()
	sys := NewMusicSystem(nil, tracks.load)

	requestMusic(w, "loop", true)
	sys.Update(w)
	s := tracks.opened["loop"]
	require.NotNil(t, s)
	rewinds := s.rewinds

	s.playing = false
	sys.Update(w)
	assert.True(t, s.playing)
	assert.Equal(t, rewinds+1, s.rewinds)
}

func TestMusicLoadFailureLeavesSilence(t *testing.T) {
	w := ecs.NewWorld()
	mp := spawnMusicPlayer(t, w, nil)
	tracks := newFakeTracks()
	tracks.broken["missing"] = true
	sys := NewMusicSystem(nil, tracks.load)

	requestMusic(w, "missing", true)
	sys.Update(w)
	assert.Empty(t, mp.CurrentTrack)
	assert.False(t, mp.PendingActive)
}

func TestAudioPlaysAndStopsFlaggedClips(t *testing.T) {
	w := ecs.NewWorld()
	jump := &fakeSound{}
	clips := add(t, w, ecs.CreateEntity(w), component.AudioComponent, &component.Audio{
		Names:   []string{"jump", "silent"},
		Players: []component.Sound{jump, nil},
		Volume:  []float64{0.5, 1},
		Play:    make([]bool, 2),
		Stop:    make([]bool, 2),
	})
	gain := 0.5
	sys := NewAudioSystem(func() float64 { return gain })

	assert.True(t, clips.Request("jump"))
	assert.True(t, clips.Request("silent"))
	assert.False(t, clips.Request("land"))
	sys.Update(w)
	assert.True(t, jump.playing)
	assert.InDelta(t, 0.25, jump.volume, 1e-9)
	assert.Equal(t, 1, jump.rewinds)
	assert.Equal(t, []bool{false, false}, clips.Play, "flags are cleared even without a player")

	sys.Update(w)
	assert.Equal(t, 1, jump.rewinds, "one play per request")

	clips.Stop[0] = true
	sys.Update(w)
	assert.False(t, jump.playing)
	assert.False(t, clips.Stop[0])
}
