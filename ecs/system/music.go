package system

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/milk9111/hollowreach/assets"
	"github.com/milk9111/hollowreach/common"
	"github.com/milk9111/hollowreach/ecs"
	"github.com/milk9111/hollowreach/ecs/component"
)

const (
	defaultMusicVolume     = 1.0
	defaultMusicFadeFrames = 30
)

// TrackLoader opens a music track by asset path.
type TrackLoader func(track string) (component.Sound, error)

func loadTrack(track string) (component.Sound, error) {
	p, err := assets.LoadAudioPlayer(track)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// MusicSystem owns the single music channel. Requests are one-shot entities;
// the latest one in a frame wins.
type MusicSystem struct {
	gain func() float64
	load TrackLoader
	log  *log.Logger
}

func NewMusicSystem(gain func() float64, load TrackLoader) *MusicSystem {
	if gain == nil {
		gain = func() float64 { return 1 }
	}
	if load == nil {
		load = loadTrack
	}
	return &MusicSystem{gain: gain, load: load, log: common.Logger().With("system", "music")}
}

// requestMusic queues a track change. An empty track fades the music out.
func requestMusic(w *ecs.World, track string, loop bool) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), &component.MusicRequest{
		Track:         track,
		Loop:          loop,
		FadeOutFrames: defaultMusicFadeFrames,
	})
}

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	latest, requestEntities := m.consumeLatestRequest(w)
	for _, ent := range requestEntities {
		ecs.DestroyEntity(w, ent)
	}

	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if !ok {
		return
	}
	player, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind())
	if !ok || player == nil {
		return
	}
	if player.Players == nil {
		player.Players = make(map[string]component.Sound)
	}
	if player.TrackVolumes == nil {
		player.TrackVolumes = make(map[string]float64)
	}

	player.Gain = m.gain()
	if latest != nil {
		m.applyRequest(player, *latest)
	}

	if player.PendingActive {
		m.updateTransition(player)
		return
	}

	currentPlayer := m.currentPlayer(player)
	if currentPlayer == nil {
		return
	}
	currentPlayer.SetVolume(player.CurrentVolume * player.Gain)
	if !currentPlayer.IsPlaying() && player.CurrentLoop {
		_ = currentPlayer.Rewind()
		currentPlayer.Play()
	}
}

func (m *MusicSystem) consumeLatestRequest(w *ecs.World) (*component.MusicRequest, []ecs.Entity) {
	var latest *component.MusicRequest
	requestEntities := make([]ecs.Entity, 0)

	ecs.ForEach(w, component.MusicRequestComponent.Kind(), func(ent ecs.Entity, req *component.MusicRequest) {
		requestEntities = append(requestEntities, ent)
		if req == nil {
			return
		}
		reqCopy := *req
		latest = &reqCopy
	})

	return latest, requestEntities
}

func (m *MusicSystem) applyRequest(player *component.MusicPlayer, req component.MusicRequest) {
	if player == nil {
		return
	}

	track := strings.TrimSpace(req.Track)
	volume := req.Volume
	if volume <= 0 {
		if v, ok := player.TrackVolumes[track]; ok && v > 0 {
			volume = v
		} else {
			volume = defaultMusicVolume
		}
	}
	if volume > 1 {
		volume = 1
	}
	loop := req.Loop
	fadeFrames := req.FadeOutFrames
	if fadeFrames <= 0 {
		fadeFrames = defaultMusicFadeFrames
	}

	if track == "" {
		player.PendingActive = false
		if m.currentPlayer(player) == nil {
			player.CurrentTrack = ""
			player.CurrentVolume = 0
			player.CurrentLoop = false
			return
		}
		player.PendingTrack = ""
		player.PendingVolume = 0
		player.PendingLoop = false
		player.PendingActive = true
		player.FadeStep = player.CurrentVolume / float64(fadeFrames)
		if player.FadeStep <= 0 {
			player.FadeStep = 1
		}
		return
	}

	currentPlayer := m.currentPlayer(player)
	if !player.PendingActive && player.CurrentTrack == track && currentPlayer != nil {
		player.CurrentVolume = volume
		player.CurrentLoop = loop
		currentPlayer.SetVolume(player.CurrentVolume * player.Gain)
		if !currentPlayer.IsPlaying() {
			_ = currentPlayer.Rewind()
			currentPlayer.Play()
		}
		return
	}

	player.PendingTrack = track
	player.PendingVolume = volume
	player.PendingLoop = loop
	player.PendingActive = true
	if currentPlayer == nil {
		m.switchToPending(player)
		return
	}

	player.FadeStep = player.CurrentVolume / float64(fadeFrames)
	if player.FadeStep <= 0 {
		player.FadeStep = 1
	}
}

func (m *MusicSystem) updateTransition(player *component.MusicPlayer) {
	if player == nil {
		return
	}

	currentPlayer := m.currentPlayer(player)
	if currentPlayer == nil {
		m.switchToPending(player)
		return
	}

	player.CurrentVolume -= player.FadeStep
	if player.CurrentVolume > 0 {
		currentPlayer.SetVolume(player.CurrentVolume * player.Gain)
		return
	}

	player.CurrentVolume = 0
	currentPlayer.SetVolume(0)
	currentPlayer.Pause()
	_ = currentPlayer.Rewind()
	player.CurrentTrack = ""
	player.CurrentLoop = false
	m.switchToPending(player)
}

func (m *MusicSystem) switchToPending(player *component.MusicPlayer) {
	if player == nil || !player.PendingActive {
		return
	}

	reqTrack := strings.TrimSpace(player.PendingTrack)
	reqVolume := player.PendingVolume
	reqLoop := player.PendingLoop

	player.PendingTrack = ""
	player.PendingVolume = 0
	player.PendingLoop = false
	player.PendingActive = false
	player.FadeStep = 0

	if reqTrack == "" {
		player.CurrentTrack = ""
		player.CurrentVolume = 0
		player.CurrentLoop = false
		return
	}

	audioPlayer, err := m.playerForTrack(player, reqTrack)
	if err != nil {
		m.log.Warn("load track", "track", reqTrack, "err", err)
		player.CurrentTrack = ""
		player.CurrentVolume = 0
		player.CurrentLoop = false
		return
	}

	player.CurrentTrack = reqTrack
	player.CurrentVolume = reqVolume
	player.CurrentLoop = reqLoop
	_ = audioPlayer.Rewind()
	audioPlayer.SetVolume(player.CurrentVolume * player.Gain)
	audioPlayer.Play()
}

func (m *MusicSystem) currentPlayer(player *component.MusicPlayer) component.Sound {
	if player == nil || strings.TrimSpace(player.CurrentTrack) == "" || player.Players == nil {
		return nil
	}
	audioPlayer, ok := player.Players[player.CurrentTrack]
	if !ok {
		return nil
	}
	return audioPlayer
}

func (m *MusicSystem) playerForTrack(player *component.MusicPlayer, track string) (component.Sound, error) {
	if player == nil {
		return nil, fmt.Errorf("music player component is nil")
	}
	if player.Players == nil {
		player.Players = make(map[string]component.Sound)
	}

	if existing, ok := player.Players[track]; ok && existing != nil {
		return existing, nil
	}

	audioPlayer, err := m.load(track)
	if err != nil {
		return nil, err
	}
	if audioPlayer == nil {
		return nil, fmt.Errorf("music: no player for %q", track)
	}
	player.Players[track] = audioPlayer
	return audioPlayer, nil
}
