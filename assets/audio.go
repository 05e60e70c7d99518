package assets

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/slingshot/session"
	"github.com/milk9111/slingshot/sound"
)

var (
	audioOnce    sync.Once
	audioContext *audio.Context
)

// AudioContext returns the process-wide ebiten audio context. Ebiten allows
// only one, so it is created on first use.
func AudioContext() *audio.Context {
	audioOnce.Do(func() {
		audioContext = audio.NewContext(int(sound.SampleRate))
	})
	return audioContext
}

// CuePlayer plays the synthesized session cues. It is a session.Listener.
// Playback problems are logged and otherwise ignored.
type CuePlayer struct {
	logger  *log.Logger
	players map[session.Cue]*audio.Player
	volume  float64
	mute    bool
}

func NewCuePlayer(logger *log.Logger, volume float64, mute bool) *CuePlayer {
	c := &CuePlayer{
		logger:  logger.WithPrefix("audio"),
		players: make(map[session.Cue]*audio.Player),
		volume:  volume,
		mute:    mute,
	}

	clips, err := sound.RenderAll(sound.SampleRate)
	if err != nil {
		c.logger.Error("synthesize cues", "err", err)
		return c
	}
	ctx := AudioContext()
	for cue, clip := range clips {
		c.players[cue] = ctx.NewPlayerFromBytes(clip.PCM)
	}
	c.logger.Debug("cues ready", "count", len(c.players))
	return c
}

func (c *CuePlayer) OnSignal(sig session.Signal) {
	if sig.Kind == session.SignalCue {
		c.Play(sig.Cue)
	}
}

// Play restarts cue from the beginning.
func (c *CuePlayer) Play(cue session.Cue) {
	if c == nil || c.mute {
		return
	}
	p, ok := c.players[cue]
	if !ok {
		c.logger.Warn("no player for cue", "cue", cue)
		return
	}
	p.SetVolume(c.volume)
	if err := p.Rewind(); err != nil {
		c.logger.Warn("rewind", "cue", cue, "err", err)
		return
	}
	p.Play()
}

func (c *CuePlayer) SetVolume(v float64) {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.volume = v
}

func (c *CuePlayer) Volume() float64 { return c.volume }

// ToggleMute flips muting and stops anything currently playing when muting.
func (c *CuePlayer) ToggleMute() bool {
	c.mute = !c.mute
	if c.mute {
		for _, p := range c.players {
			if p.IsPlaying() {
				p.Pause()
			}
		}
	}
	return c.mute
}

func (c *CuePlayer) Muted() bool { return c.mute }

// Close releases every player.
func (c *CuePlayer) Close() {
	for cue, p := range c.players {
		if err := p.Close(); err != nil {
			c.logger.Warn("close player", "cue", cue, "err", err)
		}
	}
	c.players = map[session.Cue]*audio.Player{}
}
