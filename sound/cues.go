// Package sound synthesizes the game's cues. Nothing is loaded from disk;
// every clip is built from oscillators and rendered to PCM once.
package sound

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/milk9111/slingshot/session"
)

// SampleRate matches the ebiten audio context.
const SampleRate beep.SampleRate = 44100

// Synthesize builds the streamer for cue. Unknown cues are an error.
func Synthesize(cue session.Cue, rate beep.SampleRate) (beep.Streamer, error) {
	switch cue {
	case session.CueSlingshot:
		// Rubber twang: a falling saw over a short burst of noise.
		d := 260 * time.Millisecond
		return beep.Mix(
			gain(Envelope(Sweep(420, 140, d, WaveSaw, rate), d, 4*time.Millisecond, 200*time.Millisecond, rate), 0.5),
			gain(Envelope(Tone(0, 60*time.Millisecond, WaveNoise, rate), 60*time.Millisecond, time.Millisecond, 50*time.Millisecond, rate), 0.25),
		), nil

	case session.CueWoodSmash:
		d := 180 * time.Millisecond
		return beep.Mix(
			gain(Envelope(Tone(0, d, WaveNoise, rate), d, 2*time.Millisecond, 150*time.Millisecond, rate), 0.45),
			gain(Envelope(Sweep(160, 70, d, WaveSquare, rate), d, 2*time.Millisecond, 140*time.Millisecond, rate), 0.3),
		), nil

	case session.CueWin:
		// C major arpeggio.
		step := 120 * time.Millisecond
		return gain(beep.Seq(
			note(523.25, step, WaveTriangle, rate),
			note(659.25, step, WaveTriangle, rate),
			note(783.99, step, WaveTriangle, rate),
			note(1046.5, 3*step, WaveTriangle, rate),
		), 0.6), nil

	case session.CueLose:
		step := 220 * time.Millisecond
		return gain(beep.Seq(
			note(392, step, WaveSquare, rate),
			note(349.23, step, WaveSquare, rate),
			Envelope(Sweep(311.13, 220, 2*step, WaveSquare, rate), 2*step, 5*time.Millisecond, step, rate),
		), 0.35), nil

	case session.CueScore:
		step := 70 * time.Millisecond
		return gain(beep.Seq(
			note(987.77, step, WaveSine, rate),
			note(1318.51, 2*step, WaveSine, rate),
		), 0.5), nil

	case session.CueExplosion:
		d := 600 * time.Millisecond
		return beep.Mix(
			gain(Envelope(Tone(0, d, WaveNoise, rate), d, 3*time.Millisecond, 520*time.Millisecond, rate), 0.6),
			gain(Envelope(Sweep(90, 30, d, WaveSine, rate), d, 3*time.Millisecond, 450*time.Millisecond, rate), 0.7),
		), nil
	}
	return nil, fmt.Errorf("sound: unknown cue %q", cue)
}

// Render drains s into interleaved 16-bit little-endian stereo PCM, the
// format ebiten audio players take.
func Render(s beep.Streamer) []byte {
	var out []byte
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, frame := range buf[:n] {
			for _, v := range frame {
				out = binary.LittleEndian.AppendUint16(out, uint16(toInt16(v)))
			}
		}
		if !ok {
			return out
		}
	}
}

func toInt16(v float64) int16 {
	v = math.Max(-1, math.Min(1, v))
	return int16(math.Round(v * math.MaxInt16))
}

// Clip is a rendered cue.
type Clip struct {
	Cue      session.Cue
	PCM      []byte
	Duration time.Duration
}

// RenderAll synthesizes every session cue at rate.
func RenderAll(rate beep.SampleRate) (map[session.Cue]Clip, error) {
	clips := make(map[session.Cue]Clip, len(session.Cues))
	for _, cue := range session.Cues {
		s, err := Synthesize(cue, rate)
		if err != nil {
			return nil, err
		}
		pcm := Render(s)
		clips[cue] = Clip{Cue: cue, PCM: pcm, Duration: rate.D(len(pcm) / 4)}
	}
	return clips, nil
}
