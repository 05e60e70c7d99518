package session

import "time"

// Cue names a sound the front-end plays.
type Cue string

const (
	CueSlingshot Cue = "slingshot"
	CueWoodSmash Cue = "woodSmash"
	CueWin       Cue = "win"
	CueLose      Cue = "lose"
	CueScore     Cue = "score"
	CueExplosion Cue = "explosion"
)

// Cues lists every cue the session can raise.
var Cues = []Cue{CueSlingshot, CueWoodSmash, CueWin, CueLose, CueScore, CueExplosion}

type SignalKind uint8

const (
	SignalCue SignalKind = iota + 1
	SignalScore
	SignalOutcome
	SignalShake
	SignalText
)

func (k SignalKind) String() string {
	switch k {
	case SignalCue:
		return "cue"
	case SignalScore:
		return "score"
	case SignalOutcome:
		return "outcome"
	case SignalShake:
		return "shake"
	case SignalText:
		return "text"
	default:
		return "unknown"
	}
}

// Signal is a notification from the session to its presentation. Only the
// fields relevant to Kind are set.
type Signal struct {
	Kind SignalKind    `msgpack:"kind"`
	At   time.Duration `msgpack:"at"`

	Cue Cue `msgpack:"cue,omitempty"`

	// Score: points awarded and where to float the text.
	Points int     `msgpack:"points,omitempty"`
	X      float64 `msgpack:"x,omitempty"`
	Y      float64 `msgpack:"y,omitempty"`

	Outcome Outcome `msgpack:"outcome,omitempty"`

	Text string `msgpack:"text,omitempty"`

	// Shake: how long and how hard.
	Duration  time.Duration `msgpack:"duration,omitempty"`
	Magnitude float64       `msgpack:"magnitude,omitempty"`
}

type Listener interface {
	OnSignal(Signal)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Signal)

func (f ListenerFunc) OnSignal(sig Signal) { f(sig) }

const (
	blastShakeDuration  = 400 * time.Millisecond
	blastShakeMagnitude = 25
)

func (s *Session) emit(sig Signal) {
	sig.At = s.now
	s.journal = append(s.journal, sig)
	if s.listener != nil {
		s.listener.OnSignal(sig)
	}
}

func (s *Session) cue(c Cue) {
	s.emit(Signal{Kind: SignalCue, Cue: c})
}
