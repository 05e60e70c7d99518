package session

// Outcome is the latched result of a session.
type Outcome uint8

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "none"
	}
}

// scoreboard accumulates points and holds the outcome. The outcome moves off
// OutcomeNone once and never again.
type scoreboard struct {
	score   int
	outcome Outcome
}

func (b *scoreboard) add(points int) int {
	b.score += points
	return b.score
}

func (b *scoreboard) latch(o Outcome) bool {
	if b.outcome != OutcomeNone || o == OutcomeNone {
		return false
	}
	b.outcome = o
	return true
}

// award adds points and tells the presentation where to float them.
func (s *Session) award(points int, x, y float64) {
	if points == 0 {
		return
	}
	total := s.board.add(points)
	s.logger.Debug("score", "points", points, "total", total)
	s.emit(Signal{Kind: SignalScore, Points: points, X: x, Y: y})
	s.cue(CueScore)
}

// winBonus is what the remaining projectiles are worth.
func (s *Session) winBonus() int {
	return s.projectiles * s.bp.Tuning.ProjectileBonus
}

func (s *Session) raiseOutcome(o Outcome) {
	if !s.board.latch(o) {
		return
	}
	s.logger.Info("level finished", "level", s.bp.ID, "outcome", o, "score", s.board.score)
	switch o {
	case OutcomeWon:
		s.cue(CueWin)
	case OutcomeLost:
		s.cue(CueLose)
	}
	s.emit(Signal{Kind: SignalOutcome, Outcome: o})
}

// raiseLoss runs on entry to idle. Loss needs targets standing and nothing
// left to throw.
func (s *Session) raiseLoss() {
	if s.targets > 0 && s.projectiles == 0 && s.active == 0 {
		s.raiseOutcome(OutcomeLost)
	}
}

// ParseOutcome is the inverse of Outcome.String.
func ParseOutcome(s string) Outcome {
	switch s {
	case "won":
		return OutcomeWon
	case "lost":
		return OutcomeLost
	default:
		return OutcomeNone
	}
}
