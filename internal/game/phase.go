package game

// phaseState is the active phase plus the data it needs to resume the round
// it governs. Which fields are meaningful depends on kind:
//
//	Gathering  nothing
//	Turns      setup, timer (round timer, nil when unbounded)
//	Judgement  setup, timer (pending next step), winner, concluded
//	Finished   setup, winner (overall winner)
type phaseState struct {
	kind      Phase
	setup     SetupCard
	timer     *timer
	winner    *Player
	concluded bool
}

var transitions = map[Phase][]Phase{
	PhaseGathering: {PhaseTurns},
	PhaseTurns:     {PhaseJudgement},
	PhaseJudgement: {PhaseTurns, PhaseFinished, PhaseGathering},
	PhaseFinished:  {PhaseTurns, PhaseGathering},
}

// CanTransitionTo reports whether the lobby may move from p to target.
func (p Phase) CanTransitionTo(target Phase) bool {
	for _, next := range transitions[p] {
		if next == target {
			return true
		}
	}
	return false
}

func (p Phase) String() string {
	return string(p)
}

// transitTo replaces the active phase. Any timer owned by the outgoing phase
// is cancelled first so it cannot act on the new one.
func (l *Lobby) transitTo(next phaseState) error {
	from := l.phase.kind
	if !from.CanTransitionTo(next.kind) {
		return unsupported(from, "transit to "+string(next.kind))
	}
	l.phase.timer.cancel()
	l.phase = next
	l.log.Info().Str("from", string(from)).Str("to", string(next.kind)).Int("round", l.round).Msg("phase transition")
	return nil
}
