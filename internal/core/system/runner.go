package system

// Runner executes systems in phase order each turn. Systems are bucketed by
// phase at registration so a single-phase pass only touches its bucket.
type Runner struct {
	phases [phaseCount][]System
}

func NewRunner() *Runner {
	return &Runner{}
}

// Register adds s to its phase bucket. It panics on a phase outside the
// known range, which is a wiring error.
func (r *Runner) Register(s System) {
	p := s.Phase()
	if p < 0 || p >= phaseCount {
		panic("system: register with unknown phase " + p.String())
	}
	r.phases[p] = append(r.phases[p], s)
}

// Len returns the number of registered systems.
func (r *Runner) Len() int {
	n := 0
	for _, bucket := range r.phases {
		n += len(bucket)
	}
	return n
}

// Tick runs one full turn: every registered system, lowest phase first.
// Systems sharing a phase run in registration order.
func (r *Runner) Tick() {
	for p := Phase(0); p < phaseCount; p++ {
		r.TickPhase(p)
	}
}

// TickPhase runs only the systems of the given phase. Wait and rest use it
// to drive agent passes without touching survival or the calendar.
func (r *Runner) TickPhase(phase Phase) {
	if phase < 0 || phase >= phaseCount {
		return
	}
	for _, s := range r.phases[phase] {
		s.Update()
	}
}
