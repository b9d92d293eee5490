package aeno

import "math"

type LoopMode int

const (
	LoopRepeat LoopMode = iota
	LoopOnce
)

type binding struct {
	track  *Track
	target *Object
}

// Action plays one clip on the objects below a mixer root
type Action struct {
	Clip      *Clip
	TimeScale float64
	Loop      LoopMode
	time      float64
	running   bool
	bindings  []binding
}

// Play starts the action from its current time
func (a *Action) Play() *Action {
	a.running = true
	return a
}

// Stop halts the action and rewinds it
func (a *Action) Stop() *Action {
	a.running = false
	a.time = 0
	return a
}

func (a *Action) IsRunning() bool {
	return a.running
}

// Time is the local clip time
func (a *Action) Time() float64 {
	return a.time
}

func (a *Action) advance(dt float64) {
	if !a.running {
		return
	}
	a.time += dt * a.TimeScale
	d := a.Clip.Duration
	if d > 0 {
		switch a.Loop {
		case LoopRepeat:
			if a.time >= d || a.time < 0 {
				a.time = math.Mod(a.time, d)
				if a.time < 0 {
					a.time += d
				}
			}
		case LoopOnce:
			if a.time >= d {
				a.time = d
				a.running = false
			} else if a.time < 0 {
				a.time = 0
				a.running = false
			}
		}
	}
	for _, b := range a.bindings {
		b.track.apply(b.target, a.time)
	}
}

// Mixer advances the actions of one animated subtree.
// TimeScale multiplies every elapsed time passed to Update.
type Mixer struct {
	Root      *Object
	TimeScale float64
	time      float64
	actions   []*Action
}

func NewMixer(root *Object) *Mixer {
	return &Mixer{Root: root, TimeScale: 1}
}

// SetTimeScale clamps negative values to zero
func (m *Mixer) SetTimeScale(s float64) {
	if s < 0 || math.IsNaN(s) {
		s = 0
	}
	m.TimeScale = s
}

// Time is the accumulated scaled time
func (m *Mixer) Time() float64 {
	return m.time
}

// ClipAction returns the action for clip, creating it on first use.
// Tracks whose object is not found below Root are left unbound.
func (m *Mixer) ClipAction(clip *Clip) *Action {
	for _, a := range m.actions {
		if a.Clip == clip {
			return a
		}
	}
	a := &Action{Clip: clip, TimeScale: 1}
	for _, t := range clip.Tracks {
		if target := m.Root.ObjectByName(t.Node); target != nil {
			a.bindings = append(a.bindings, binding{track: t, target: target})
		}
	}
	m.actions = append(m.actions, a)
	return a
}

func (m *Mixer) Actions() []*Action {
	return m.actions
}

// Update advances by dt seconds of wall time
func (m *Mixer) Update(dt float64) {
	dt *= m.TimeScale
	m.time += dt
	for _, a := range m.actions {
		a.advance(dt)
	}
}
