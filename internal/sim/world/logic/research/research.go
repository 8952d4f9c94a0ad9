package research

import (
	"battlecode.ai/internal/sim/tuning"
	"battlecode.ai/internal/sim/unit"
)

// Info is one team's research state: completed levels per branch, the queue of
// branches still to research, and the countdown for the head of the queue.
type Info struct {
	Levels     map[unit.Type]int `json:"levels"`
	Queue      []unit.Type       `json:"queue"`
	RoundsLeft int               `json:"rounds_left"`
}

func NewInfo() Info {
	return Info{Levels: map[unit.Type]int{}, Queue: []unit.Type{}}
}

func (r Info) Clone() Info {
	c := Info{
		Levels:     make(map[unit.Type]int, len(r.Levels)),
		Queue:      append([]unit.Type{}, r.Queue...),
		RoundsLeft: r.RoundsLeft,
	}
	for k, v := range r.Levels {
		c.Levels[k] = v
	}
	return c
}

func (r Info) Level(t unit.Type) int { return r.Levels[t] }

// CanQueue reports whether another level of branch t exists beyond those
// already completed or queued.
func (r Info) CanQueue(t unit.Type, tu *tuning.Tuning) bool {
	return r.levelAfterQueue(t) < len(tu.Research.ByName(t.String()))
}

// Add appends branch t to the queue. It reports false when the branch is exhausted.
func (r *Info) Add(t unit.Type, tu *tuning.Tuning) bool {
	if !r.CanQueue(t, tu) {
		return false
	}
	r.Queue = append(r.Queue, t)
	if len(r.Queue) == 1 {
		r.RoundsLeft = r.roundsFor(t, r.Level(t), tu)
	}
	return true
}

// Reset drops the queue and any progress on its head.
func (r *Info) Reset() {
	r.Queue = r.Queue[:0]
	r.RoundsLeft = 0
}

// RoundsLeftFor is the number of rounds until the next queued level of t
// completes, counting every branch ahead of it.
func (r Info) RoundsLeftFor(t unit.Type, tu *tuning.Tuning) (int, bool) {
	if len(r.Queue) == 0 {
		return 0, false
	}
	total := r.RoundsLeft
	if r.Queue[0] == t {
		return total, true
	}
	pending := map[unit.Type]int{r.Queue[0]: 1}
	for _, q := range r.Queue[1:] {
		total += r.roundsFor(q, r.Level(q)+pending[q], tu)
		if q == t {
			return total, true
		}
		pending[q]++
	}
	return 0, false
}

// NextRound advances the head of the queue. When it completes it returns the
// finished branch and starts the countdown for the next one.
func (r *Info) NextRound(tu *tuning.Tuning) (unit.Type, bool) {
	if len(r.Queue) == 0 {
		return 0, false
	}
	r.RoundsLeft--
	if r.RoundsLeft > 0 {
		return 0, false
	}
	done := r.Queue[0]
	r.Queue = append(r.Queue[:0:0], r.Queue[1:]...)
	r.Levels[done]++
	r.RoundsLeft = 0
	if len(r.Queue) > 0 {
		next := r.Queue[0]
		r.RoundsLeft = r.roundsFor(next, r.Level(next), tu)
	}
	return done, true
}

func (r Info) levelAfterQueue(t unit.Type) int {
	n := r.Level(t)
	for _, q := range r.Queue {
		if q == t {
			n++
		}
	}
	return n
}

func (r Info) roundsFor(t unit.Type, level int, tu *tuning.Tuning) int {
	ladder := tu.Research.ByName(t.String())
	if level < 0 || level >= len(ladder) {
		return 0
	}
	return ladder[level].Rounds
}
