package canvas

import "github.com/ByLCY/vellum/geom"

// State is one entry of the state stack: translation and active clip, both in
// absolute (page) pixels.
type State struct {
	Translation geom.Point `json:"translation"`
	Clip        geom.Rect  `json:"clip"`
	Clipped     bool       `json:"clipped"`
}

// Stack tracks canvas state with strict LIFO save/restore.
type Stack struct {
	cur   State
	saved []State
}

// Current returns the active state.
func (s *Stack) Current() State { return s.cur }

// Depth returns the number of saved states.
func (s *Stack) Depth() int { return len(s.saved) }

// Push saves the active state.
func (s *Stack) Push() { s.saved = append(s.saved, s.cur) }

// Pop restores the last saved state. Unbalanced pops panic.
func (s *Stack) Pop() {
	if len(s.saved) == 0 {
		panic("canvas: PopState without matching PushState")
	}
	s.cur = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

// Translate offsets the active translation.
func (s *Stack) Translate(p geom.Point) { s.cur.Translation = s.cur.Translation.Add(p) }

// Clip intersects the active clip with r, given in local coordinates.
func (s *Stack) Clip(r geom.Rect) {
	abs := r.Offset(s.cur.Translation)
	if s.cur.Clipped {
		abs = s.cur.Clip.Intersect(abs)
	}
	s.cur.Clip = abs
	s.cur.Clipped = true
}
