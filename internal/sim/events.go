package sim

// OnCompletion registers fn to run each time a run reaches its target. The
// returned function removes the listener; calling it more than once is safe.
func (s *Session) OnCompletion(fn func(Snapshot)) (cancel func()) {
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	return func() {
		if _, ok := s.listeners[id]; !ok {
			return
		}
		delete(s.listeners, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	}
}

// emitCompletion calls listeners in registration order. Listeners may cancel
// themselves or register new ones; new ones fire on the next completion.
func (s *Session) emitCompletion(snap Snapshot) {
	ids := make([]int, len(s.order))
	copy(ids, s.order)
	for _, id := range ids {
		if fn, ok := s.listeners[id]; ok {
			fn(snap)
		}
	}
}
