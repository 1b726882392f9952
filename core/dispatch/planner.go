package dispatch

// move is a single-step recommendation produced by the selector.
type move struct {
	vehicle string
	to      int
}

// nextMove picks at most one ring-wide move, honoring FIFO order of the
// request queue. Requests whose vehicle already sits on its target are
// dropped from the head before a move is selected. Callers must hold s.mu.
func (s *Scheduler) nextMove() *move {
	for len(s.queue) > 0 {
		head := s.queue[0]
		v := s.vehicles[head.Vehicle]
		if v.currentStation == head.Target {
			s.queue = s.queue[1:]
			continue
		}
		if v.currentStation == 0 {
			s.log.Errorf("vehicle %s has no current position", head.Vehicle)
			return nil
		}
		return s.chainMove(head.Vehicle)
	}
	return nil
}

// chainMove finds a forward move for the given vehicle. When the successor
// slot is occupied, attention shifts to the blocking vehicle: it must be
// pushed out of the way first. The chain is followed for at most one lap;
// with fewer vehicles than stations a free slot always exists, but a
// visited guard keeps a corrupted model from looping forever.
func (s *Scheduler) chainMove(vehicle string) *move {
	visited := make(map[string]bool, len(s.vehicles))
	cur := vehicle
	for hop := 0; hop < s.ring.Size(); hop++ {
		if visited[cur] {
			return nil
		}
		visited[cur] = true
		next := s.ring.Next(s.vehicles[cur].currentStation)
		blocker := s.occupants[next-1]
		if blocker == "" {
			return &move{vehicle: cur, to: next}
		}
		cur = blocker
	}
	return nil
}
