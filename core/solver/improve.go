package solver

import "time"

// improve runs 2-opt passes over every route until no pass improves total
// distance or the deadline expires. A reversal is only kept when the
// rescheduled route still honours every time window.
func (s *Solver) improve(sol *Solution, p Problem, deadline time.Time) {
	for {
		improved := false
		for v := range sol.Routes {
			if time.Now().After(deadline) {
				return
			}
			if s.improveRoute(&sol.Routes[v], p) {
				improved = true
			}
		}
		if !improved {
			return
		}
	}
}

// improveRoute applies one full 2-opt sweep to a single route.
func (s *Solver) improveRoute(r *Route, p Problem) bool {
	n := len(r.Nodes)
	if n < 3 {
		return false
	}
	start := p.Depots[r.Vehicle]
	improved := false
	for i := 0; i < n-1; i++ {
		for k := i + 1; k < n; k++ {
			cand := twoOptSwap(r.Nodes, i, k)
			dist, dur, ok := s.schedule(p, start, cand)
			if !ok {
				continue
			}
			if dist+1e-6 < r.DistanceKm {
				r.Nodes = cand
				r.DistanceKm = dist
				r.TimeMin = dur
				improved = true
			}
		}
	}
	return improved
}

// twoOptSwap reverses the segment [i, k] of the node order.
func twoOptSwap(nodes []int, i, k int) []int {
	out := make([]int, len(nodes))
	copy(out, nodes[:i])
	pos := i
	for j := k; j >= i; j-- {
		out[pos] = nodes[j]
		pos++
	}
	copy(out[pos:], nodes[k+1:])
	return out
}

// schedule simulates the route from the depot through the given node order
// and back, returning total distance and duration. ok is false when any
// window, leg cap or the horizon is violated.
func (s *Solver) schedule(p Problem, start int, nodes []int) (distKm, durMin float64, ok bool) {
	cur := start
	clock := 0.0
	for _, j := range nodes {
		arrival, feasible := s.feasibleArrival(p, cur, j, clock)
		if !feasible {
			return 0, 0, false
		}
		distKm += p.Dist.At(cur, j)
		clock = arrival
		cur = j
	}
	distKm += p.Dist.At(cur, start)
	clock += p.Time.At(cur, start)
	if clock > float64(s.cfg.HorizonMin) {
		return 0, 0, false
	}
	return distKm, clock, true
}
