// Package ring models the closed loop of stations that vehicles travel.
// Stations use 1-based identifiers and wrap around in both directions.
package ring

import "fmt"

// Ring is a fixed cycle of n stations.
type Ring struct {
	n int
}

// New creates a Ring with n stations. n must be at least 2.
func New(n int) (Ring, error) {
	if n < 2 {
		return Ring{}, fmt.Errorf("ring needs at least 2 stations, got %d", n)
	}
	return Ring{n: n}, nil
}

// Size returns the number of stations.
func (r Ring) Size() int { return r.n }

// Contains reports whether s is a valid station identifier.
func (r Ring) Contains(s int) bool { return s >= 1 && s <= r.n }

// Next returns the successor station in travel direction.
func (r Ring) Next(s int) int { return (s % r.n) + 1 }

// Prev returns the predecessor station.
func (r Ring) Prev(s int) int { return ((s - 2 + r.n) % r.n) + 1 }

// Path returns the stations visited walking forward from "from" to "to",
// excluding "from" and including "to". An empty path means from == to.
func (r Ring) Path(from, to int) []int {
	var path []int
	for pos := from; pos != to; {
		pos = r.Next(pos)
		path = append(path, pos)
	}
	return path
}
