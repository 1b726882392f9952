package dispatch

import "fmt"

// Config defines the ring layout and planning parameters.
type Config struct {
	// Stations is the number of stations on the ring.
	Stations int `json:"stations"`
	// Vehicles lists the configured vehicle identifiers.
	Vehicles []string `json:"vehicles"`
	// LookaheadMoves caps the number of moves projected by LookAhead.
	LookaheadMoves int `json:"lookahead_moves"`
}

// SetDefaults applies the default four-station, three-vehicle layout.
func (c *Config) SetDefaults() {
	if c.Stations == 0 {
		c.Stations = 4
	}
	if len(c.Vehicles) == 0 {
		c.Vehicles = []string{"a", "b", "c"}
	}
	if c.LookaheadMoves == 0 {
		c.LookaheadMoves = 10
	}
}

// Validate checks the layout. There must always be fewer vehicles than
// stations so that at least one slot stays empty.
func (c Config) Validate() error {
	if c.Stations < 2 {
		return fmt.Errorf("stations must be at least 2, got %d", c.Stations)
	}
	if len(c.Vehicles) == 0 {
		return fmt.Errorf("at least one vehicle is required")
	}
	if len(c.Vehicles) >= c.Stations {
		return fmt.Errorf("%d vehicles do not fit %d stations with a free slot", len(c.Vehicles), c.Stations)
	}
	seen := make(map[string]bool, len(c.Vehicles))
	for _, id := range c.Vehicles {
		if id == "" {
			return fmt.Errorf("empty vehicle id")
		}
		if seen[id] {
			return fmt.Errorf("duplicate vehicle id %q", id)
		}
		seen[id] = true
	}
	if c.LookaheadMoves < 0 {
		return fmt.Errorf("lookahead_moves must not be negative")
	}
	return nil
}
