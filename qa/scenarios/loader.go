// Package scenarios runs yaml-scripted scheduler scenarios end to end.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"
)

// RingDef overrides the ring layout for a scenario. Zero values fall back to
// the default layout.
type RingDef struct {
	Stations int      `yaml:"stations"`
	Vehicles []string `yaml:"vehicles"`
}

// CallDef is one "send vehicle to station" request.
type CallDef struct {
	Vehicle string `yaml:"vehicle"`
	Station int    `yaml:"station"`
}

// Expected describes the end state a scenario must reach.
type Expected struct {
	Positions map[string]int `yaml:"positions"`
	// MaxMoves bounds the number of executed moves; 0 means no bound.
	MaxMoves int `yaml:"max_moves,omitempty"`
	// Blocked marks scenarios that must end with the queue still pending.
	Blocked bool `yaml:"blocked,omitempty"`
}

type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Ring        RingDef        `yaml:"ring,omitempty"`
	Positions   map[string]int `yaml:"positions"`
	Calls       []CallDef      `yaml:"calls"`
	Expected    Expected       `yaml:"expected"`
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
