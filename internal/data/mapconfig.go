package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// MapConfig overrides the noise terrain parameters and map size.
// Zero fields keep the configured defaults.
type MapConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Octaves   int     `yaml:"octaves"`
	Gain      float64 `yaml:"gain"`
	Lacuna    float64 `yaml:"lacuna"`
	Frequency float64 `yaml:"frequency"`
}

// FixedSpawn places a prefab at a fixed tile after the town is populated.
// If the tile is not free, the nearest free walkable tile is used instead.
type FixedSpawn struct {
	Key string `yaml:"key"`
	X   int    `yaml:"x"`
	Y   int    `yaml:"y"`
}

// MapFile is the parsed map.yaml.
type MapFile struct {
	Map        MapConfig    `yaml:"map"`
	NpcSpawns  []FixedSpawn `yaml:"npc_spawns"`
	ItemSpawns []FixedSpawn `yaml:"item_spawns"`
}

// LoadMapFile loads map overrides and fixed spawns from a YAML file.
func LoadMapFile(path string) (*MapFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map: %w", err)
	}
	var f MapFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse map: %w", err)
	}
	return &f, nil
}
