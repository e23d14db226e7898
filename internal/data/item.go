package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ItemPrefab holds static data for an equippable item.
type ItemPrefab struct {
	Key          string  `yaml:"key"`
	Name         string  `yaml:"name"`
	Glyph        string  `yaml:"glyph"`
	Slot         string  `yaml:"slot"` // melee, torso, legs, feet
	DefenseBonus float64 `yaml:"defense_bonus"`
	MeleeBonus   int     `yaml:"melee_bonus"`
}

type itemListFile struct {
	Items []ItemPrefab `yaml:"items"`
}

// ItemTable holds all item prefabs indexed by key.
type ItemTable struct {
	prefabs map[string]*ItemPrefab
}

// LoadItemTable loads item prefabs from a YAML file.
func LoadItemTable(path string) (*ItemTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item_list: %w", err)
	}
	var f itemListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse item_list: %w", err)
	}
	t := &ItemTable{prefabs: make(map[string]*ItemPrefab, len(f.Items))}
	for i := range f.Items {
		it := &f.Items[i]
		t.prefabs[it.Key] = it
	}
	return t, nil
}

// Get returns the prefab for key, wrapping ErrUnknownPrefab when missing.
func (t *ItemTable) Get(key string) (*ItemPrefab, error) {
	p, ok := t.prefabs[key]
	if !ok {
		return nil, fmt.Errorf("item %q: %w", key, ErrUnknownPrefab)
	}
	return p, nil
}

func (t *ItemTable) Count() int {
	return len(t.prefabs)
}
