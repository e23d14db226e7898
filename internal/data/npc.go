package data

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownPrefab is returned when a spawn tag or key has no prefab.
var ErrUnknownPrefab = errors.New("unknown prefab")

// NpcPrefab holds static data for an actor type loaded from YAML.
type NpcPrefab struct {
	Key          string              `yaml:"key"`
	Name         string              `yaml:"name"`
	Glyph        string              `yaml:"glyph"`
	AI           bool                `yaml:"ai"`
	Faction      string              `yaml:"faction"` // townsfolk, enemy
	Vendor       bool                `yaml:"vendor"`
	Combat       CombatPrefab        `yaml:"combat"`
	Equipment    []string            `yaml:"equipment"` // item keys worn at spawn
	Conversation *ConversationPrefab `yaml:"conversation"`
	Names        []string            `yaml:"names"` // random personal names, optional
}

type CombatPrefab struct {
	MaxHP   int `yaml:"max_hp"`
	HP      int `yaml:"hp"`
	Defense int `yaml:"defense"`
	Power   int `yaml:"power"`
}

type ConversationPrefab struct {
	Text    string   `yaml:"text"`
	Answers []string `yaml:"answers"`
}

type npcListFile struct {
	Npcs []NpcPrefab `yaml:"npcs"`
}

// NpcTable holds all actor prefabs indexed by key.
type NpcTable struct {
	prefabs map[string]*NpcPrefab
	order   []string
}

// LoadNpcTable loads actor prefabs from a YAML file.
func LoadNpcTable(path string) (*NpcTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc_list: %w", err)
	}
	var f npcListFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse npc_list: %w", err)
	}
	t := &NpcTable{prefabs: make(map[string]*NpcPrefab, len(f.Npcs))}
	for i := range f.Npcs {
		npc := &f.Npcs[i]
		if _, dup := t.prefabs[npc.Key]; dup {
			return nil, fmt.Errorf("npc_list: duplicate key %q", npc.Key)
		}
		t.prefabs[npc.Key] = npc
		t.order = append(t.order, npc.Key)
	}
	return t, nil
}

// Get returns the prefab for key, wrapping ErrUnknownPrefab when missing.
func (t *NpcTable) Get(key string) (*NpcPrefab, error) {
	p, ok := t.prefabs[key]
	if !ok {
		return nil, fmt.Errorf("npc %q: %w", key, ErrUnknownPrefab)
	}
	return p, nil
}

// Keys returns prefab keys in file order.
func (t *NpcTable) Keys() []string {
	return append([]string(nil), t.order...)
}

func (t *NpcTable) Count() int {
	return len(t.prefabs)
}
