package data

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	npcPath    = "../../data/yaml/npc_list.yaml"
	itemPath   = "../../data/yaml/item_list.yaml"
	mapPath    = "../../data/yaml/map.yaml"
	schemaPath = "../../schemas/prefabs.schema.json"
)

func shippedPaths() Paths {
	return Paths{NpcList: npcPath, ItemList: itemPath, Map: mapPath, Schema: schemaPath}
}

func TestLoadShippedTables(t *testing.T) {
	tables, err := LoadTables(shippedPaths())
	require.NoError(t, err)

	assert.Equal(t, []string{"thug", "barkeep", "patron"}, tables.Npcs.Keys())
	thug, err := tables.Npcs.Get("thug")
	require.NoError(t, err)
	assert.Equal(t, "enemy", thug.Faction)
	assert.True(t, thug.AI)
	assert.Equal(t, 10, thug.Combat.HP)
	assert.Equal(t, []string{"boots", "leather_jacket", "jeans"}, thug.Equipment)

	barkeep, err := tables.Npcs.Get("barkeep")
	require.NoError(t, err)
	assert.True(t, barkeep.Vendor)
	assert.False(t, barkeep.AI)

	patron, err := tables.Npcs.Get("patron")
	require.NoError(t, err)
	require.NotNil(t, patron.Conversation)
	assert.Equal(t, "Hola, tio!", patron.Conversation.Text)

	boots, err := tables.Items.Get("boots")
	require.NoError(t, err)
	assert.Equal(t, "feet", boots.Slot)
	assert.InDelta(t, 0.15, boots.DefenseBonus, 1e-9)

	assert.Equal(t, 80, tables.Map.Map.Width)
	assert.Equal(t, 5, tables.Map.Map.Octaves)
	require.Len(t, tables.Map.NpcSpawns, 1)
	assert.Equal(t, FixedSpawn{Key: "thug", X: 5, Y: 5}, tables.Map.NpcSpawns[0])
}

func TestUnknownPrefab(t *testing.T) {
	tables, err := LoadTables(shippedPaths())
	require.NoError(t, err)

	_, err = tables.Npcs.Get("dragon")
	assert.ErrorIs(t, err, ErrUnknownPrefab)
	_, err = tables.Items.Get("sword")
	assert.ErrorIs(t, err, ErrUnknownPrefab)
}

func TestValidatorRejectsBadData(t *testing.T) {
	v, err := NewValidator(schemaPath)
	require.NoError(t, err)

	cases := []struct {
		name string
		doc  string
	}{
		{"unknown faction", "npcs:\n  - {key: x, name: x, faction: pirates, combat: {max_hp: 1, hp: 1}}\n"},
		{"missing combat", "npcs:\n  - {key: x, name: x, faction: enemy}\n"},
		{"bad slot", "items:\n  - {key: hat, name: hat, slot: head}\n"},
		{"unknown top-level key", "monsters: []\n"},
		{"tiny map", "map: {width: 4, height: 4}\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, v.Validate([]byte(tc.doc)))
		})
	}

	assert.NoError(t, v.Validate([]byte("items:\n  - {key: hat, name: hat, slot: torso, defense_bonus: 0.05}\n")))
}

func TestLoadTablesDanglingEquipment(t *testing.T) {
	dir := t.TempDir()
	npcs := filepath.Join(dir, "npc_list.yaml")
	require.NoError(t, os.WriteFile(npcs, []byte(
		"npcs:\n  - {key: thug, name: thug, faction: enemy, combat: {max_hp: 1, hp: 1}, equipment: [cape]}\n"), 0o644))

	_, err := LoadTables(Paths{NpcList: npcs, ItemList: itemPath, Map: mapPath, Schema: schemaPath})
	assert.ErrorIs(t, err, ErrUnknownPrefab)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadNpcTable(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
