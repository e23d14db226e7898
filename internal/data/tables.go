package data

import "fmt"

// Paths names the data files making up one prefab set.
type Paths struct {
	NpcList  string
	ItemList string
	Map      string
	Schema   string // optional; when set every file is validated first
}

// Tables bundles every static table the spawner needs.
type Tables struct {
	Npcs  *NpcTable
	Items *ItemTable
	Map   *MapFile
}

// LoadTables validates (when a schema is given) and loads all data files.
func LoadTables(p Paths) (*Tables, error) {
	if p.Schema != "" {
		v, err := NewValidator(p.Schema)
		if err != nil {
			return nil, err
		}
		for _, f := range []string{p.NpcList, p.ItemList, p.Map} {
			if err := v.ValidateFile(f); err != nil {
				return nil, err
			}
		}
	}
	npcs, err := LoadNpcTable(p.NpcList)
	if err != nil {
		return nil, err
	}
	items, err := LoadItemTable(p.ItemList)
	if err != nil {
		return nil, err
	}
	m, err := LoadMapFile(p.Map)
	if err != nil {
		return nil, err
	}
	t := &Tables{Npcs: npcs, Items: items, Map: m}
	if err := t.check(); err != nil {
		return nil, err
	}
	return t, nil
}

// check verifies cross-file references.
func (t *Tables) check() error {
	for _, key := range t.Npcs.order {
		npc := t.Npcs.prefabs[key]
		for _, item := range npc.Equipment {
			if _, err := t.Items.Get(item); err != nil {
				return fmt.Errorf("npc %q equipment: %w", key, err)
			}
		}
	}
	for _, s := range t.Map.NpcSpawns {
		if _, err := t.Npcs.Get(s.Key); err != nil {
			return fmt.Errorf("map npc_spawns: %w", err)
		}
	}
	for _, s := range t.Map.ItemSpawns {
		if _, err := t.Items.Get(s.Key); err != nil {
			return fmt.Errorf("map item_spawns: %w", err)
		}
	}
	return nil
}
