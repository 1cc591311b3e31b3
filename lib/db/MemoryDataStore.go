package db

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
)

type MemoryDataStore struct {
	mu           sync.RWMutex
	changeStore  map[string]change.Definition
	changeOrder  []string
	variantStore map[string]variant.SelectionSet
}

func NewMemoryDataStore() *MemoryDataStore {
	return &MemoryDataStore{
		changeStore:  make(map[string]change.Definition),
		variantStore: make(map[string]variant.SelectionSet),
	}
}

// copyDefinition detaches the content and text maps so callers cannot modify
// stored records in place.
func copyDefinition(def change.Definition) (change.Definition, error) {
	raw, err := json.Marshal(def)
	if err != nil {
		return change.Definition{}, err
	}
	var copied change.Definition
	if err := json.Unmarshal(raw, &copied); err != nil {
		return change.Definition{}, err
	}
	return copied, nil
}

func (m *MemoryDataStore) GetChanges(_ context.Context, reference string) ([]change.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	definitions := make([]change.Definition, 0)
	for _, id := range m.changeOrder {
		def := m.changeStore[id]
		if def.Reference != reference {
			continue
		}
		copied, err := copyDefinition(def)
		if err != nil {
			return nil, err
		}
		definitions = append(definitions, copied)
	}
	return definitions, nil
}

func (m *MemoryDataStore) GetChange(_ context.Context, id string) (*change.Definition, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	def, ok := m.changeStore[id]
	if !ok {
		return nil, ErrChangeNotFound
	}
	copied, err := copyDefinition(def)
	if err != nil {
		return nil, err
	}
	return &copied, nil
}

func (m *MemoryDataStore) SaveChange(_ context.Context, def change.Definition) error {
	if err := validateDefinition(def); err != nil {
		return err
	}
	copied, err := copyDefinition(def)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.changeStore[def.FileName]; !exists {
		m.changeOrder = append(m.changeOrder, def.FileName)
	}
	m.changeStore[def.FileName] = copied
	return nil
}

func (m *MemoryDataStore) RemoveChange(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.changeStore[id]; !ok {
		return ErrChangeNotFound
	}
	delete(m.changeStore, id)
	for i, existing := range m.changeOrder {
		if existing == id {
			m.changeOrder = append(m.changeOrder[:i], m.changeOrder[i+1:]...)
			break
		}
	}
	return nil
}

func copySelectionSet(set variant.SelectionSet) variant.SelectionSet {
	copied := make(variant.SelectionSet, len(set))
	for id, group := range set {
		g := *group
		g.Variants = append([]variant.Variant(nil), group.Variants...)
		copied[id] = &g
	}
	return copied
}

func (m *MemoryDataStore) GetVariants(_ context.Context, reference string) (variant.SelectionSet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set, ok := m.variantStore[reference]
	if !ok {
		return variant.SelectionSet{}, nil
	}
	return copySelectionSet(set), nil
}

func (m *MemoryDataStore) SaveVariants(_ context.Context, reference string, set variant.SelectionSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variantStore[reference] = copySelectionSet(set)
	return nil
}

func (m *MemoryDataStore) Ping(context.Context) error {
	return nil
}

func (m *MemoryDataStore) Close() error {
	return nil
}

var _ DataStore = (*MemoryDataStore)(nil)
