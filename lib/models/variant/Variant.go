package variant

import (
	"sort"

	"github.com/ether/uiflex-go/lib/models/change"
)

type Variant struct {
	Key      string       `json:"key" yaml:"key"`
	Title    string       `json:"title" yaml:"title"`
	Author   string       `json:"author" yaml:"author"`
	Layer    change.Layer `json:"layer" yaml:"layer"`
	Favorite bool         `json:"favorite" yaml:"favorite"`
	Visible  bool         `json:"visible" yaml:"visible"`
}

// Group is the state of one variant management control.
type Group struct {
	DefaultVariant         string    `json:"defaultVariant" yaml:"defaultVariant"`
	OriginalDefaultVariant string    `json:"originalDefaultVariant" yaml:"originalDefaultVariant"`
	CurrentVariant         string    `json:"currentVariant,omitempty" yaml:"currentVariant,omitempty"`
	Variants               []Variant `json:"variants" yaml:"variants"`
}

func (g *Group) Current() string {
	if g.CurrentVariant != "" {
		return g.CurrentVariant
	}
	return g.DefaultVariant
}

func (g *Group) HasVariant(key string) bool {
	for _, v := range g.Variants {
		if v.Key == key {
			return true
		}
	}
	return false
}

func (g *Group) Variant(key string) (Variant, bool) {
	for _, v := range g.Variants {
		if v.Key == key {
			return v, true
		}
	}
	return Variant{}, false
}

// SelectionSet maps a variant management id to its group state.
type SelectionSet map[string]*Group

func (s SelectionSet) Current(groupID string) (string, bool) {
	group, ok := s[groupID]
	if !ok {
		return "", false
	}
	return group.Current(), true
}

func (s SelectionSet) HasVariant(groupID, key string) bool {
	group, ok := s[groupID]
	return ok && group.HasVariant(key)
}

// GroupForVariant returns the group that owns the variant key. Default
// variants are keyed like their group, so a group id also resolves. A key
// shared by several groups resolves to the first group id in sorted order.
func (s SelectionSet) GroupForVariant(key string) (string, bool) {
	if _, ok := s[key]; ok {
		return key, true
	}
	for _, id := range s.groupIDs() {
		if s[id].HasVariant(key) {
			return id, true
		}
	}
	return "", false
}

func (s SelectionSet) groupIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CurrentParameters lists the current variant of every group that is not on
// its default, which is what gets written into the URL.
func (s SelectionSet) CurrentParameters() []string {
	var params []string
	for _, id := range s.groupIDs() {
		group := s[id]
		if current := group.Current(); current != group.DefaultVariant {
			params = append(params, current)
		}
	}
	return params
}
