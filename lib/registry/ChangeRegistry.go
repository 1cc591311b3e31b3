package registry

import (
	"sync"

	"github.com/ether/uiflex-go/lib/changehandler"
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/models/change"
)

// AnyElementType registers a handler for every element type. Exact element
// types win over it.
const AnyElementType = "*"

type Key struct {
	ChangeType  string
	ElementType string
}

type Item struct {
	Handler changehandler.Handler
	// Layers the change type may be applied in. Nil allows every layer.
	Layers map[change.Layer]bool
}

func (i Item) allows(layer change.Layer) bool {
	if i.Layers == nil {
		return true
	}
	return i.Layers[layer]
}

type ChangeRegistry struct {
	mu    sync.RWMutex
	items map[Key]Item
}

func NewChangeRegistry() *ChangeRegistry {
	return &ChangeRegistry{items: make(map[Key]Item)}
}

func (r *ChangeRegistry) Register(key Key, item Item) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[key] = item
}

func (r *ChangeRegistry) RegisterForAllTypes(changeType string, item Item) {
	r.Register(Key{ChangeType: changeType, ElementType: AnyElementType}, item)
}

func (r *ChangeRegistry) item(key Key) (Item, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if item, ok := r.items[key]; ok {
		return item, true
	}
	item, ok := r.items[Key{ChangeType: key.ChangeType, ElementType: AnyElementType}]
	return item, ok
}

func (r *ChangeRegistry) Lookup(changeType, elementType string, layer change.Layer) (changehandler.Handler, error) {
	item, ok := r.item(Key{ChangeType: changeType, ElementType: elementType})
	if !ok || item.Handler == nil || !item.allows(layer) {
		return nil, exception.NewHandlerNotFoundError(changeType, elementType, layer.String())
	}
	return item.Handler, nil
}

// Resolver caches registry lookups for the duration of one batch.
type Resolver struct {
	registry *ChangeRegistry
	cache    map[Key]resolved
}

type resolved struct {
	item Item
	ok   bool
}

func (r *ChangeRegistry) NewResolver() *Resolver {
	return &Resolver{registry: r, cache: make(map[Key]resolved)}
}

func (r *Resolver) Lookup(changeType, elementType string, layer change.Layer) (changehandler.Handler, error) {
	key := Key{ChangeType: changeType, ElementType: elementType}
	entry, cached := r.cache[key]
	if !cached {
		item, ok := r.registry.item(key)
		entry = resolved{item: item, ok: ok && item.Handler != nil}
		r.cache[key] = entry
	}
	if !entry.ok || !entry.item.allows(layer) {
		return nil, exception.NewHandlerNotFoundError(changeType, elementType, layer.String())
	}
	return entry.item.Handler, nil
}

func layers(allowed ...change.Layer) map[change.Layer]bool {
	m := make(map[change.Layer]bool, len(allowed))
	for _, l := range allowed {
		m[l] = true
	}
	return m
}

// Default returns a registry with the built-in change types.
func Default() *ChangeRegistry {
	r := NewChangeRegistry()
	for _, elementType := range []string{"sap.m.Label", "sap.m.Button", "sap.m.Title"} {
		r.Register(Key{ChangeType: "rename", ElementType: elementType}, Item{
			Handler: changehandler.NewRenameHandler(changehandler.RenameSettings{
				PropertyName:        "text",
				TranslationTextType: "XFLD",
			}),
		})
	}
	r.RegisterForAllTypes("propertyChange", Item{
		Handler: changehandler.PropertyChange{},
		Layers:  layers(change.VENDOR, change.PARTNER, change.CUSTOMER_BASE, change.CUSTOMER),
	})
	r.RegisterForAllTypes("hideControl", Item{Handler: changehandler.HideControl})
	r.RegisterForAllTypes("unhideControl", Item{Handler: changehandler.UnhideControl})
	return r
}
