package variants

import (
	"sync"

	"github.com/ether/uiflex-go/lib/urlhash"
)

// Listener receives the events of a HashChanger.
type Listener interface {
	HashChanged(newHash, oldHash string)
	HashReplaced(hash string)
}

type FilterStatus int

const (
	// FilterContinue lets the navigation happen.
	FilterContinue FilterStatus = iota
	// FilterCustom suppresses the navigation; the filter handled it and the
	// hash is only replaced in the URL.
	FilterCustom
)

type NavigationFilter func(newHash, oldHash string) FilterStatus

// HashChanger is the URL collaborator of a Session.
type HashChanger interface {
	Hash() string
	// SetTechnicalParameter replaces a parameter in the current hash without
	// creating a history entry. No values remove the parameter.
	SetTechnicalParameter(name string, values []string) error
	// FireHashChanged dispatches a hashChanged event without changing the
	// current hash.
	FireHashChanged(newHash, oldHash string)
	Subscribe(listener Listener) (unsubscribe func())
}

// FilterRegistry is implemented by hash changers that support navigation
// filters.
type FilterRegistry interface {
	RegisterNavigationFilter(filter NavigationFilter) (unregister func())
}

// MemoryHashChanger keeps the hash in memory. It backs websocket sessions,
// where the browser reports its hash and receives replacements.
type MemoryHashChanger struct {
	mu        sync.Mutex
	hash      string
	nextID    int
	listeners map[int]Listener
	filters   map[int]NavigationFilter
}

func NewMemoryHashChanger(hash string) *MemoryHashChanger {
	return &MemoryHashChanger{
		hash:      hash,
		listeners: make(map[int]Listener),
		filters:   make(map[int]NavigationFilter),
	}
}

func (h *MemoryHashChanger) Hash() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hash
}

func (h *MemoryHashChanger) Subscribe(listener Listener) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = listener
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.listeners, id)
	}
}

func (h *MemoryHashChanger) RegisterNavigationFilter(filter NavigationFilter) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	id := h.nextID
	h.nextID++
	h.filters[id] = filter
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.filters, id)
	}
}

func (h *MemoryHashChanger) snapshot() ([]Listener, []NavigationFilter) {
	listeners := make([]Listener, 0, len(h.listeners))
	for i := 0; i < h.nextID; i++ {
		if l, ok := h.listeners[i]; ok {
			listeners = append(listeners, l)
		}
	}
	filters := make([]NavigationFilter, 0, len(h.filters))
	for i := 0; i < h.nextID; i++ {
		if f, ok := h.filters[i]; ok {
			filters = append(filters, f)
		}
	}
	return listeners, filters
}

// SetHash navigates to newHash. Navigation filters run first; when one of
// them handles the navigation the hash is replaced without a hashChanged
// event.
func (h *MemoryHashChanger) SetHash(newHash string) {
	h.mu.Lock()
	oldHash := h.hash
	listeners, filters := h.snapshot()
	h.mu.Unlock()

	for _, filter := range filters {
		if filter(newHash, oldHash) == FilterCustom {
			h.mu.Lock()
			h.hash = newHash
			h.mu.Unlock()
			return
		}
	}

	h.mu.Lock()
	h.hash = newHash
	h.mu.Unlock()
	for _, l := range listeners {
		l.HashChanged(newHash, oldHash)
	}
}

// ReplaceHash changes the hash without a new history entry. Listeners get a
// hashReplaced event followed by the hashChanged event.
func (h *MemoryHashChanger) ReplaceHash(newHash string) {
	h.mu.Lock()
	oldHash := h.hash
	h.hash = newHash
	listeners, _ := h.snapshot()
	h.mu.Unlock()

	for _, l := range listeners {
		l.HashReplaced(newHash)
	}
	for _, l := range listeners {
		l.HashChanged(newHash, oldHash)
	}
}

func (h *MemoryHashChanger) FireHashChanged(newHash, oldHash string) {
	h.mu.Lock()
	listeners, _ := h.snapshot()
	h.mu.Unlock()
	for _, l := range listeners {
		l.HashChanged(newHash, oldHash)
	}
}

func (h *MemoryHashChanger) SetTechnicalParameter(name string, values []string) error {
	parsed, err := urlhash.Parse(h.Hash())
	if err != nil {
		return err
	}
	current := parsed.String()
	parsed.SetParameter(name, values)
	if newHash := parsed.String(); newHash != current {
		h.ReplaceHash(newHash)
	}
	return nil
}

var _ HashChanger = (*MemoryHashChanger)(nil)
var _ FilterRegistry = (*MemoryHashChanger)(nil)
