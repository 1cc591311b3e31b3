package control

import "fmt"

// Registry is the id index of all live controls of one session.
type Registry struct {
	byID map[string]*Control
}

func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*Control)}
}

// Register indexes root and all of its descendants.
func (r *Registry) Register(root *Control) error {
	var err error
	root.Walk(func(c *Control) bool {
		if existing, ok := r.byID[c.id]; ok && existing != c {
			err = fmt.Errorf("duplicate control id %q", c.id)
			return false
		}
		r.byID[c.id] = c
		return true
	})
	return err
}

func (r *Registry) Deregister(root *Control) {
	root.Walk(func(c *Control) bool {
		delete(r.byID, c.id)
		return true
	})
}

func (r *Registry) ByID(id string) (*Control, bool) {
	c, ok := r.byID[id]
	return c, ok
}

func (r *Registry) Len() int {
	return len(r.byID)
}
