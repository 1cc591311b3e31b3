package change

import (
	"errors"
	"fmt"
	"strings"
)

const appliedSetSeparator = ","

var ErrInvalidID = errors.New("invalid change id")

// ValidateID rejects ids that cannot be stored in an element's marker and
// read back as the same id.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty", ErrInvalidID)
	}
	if strings.Contains(id, appliedSetSeparator) || strings.TrimSpace(id) != id {
		return fmt.Errorf("%w: %q contains %q or surrounding whitespace", ErrInvalidID, id, appliedSetSeparator)
	}
	return nil
}

// AppliedSet is the ordered set of change ids stored in an element's marker.
// Insertion order is kept and an id is never stored twice.
type AppliedSet struct {
	ids []string
}

func ParseAppliedSet(marker string) AppliedSet {
	var set AppliedSet
	if marker == "" {
		return set
	}
	for _, id := range strings.Split(marker, appliedSetSeparator) {
		id = strings.TrimSpace(id)
		if id != "" {
			set.Add(id)
		}
	}
	return set
}

func (s *AppliedSet) Has(id string) bool {
	for _, existing := range s.ids {
		if existing == id {
			return true
		}
	}
	return false
}

// Add appends id and reports whether the set changed.
func (s *AppliedSet) Add(id string) bool {
	if id == "" || s.Has(id) {
		return false
	}
	s.ids = append(s.ids, id)
	return true
}

// Remove drops id and reports whether the set changed.
func (s *AppliedSet) Remove(id string) bool {
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return true
		}
	}
	return false
}

func (s *AppliedSet) IDs() []string {
	out := make([]string, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *AppliedSet) Len() int {
	return len(s.ids)
}

func (s *AppliedSet) String() string {
	return strings.Join(s.ids, appliedSetSeparator)
}
