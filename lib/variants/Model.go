package variants

import (
	"context"
	"sync"

	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/hooks/events"
	"github.com/ether/uiflex-go/lib/models/variant"
	"go.uber.org/zap"
)

// SwitchFunc runs after a group switched its current variant, e.g. to apply
// the changes of the new variant. An error undoes the switch.
type SwitchFunc func(ctx context.Context, groupID, previousVariant, currentVariant string) error

// Model holds the variant selection of one reference. The shared model of a
// reference is forked for every navigation session, so a session only ever
// changes its own selection.
type Model struct {
	reference string
	scope     string
	hooks     *hooks.Hook
	logger    *zap.SugaredLogger
	OnSwitch  SwitchFunc

	mu  sync.RWMutex
	set variant.SelectionSet
}

func NewModel(reference string, set variant.SelectionSet, hook *hooks.Hook, logger *zap.SugaredLogger) *Model {
	if set == nil {
		set = variant.SelectionSet{}
	}
	return &Model{
		reference: reference,
		hooks:     hook,
		logger:    logger,
		set:       set,
	}
}

func (m *Model) Reference() string {
	return m.reference
}

func (m *Model) Scope() string {
	return m.scope
}

// Fork returns an independent model starting from the current selection.
// Its switches are reported under scope.
func (m *Model) Fork(scope string) *Model {
	forked := NewModel(m.reference, m.SelectionSet(), m.hooks, m.logger)
	forked.scope = scope
	forked.OnSwitch = m.OnSwitch
	return forked
}

// SelectionSet returns a copy of the current state.
func (m *Model) SelectionSet() variant.SelectionSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	copied := make(variant.SelectionSet, len(m.set))
	for id, group := range m.set {
		g := *group
		g.Variants = append([]variant.Variant(nil), group.Variants...)
		copied[id] = &g
	}
	return copied
}

func (m *Model) HasGroup(groupID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.set[groupID]
	return ok
}

// GroupForVariant returns the variant management reference owning variantID.
func (m *Model) GroupForVariant(variantID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.GroupForVariant(variantID)
}

func (m *Model) Current(groupID string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.Current(groupID)
}

func (m *Model) CurrentParameters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set.CurrentParameters()
}

// SwitchToDefaultVariant resets the groups owning the given variant ids to
// their default variant. Without ids every group is reset. Resets do not
// run OnSwitch and do not touch the URL.
func (m *Model) SwitchToDefaultVariant(variantIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(variantIDs) == 0 {
		for _, group := range m.set {
			group.CurrentVariant = ""
		}
		return
	}
	for _, variantID := range variantIDs {
		if groupID, ok := m.set.GroupForVariant(variantID); ok {
			m.set[groupID].CurrentVariant = ""
		}
	}
}

// UpdateCurrentVariant makes variantID the current variant of groupID.
func (m *Model) UpdateCurrentVariant(ctx context.Context, groupID, variantID string) error {
	m.mu.Lock()
	group, ok := m.set[groupID]
	if !ok {
		m.mu.Unlock()
		return exception.NewNotFoundError("variant management", groupID)
	}
	if variantID != groupID && !group.HasVariant(variantID) {
		m.mu.Unlock()
		return exception.NewNotFoundError("variant", variantID)
	}
	previous := group.Current()
	if previous == variantID {
		m.mu.Unlock()
		return nil
	}
	group.CurrentVariant = variantID
	m.mu.Unlock()

	if m.OnSwitch != nil {
		if err := m.OnSwitch(ctx, groupID, previous, variantID); err != nil {
			m.mu.Lock()
			group.CurrentVariant = previous
			m.mu.Unlock()
			return err
		}
	}
	m.logger.Debugf("variant management %s of %s switched from %s to %s", groupID, m.reference, previous, variantID)
	m.hooks.ExecuteHooks(hooks.VariantSwitched, &events.VariantSwitchedContext{
		Reference:       m.reference,
		Scope:           m.scope,
		Group:           groupID,
		PreviousVariant: previous,
		CurrentVariant:  variantID,
	})
	return nil
}
