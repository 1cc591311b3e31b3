package flex

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/modifier"
	"go.uber.org/zap"
)

const (
	ChangeFileType            = "change"
	VariantManagementFileType = "ctrl_variant_management_change"
	viewIDSeparator           = "--"
)

// ChangePersistence caches the change records of one reference and tracks the
// ones that still have to be written back.
type ChangePersistence struct {
	reference string
	store     db.DataStore
	logger    *zap.SugaredLogger
	maxLayer  change.Layer

	mu      sync.Mutex
	loaded  bool
	changes []*change.Change
	dirty   []*change.Change
	merged  []*change.Change
}

func NewChangePersistence(reference string, store db.DataStore, maxLayer change.Layer, logger *zap.SugaredLogger) *ChangePersistence {
	return &ChangePersistence{
		reference: reference,
		store:     store,
		logger:    logger,
		maxLayer:  maxLayer,
	}
}

func (p *ChangePersistence) Reference() string {
	return p.reference
}

func (p *ChangePersistence) ensureLoaded(ctx context.Context) error {
	if p.loaded {
		return nil
	}
	definitions, err := p.store.GetChanges(ctx, p.reference)
	if err != nil {
		return err
	}
	p.changes = make([]*change.Change, 0, len(definitions))
	for _, def := range definitions {
		if def.Layer > p.maxLayer {
			continue
		}
		p.changes = append(p.changes, change.NewChange(def))
	}
	p.loaded = true
	return nil
}

// Invalidate drops the cache; the next load reads from the store again.
// Unsaved changes are kept.
func (p *ChangePersistence) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loaded = false
	p.changes = nil
}

func (p *ChangePersistence) all(ctx context.Context, fileType string) ([]*change.Change, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	result := make([]*change.Change, 0, len(p.changes)+len(p.dirty))
	seen := make(map[string]bool, len(p.changes))
	for _, c := range append(append([]*change.Change(nil), p.changes...), p.dirty...) {
		if seen[c.ID()] || c.PendingAction() == change.PendingDelete {
			continue
		}
		seen[c.ID()] = true
		if c.Definition().FileType == fileType {
			result = append(result, c)
		}
	}
	change.SortChanges(result)
	return result, nil
}

// LoadChangesForTree returns the ordered changes whose selector points into
// the view with the given id. An empty viewID returns every change.
func (p *ChangePersistence) LoadChangesForTree(ctx context.Context, viewID, appComponentID string) ([]*change.Change, error) {
	changes, err := p.all(ctx, ChangeFileType)
	if err != nil {
		return nil, err
	}
	if viewID == "" {
		return changes, nil
	}

	result := make([]*change.Change, 0, len(changes))
	for _, c := range changes {
		id, err := modifier.ControlIDBySelector(c.Selector(), appComponentID)
		if err != nil {
			continue
		}
		if id == viewID || strings.HasPrefix(id, viewID+viewIDSeparator) {
			result = append(result, c)
		}
	}
	return result, nil
}

// VariantManagementChanges returns the changes that configure variant
// management controls rather than the controls of a view.
func (p *ChangePersistence) VariantManagementChanges(ctx context.Context) ([]*change.Change, error) {
	return p.all(ctx, VariantManagementFileType)
}

// AddChange keeps c as a new change until the next SaveDirtyChanges.
func (p *ChangePersistence) AddChange(c *change.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c.SetPendingAction(change.PendingNew)
	p.dirty = append(p.dirty, c)
}

// UpdateChange schedules a persisted change to be written again.
func (p *ChangePersistence) UpdateChange(c *change.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.PendingAction() == change.PendingNew {
		return
	}
	c.SetPendingAction(change.PendingDirty)
	if !containsChange(p.dirty, c) {
		p.dirty = append(p.dirty, c)
	}
}

// DeleteChange drops a change that was never saved, otherwise marks it for
// deletion on the next save.
func (p *ChangePersistence) DeleteChange(c *change.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if c.PendingAction() == change.PendingNew {
		p.dirty = removeChange(p.dirty, c)
		c.SetPendingAction(change.PendingNone)
		return
	}
	c.MarkForDeletion()
	if !containsChange(p.dirty, c) {
		p.dirty = append(p.dirty, c)
	}
}

func (p *ChangePersistence) DirtyChanges() []*change.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*change.Change(nil), p.dirty...)
}

// SaveDirtyChanges writes all pending changes in the order they were
// recorded. It stops at the first store error; unsaved changes stay dirty.
func (p *ChangePersistence) SaveDirtyChanges(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for len(p.dirty) > 0 {
		c := p.dirty[0]
		switch c.PendingAction() {
		case change.PendingDelete:
			if err := p.store.RemoveChange(ctx, c.ID()); err != nil && !errors.Is(err, db.ErrChangeNotFound) {
				return err
			}
			p.changes = removeChange(p.changes, c)
		default:
			if err := p.store.SaveChange(ctx, *c.Definition()); err != nil {
				return err
			}
			if c.PendingAction() == change.PendingNew && p.loaded {
				p.changes = append(p.changes, c)
			}
		}
		c.SetPendingAction(change.PendingNone)
		p.dirty = p.dirty[1:]
	}
	p.dirty = nil
	return nil
}

// SetMergedChanges remembers changes that were already merged into a view
// on the server and only have to be cleaned up afterwards.
func (p *ChangePersistence) SetMergedChanges(changes []*change.Change) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.merged = append([]*change.Change(nil), changes...)
}

func (p *ChangePersistence) MergedChanges() []*change.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*change.Change(nil), p.merged...)
}

func (p *ChangePersistence) CleanMergedChanges() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.merged) > 0 {
		p.logger.Debugf("cleaning %d merged changes of %s", len(p.merged), p.reference)
	}
	p.merged = nil
}

func containsChange(changes []*change.Change, c *change.Change) bool {
	for _, existing := range changes {
		if existing.ID() == c.ID() {
			return true
		}
	}
	return false
}

func removeChange(changes []*change.Change, c *change.Change) []*change.Change {
	result := changes[:0]
	for _, existing := range changes {
		if existing.ID() != c.ID() {
			result = append(result, existing)
		}
	}
	return result
}
