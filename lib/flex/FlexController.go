package flex

import (
	"context"
	"fmt"
	"time"

	"github.com/ether/uiflex-go/lib/changehandler"
	"github.com/ether/uiflex-go/lib/control"
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/hooks/events"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/modifier"
	"github.com/ether/uiflex-go/lib/registry"
	"github.com/ether/uiflex-go/lib/xmlview"
	"go.uber.org/zap"
)

const Generator = "uiflex-go"

func namespaceFor(reference string) string {
	return "apps/" + reference + "/changes/"
}

type FlexController struct {
	persistence *ChangePersistence
	registry    *registry.ChangeRegistry
	hooks       *hooks.Hook
	logger      *zap.SugaredLogger
	// CleanMergedChanges empties the merged-changes buffer after each
	// processed view.
	CleanMergedChanges bool
}

func NewFlexController(persistence *ChangePersistence, changeRegistry *registry.ChangeRegistry, hook *hooks.Hook, logger *zap.SugaredLogger) *FlexController {
	return &FlexController{
		persistence: persistence,
		registry:    changeRegistry,
		hooks:       hook,
		logger:      logger,
	}
}

func (f *FlexController) Persistence() *ChangePersistence {
	return f.persistence
}

type ProcessOptions struct {
	AppComponentID string
	// Registry resolves controls outside the view, e.g. ones created by the
	// component itself. Optional.
	Registry *control.Registry
}

// ProcessView applies all changes for the live view. When it returns the view
// is fully patched; per-change failures are in the results. The batch works on
// copies of the cached changes so concurrent views keep their own revert data.
func (f *FlexController) ProcessView(ctx context.Context, view *control.Control, opts ProcessOptions) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	changes, err := f.persistence.LoadChangesForTree(ctx, view.ID(), opts.AppComponentID)
	if err != nil {
		return nil, err
	}
	changes = change.CloneAll(changes)
	bag := changehandler.PropertyBag{
		Modifier:       modifier.NewJSControlTreeModifier(opts.Registry),
		View:           view,
		AppComponentID: opts.AppComponentID,
	}
	results := f.ApplyChanges(bag, changes)
	f.afterBatch()
	return results, nil
}

type XMLProcessOptions struct {
	AppComponentID string
	// Sync views are not preprocessed; their changes are applied once the
	// controls exist.
	Sync bool
}

// ProcessXMLView applies the changes of the view to its markup before it is
// instantiated. Sync views and views without a component are returned
// unchanged.
func (f *FlexController) ProcessXMLView(ctx context.Context, view *xmlview.Node, opts XMLProcessOptions) (*xmlview.Node, []Result, error) {
	if opts.Sync {
		f.logger.Warnf("Flexibility feature for applying changes on an XML view is only available for " +
			"asynchronous views; merge is done later on the JS controls.")
		return view, nil, nil
	}
	if opts.AppComponentID == "" {
		f.logger.Warnf("no app component for the XML view, changes are not applied")
		return view, nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	root := view.Root()
	if root == nil {
		return nil, nil, xmlview.ErrNoRootElement
	}

	changes, err := f.persistence.LoadChangesForTree(ctx, root.ID(), opts.AppComponentID)
	if err != nil {
		return nil, nil, err
	}
	changes = change.CloneAll(changes)
	bag := changehandler.PropertyBag{
		Modifier:       modifier.NewXMLTreeModifier(),
		View:           view,
		AppComponentID: opts.AppComponentID,
	}
	results := f.ApplyChanges(bag, changes)
	f.afterBatch()
	return view, results, nil
}

func (f *FlexController) afterBatch() {
	if f.CleanMergedChanges {
		f.persistence.CleanMergedChanges()
	}
}

type elementChanges struct {
	element modifier.Element
	changes []*change.Change
}

// ApplyChanges resolves every change to its element and applies them in
// persisted order. It never aborts: each change gets a Result.
func (f *FlexController) ApplyChanges(bag changehandler.PropertyBag, changes []*change.Change) []Result {
	ordered := append([]*change.Change(nil), changes...)
	change.SortChanges(ordered)

	var (
		results []Result
		groups  []*elementChanges
		index   = make(map[modifier.Element]*elementChanges)
	)
	for _, c := range ordered {
		element, err := bag.Modifier.BySelector(c.Selector(), bag.AppComponentID, bag.View)
		if err != nil {
			results = append(results, f.fail(c, "", bag, err))
			continue
		}
		group, ok := index[element]
		if !ok {
			group = &elementChanges{element: element}
			index[element] = group
			groups = append(groups, group)
		}
		group.changes = append(group.changes, c)
	}

	resolver := f.registry.NewResolver()
	for _, group := range groups {
		results = append(results, f.applyOnElement(resolver, bag, group.element, group.changes)...)
	}
	return results
}

// ApplyChangesOnControl applies the given changes to one element. The changes
// are expected to target it already.
func (f *FlexController) ApplyChangesOnControl(bag changehandler.PropertyBag, element modifier.Element, changes []*change.Change) []Result {
	ordered := append([]*change.Change(nil), changes...)
	change.SortChanges(ordered)
	return f.applyOnElement(f.registry.NewResolver(), bag, element, ordered)
}

func (f *FlexController) applyOnElement(resolver *registry.Resolver, bag changehandler.PropertyBag, element modifier.Element, changes []*change.Change) []Result {
	results := make([]Result, 0, len(changes))
	elementID, _ := bag.Modifier.GetID(element)

	marker, err := bag.Modifier.GetMarker(element)
	if err != nil {
		for _, c := range changes {
			results = append(results, f.fail(c, elementID, bag, err))
		}
		return results
	}
	applied := change.ParseAppliedSet(marker)
	elementType, err := bag.Modifier.GetControlType(element)
	if err != nil {
		for _, c := range changes {
			results = append(results, f.fail(c, elementID, bag, err))
		}
		return results
	}

	for _, c := range changes {
		if applied.Has(c.ID()) {
			results = append(results, Result{ChangeID: c.ID(), ElementID: elementID, Status: StatusAlreadyApplied})
			continue
		}
		if err := change.ValidateID(c.ID()); err != nil {
			results = append(results, f.fail(c, elementID, bag, err))
			continue
		}
		handler, err := resolver.Lookup(c.ChangeType(), elementType, c.Layer())
		if err != nil {
			results = append(results, f.fail(c, elementID, bag, err))
			continue
		}
		if err := invoke(c, func() error { return handler.ApplyChange(c, element, bag) }); err != nil {
			results = append(results, f.fail(c, elementID, bag, err))
			continue
		}

		applied.Add(c.ID())
		if err := bag.Modifier.SetMarker(element, applied.String()); err != nil {
			applied.Remove(c.ID())
			if revertErr := invoke(c, func() error { return handler.RevertChange(c, element, bag) }); revertErr != nil {
				f.logger.Errorf("change %s could not be rolled back after marker write failed: %v", c.ID(), revertErr)
			}
			results = append(results, f.fail(c, elementID, bag, err))
			continue
		}
		results = append(results, Result{ChangeID: c.ID(), ElementID: elementID, Status: StatusApplied})
		f.hooks.ExecuteHooks(hooks.ChangeApplied, &events.ChangeContext{Change: c, ElementID: elementID, Modifier: bag.Modifier.Name()})
	}
	return results
}

// RevertChanges reverts the given changes in the given order and removes them
// from their element's marker.
func (f *FlexController) RevertChanges(bag changehandler.PropertyBag, changes []*change.Change) []Result {
	resolver := f.registry.NewResolver()
	results := make([]Result, 0, len(changes))
	for _, c := range changes {
		results = append(results, f.revertChange(resolver, bag, c))
	}
	return results
}

func (f *FlexController) revertChange(resolver *registry.Resolver, bag changehandler.PropertyBag, c *change.Change) Result {
	element, err := bag.Modifier.BySelector(c.Selector(), bag.AppComponentID, bag.View)
	if err != nil {
		return f.fail(c, "", bag, err)
	}
	elementID, _ := bag.Modifier.GetID(element)
	elementType, err := bag.Modifier.GetControlType(element)
	if err != nil {
		return f.fail(c, elementID, bag, err)
	}
	handler, err := resolver.Lookup(c.ChangeType(), elementType, c.Layer())
	if err != nil {
		return f.fail(c, elementID, bag, err)
	}
	if err := invoke(c, func() error { return handler.RevertChange(c, element, bag) }); err != nil {
		return f.fail(c, elementID, bag, err)
	}

	marker, err := bag.Modifier.GetMarker(element)
	if err != nil {
		return f.fail(c, elementID, bag, err)
	}
	applied := change.ParseAppliedSet(marker)
	if applied.Remove(c.ID()) {
		if err := bag.Modifier.SetMarker(element, applied.String()); err != nil {
			return f.fail(c, elementID, bag, err)
		}
	}
	f.hooks.ExecuteHooks(hooks.ChangeReverted, &events.ChangeContext{Change: c, ElementID: elementID, Modifier: bag.Modifier.Name()})
	return Result{ChangeID: c.ID(), ElementID: elementID, Status: StatusReverted}
}

// invoke runs a handler call and turns a panic into an ApplyError so one
// broken handler cannot abort the batch.
func invoke(c *change.Change, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = exception.NewApplyError(c.ID(), fmt.Errorf("handler panicked: %v", r))
		}
	}()
	return fn()
}

func (f *FlexController) fail(c *change.Change, elementID string, bag changehandler.PropertyBag, err error) Result {
	modifierName := ""
	if bag.Modifier != nil {
		modifierName = bag.Modifier.Name()
	}
	f.logger.Errorf("change %s (%s, layer %s, selector %s) failed on %s tree: %v",
		c.ID(), c.ChangeType(), c.Layer(), c.Selector().ID, modifierName, err)
	f.hooks.ExecuteHooks(hooks.ChangeApplyFailed, &events.ChangeContext{Change: c, ElementID: elementID, Modifier: modifierName, Err: err})
	return Result{ChangeID: c.ID(), ElementID: elementID, Status: StatusFailed, Err: err}
}

type ChangeOptions struct {
	Layer change.Layer
	User  string
}

// CreateChange builds a change for target and lets its handler complete the
// content. The change is not stored.
func (f *FlexController) CreateChange(info changehandler.SpecificInfo, target modifier.Element, bag changehandler.PropertyBag, opts ChangeOptions) (*change.Change, error) {
	if info.ChangeType == "" {
		return nil, exception.NewContentError("specificInfo.changeType attribute required")
	}
	elementType, err := bag.Modifier.GetControlType(target)
	if err != nil {
		return nil, err
	}
	handler, err := f.registry.Lookup(info.ChangeType, elementType, opts.Layer)
	if err != nil {
		return nil, err
	}
	id, err := bag.Modifier.GetID(target)
	if err != nil {
		return nil, err
	}

	content := make(map[string]any, len(info.Content))
	for k, v := range info.Content {
		content[k] = v
	}
	reference := f.persistence.Reference()
	c := change.NewChange(change.Definition{
		Namespace:  namespaceFor(reference),
		Reference:  reference,
		Layer:      opts.Layer,
		ChangeType: info.ChangeType,
		Selector:   modifier.SelectorForID(id, bag.AppComponentID),
		Content:    content,
		Support:    change.Support{Generator: Generator, User: opts.User},
		Creation:   time.Now().UTC().Format(time.RFC3339Nano),
	})
	if err := handler.CompleteChangeContent(c, info, bag); err != nil {
		return nil, err
	}
	return c, nil
}

// AddChange creates a change and registers it as dirty.
func (f *FlexController) AddChange(info changehandler.SpecificInfo, target modifier.Element, bag changehandler.PropertyBag, opts ChangeOptions) (*change.Change, error) {
	c, err := f.CreateChange(info, target, bag, opts)
	if err != nil {
		return nil, err
	}
	f.persistence.AddChange(c)
	return c, nil
}

// CreateAndApplyChange adds a change and applies it right away. A change that
// fails to apply is removed again.
func (f *FlexController) CreateAndApplyChange(info changehandler.SpecificInfo, target modifier.Element, bag changehandler.PropertyBag, opts ChangeOptions) (*change.Change, error) {
	c, err := f.AddChange(info, target, bag, opts)
	if err != nil {
		return nil, err
	}
	results := f.ApplyChangesOnControl(bag, target, []*change.Change{c})
	if len(results) == 1 && results[0].Failed() {
		f.persistence.DeleteChange(c)
		return nil, results[0].Err
	}
	return c, nil
}

// DiscardChanges deletes the changes of the given layer and saves. Changes of
// other layers are left alone.
func (f *FlexController) DiscardChanges(ctx context.Context, changes []*change.Change, layer change.Layer) error {
	for _, c := range changes {
		if c.Layer() == layer {
			f.persistence.DeleteChange(c)
		}
	}
	return f.persistence.SaveDirtyChanges(ctx)
}

// DiscardChangesForLayer loads every change of the reference and discards the
// ones of layer. It returns the number of deleted changes.
func (f *FlexController) DiscardChangesForLayer(ctx context.Context, layer change.Layer) (int, error) {
	changes, err := f.persistence.LoadChangesForTree(ctx, "", "")
	if err != nil {
		return 0, err
	}
	variantChanges, err := f.persistence.VariantManagementChanges(ctx)
	if err != nil {
		return 0, err
	}
	changes = append(changes, variantChanges...)
	count := 0
	for _, c := range changes {
		if c.Layer() == layer {
			count++
		}
	}
	return count, f.DiscardChanges(ctx, changes, layer)
}

func (f *FlexController) SaveAll(ctx context.Context) error {
	return f.persistence.SaveDirtyChanges(ctx)
}
