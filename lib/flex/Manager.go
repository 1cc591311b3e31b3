package flex

import (
	"context"
	"errors"
	"regexp"
	"sync"

	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/registry"
	"github.com/ether/uiflex-go/lib/variants"
	"go.uber.org/zap"
)

var referenceRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,99}$`)

var ErrInvalidReference = errors.New("invalid reference")

type ManagerOptions struct {
	MaxLayer           change.Layer
	CleanMergedChanges bool
}

// Manager hands out one FlexController and one variant model per reference.
type Manager struct {
	store    db.DataStore
	registry *registry.ChangeRegistry
	hooks    *hooks.Hook
	runtime  *variants.Runtime
	options  ManagerOptions
	logger   *zap.SugaredLogger

	mu          sync.Mutex
	controllers map[string]*FlexController
}

func NewManager(store db.DataStore, changeRegistry *registry.ChangeRegistry, hook *hooks.Hook, runtime *variants.Runtime, options ManagerOptions, logger *zap.SugaredLogger) *Manager {
	if runtime == nil {
		runtime = variants.NewRuntime(nil)
	}
	return &Manager{
		store:       store,
		registry:    changeRegistry,
		hooks:       hook,
		runtime:     runtime,
		options:     options,
		logger:      logger,
		controllers: make(map[string]*FlexController),
	}
}

func (m *Manager) IsValidReference(reference string) bool {
	return referenceRegex.MatchString(reference)
}

func (m *Manager) Runtime() *variants.Runtime {
	return m.runtime
}

func (m *Manager) Hooks() *hooks.Hook {
	return m.hooks
}

func (m *Manager) Controller(reference string) (*FlexController, error) {
	if !m.IsValidReference(reference) {
		return nil, ErrInvalidReference
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if controller, ok := m.controllers[reference]; ok {
		return controller, nil
	}
	persistence := NewChangePersistence(reference, m.store, m.options.MaxLayer, m.logger)
	controller := NewFlexController(persistence, m.registry, m.hooks, m.logger)
	controller.CleanMergedChanges = m.options.CleanMergedChanges
	m.controllers[reference] = controller
	return controller, nil
}

// VariantModel returns the variant model of reference, loading it on first
// use. Its component is registered in the runtime under the reference.
func (m *Manager) VariantModel(ctx context.Context, reference string) (*variants.Model, error) {
	controller, err := m.Controller(reference)
	if err != nil {
		return nil, err
	}
	if component, ok := m.runtime.Component(reference); ok && component.Model != nil {
		return component.Model, nil
	}

	set, err := m.store.GetVariants(ctx, reference)
	if err != nil {
		return nil, err
	}
	variantChanges, err := controller.Persistence().VariantManagementChanges(ctx)
	if err != nil {
		return nil, err
	}
	ApplyDefaultVariantChanges(set, variantChanges)

	m.mu.Lock()
	defer m.mu.Unlock()
	if component, ok := m.runtime.Component(reference); ok && component.Model != nil {
		return component.Model, nil
	}
	model := variants.NewModel(reference, set, m.hooks, m.logger)
	m.runtime.AddComponent(&variants.Component{ID: reference, Model: model})
	return model, nil
}

// SetDefaultVariant stores a defaultVariant change for the group. The loaded
// model is dropped so the next access sees the new default.
func (m *Manager) SetDefaultVariant(ctx context.Context, reference, groupID, variantID string, layer change.Layer) error {
	controller, err := m.Controller(reference)
	if err != nil {
		return err
	}
	c := CreateDefaultVariantChange(reference, groupID, variantID, layer)
	controller.Persistence().AddChange(c)
	if err := controller.SaveAll(ctx); err != nil {
		return err
	}
	controller.Persistence().Invalidate()
	m.runtime.RemoveComponent(reference)
	return nil
}

// Forget drops the cached controller and model of reference.
func (m *Manager) Forget(reference string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.controllers, reference)
	m.runtime.RemoveComponent(reference)
}
