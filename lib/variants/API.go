package variants

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/ether/uiflex-go/lib/control"
	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/modifier"
	"github.com/ether/uiflex-go/lib/urlhash"
	"go.uber.org/zap"
)

const (
	ErrMsgInvalidCombination = "A valid control or component, and variant id combination is required"
	ErrMsgInvalidTarget      = "A valid variant management control or component (instance or id) should be passed as parameter"
	ErrMsgIDNotFound         = "A valid component or control cannot be found for the provided Id"
	ErrMsgNoModel            = "No variant management model found for the passed control or application component"
)

// Component is an application component with its variant model. Controls
// belong to the component whose id prefixes theirs.
type Component struct {
	ID    string
	Model *Model
}

// Runtime knows the components and controls activation targets can name.
type Runtime struct {
	mu         sync.RWMutex
	components map[string]*Component
	controls   *control.Registry
}

func NewRuntime(controls *control.Registry) *Runtime {
	if controls == nil {
		controls = control.NewRegistry()
	}
	return &Runtime{components: make(map[string]*Component), controls: controls}
}

func (r *Runtime) Controls() *control.Registry {
	return r.controls
}

func (r *Runtime) AddComponent(component *Component) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.components[component.ID] = component
}

// WithComponent returns a runtime sharing the controls and components of r
// in which component replaces the one with the same id.
func (r *Runtime) WithComponent(component *Component) *Runtime {
	r.mu.RLock()
	defer r.mu.RUnlock()
	scoped := &Runtime{components: make(map[string]*Component, len(r.components)+1), controls: r.controls}
	for id, c := range r.components {
		scoped.components[id] = c
	}
	scoped.components[component.ID] = component
	return scoped
}

func (r *Runtime) RemoveComponent(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.components, id)
}

func (r *Runtime) Component(id string) (*Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.components[id]
	return c, ok
}

// AppComponentFor returns the component owning the control.
func (r *Runtime) AppComponentFor(c *control.Control) (*Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id := c.ID()
	if i := strings.Index(id, modifier.ComponentSeparator); i >= 0 {
		component, ok := r.components[id[:i]]
		return component, ok
	}
	return nil, false
}

func (r *Runtime) resolve(target any) (*Component, *control.Control, error) {
	switch t := target.(type) {
	case string:
		if component, ok := r.Component(t); ok {
			return component, nil, nil
		}
		if c, ok := r.controls.ByID(t); ok {
			return r.componentForControl(c)
		}
		return nil, nil, exception.NewActivationError(ErrMsgIDNotFound)
	case *Component:
		if t != nil {
			return t, nil, nil
		}
	case *control.Control:
		if t != nil {
			return r.componentForControl(t)
		}
	}
	return nil, nil, exception.NewActivationError(ErrMsgInvalidTarget)
}

func (r *Runtime) componentForControl(c *control.Control) (*Component, *control.Control, error) {
	component, ok := r.AppComponentFor(c)
	if !ok {
		return nil, nil, exception.NewActivationError(ErrMsgInvalidTarget)
	}
	return component, c, nil
}

type API struct {
	runtime *Runtime
	logger  *zap.SugaredLogger
}

func NewAPI(runtime *Runtime, logger *zap.SugaredLogger) *API {
	return &API{runtime: runtime, logger: logger}
}

// ActivateVariant switches the variant management owning variantID to it.
// target is a component or control, or the id of one.
func (a *API) ActivateVariant(ctx context.Context, target any, variantID string) error {
	err := a.activateVariant(ctx, target, variantID)
	if err != nil {
		a.logger.Errorf("variant %s could not be activated: %v", variantID, err)
	}
	return err
}

func (a *API) activateVariant(ctx context.Context, target any, variantID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	component, _, err := a.runtime.resolve(target)
	if err != nil {
		return err
	}
	if component.Model == nil {
		return exception.NewActivationError(ErrMsgNoModel)
	}
	groupID, ok := component.Model.GroupForVariant(variantID)
	if !ok {
		return exception.NewActivationError(ErrMsgInvalidCombination)
	}
	return component.Model.UpdateCurrentVariant(ctx, groupID, variantID)
}

// ClearVariantParameterInURL removes the variants of the target's variant
// management from the URL of the session. Without target the parameter is
// removed completely and the register is left alone.
func (a *API) ClearVariantParameterInURL(session *Session, target any) error {
	if target == nil {
		return session.changer.SetTechnicalParameter(session.ParameterName(), []string{})
	}
	component, c, err := a.runtime.resolve(target)
	if err != nil {
		return err
	}
	if component.Model == nil {
		return exception.NewActivationError(ErrMsgNoModel)
	}

	groupID := ""
	if c != nil {
		groupID = strings.TrimPrefix(c.ID(), component.ID+modifier.ComponentSeparator)
	}
	parsed, err := urlhash.Parse(session.changer.Hash())
	if err != nil {
		return err
	}
	remaining := slices.DeleteFunc(parsed.Parameter(session.ParameterName()), func(variantID string) bool {
		if groupID == "" {
			return true
		}
		owner, ok := component.Model.GroupForVariant(variantID)
		return ok && owner == groupID
	})
	return session.UpdateHasherEntry(remaining, true, false)
}
