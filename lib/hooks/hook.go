package hooks

import (
	"sync"

	"github.com/ether/uiflex-go/lib/hooks/events"
	uuid2 "github.com/google/uuid"
)

const (
	ChangeApplied     = "changeApplied"
	ChangeApplyFailed = "changeApplyFailed"
	ChangeReverted    = "changeReverted"
	VariantSwitched   = "variantSwitched"
)

type Hook struct {
	mu    sync.RWMutex
	hooks map[string]map[string]func(ctx any)
}

func NewHook() *Hook {
	return &Hook{
		hooks: make(map[string]map[string]func(ctx any)),
	}
}

func (h *Hook) EnqueueChangeAppliedHook(cb func(ctx *events.ChangeContext)) string {
	return h.EnqueueHook(ChangeApplied, func(ctx any) {
		if changeCtx, ok := ctx.(*events.ChangeContext); ok {
			cb(changeCtx)
		}
	})
}

func (h *Hook) EnqueueChangeApplyFailedHook(cb func(ctx *events.ChangeContext)) string {
	return h.EnqueueHook(ChangeApplyFailed, func(ctx any) {
		if changeCtx, ok := ctx.(*events.ChangeContext); ok {
			cb(changeCtx)
		}
	})
}

func (h *Hook) EnqueueChangeRevertedHook(cb func(ctx *events.ChangeContext)) string {
	return h.EnqueueHook(ChangeReverted, func(ctx any) {
		if changeCtx, ok := ctx.(*events.ChangeContext); ok {
			cb(changeCtx)
		}
	})
}

func (h *Hook) EnqueueVariantSwitchedHook(cb func(ctx *events.VariantSwitchedContext)) string {
	return h.EnqueueHook(VariantSwitched, func(ctx any) {
		if variantCtx, ok := ctx.(*events.VariantSwitchedContext); ok {
			cb(variantCtx)
		}
	})
}

func (h *Hook) EnqueueHook(key string, ctx func(ctx any)) string {
	var uuid = uuid2.New()

	h.mu.Lock()
	defer h.mu.Unlock()
	var _, ok = h.hooks[key]

	if !ok {
		h.hooks[key] = make(map[string]func(ctx any))
	}

	h.hooks[key][uuid.String()] = ctx

	return uuid.String()
}

func (h *Hook) DequeueHook(key, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.hooks[key], id)
}

// ExecuteHooks runs every callback registered for key. A nil Hook is a no-op
// so components can be built without one.
func (h *Hook) ExecuteHooks(key string, ctx any) {
	if h == nil {
		return
	}

	h.mu.RLock()
	callbacks := make([]func(ctx any), 0, len(h.hooks[key]))
	for _, v := range h.hooks[key] {
		callbacks = append(callbacks, v)
	}
	h.mu.RUnlock()

	for _, v := range callbacks {
		v(ctx)
	}
}
