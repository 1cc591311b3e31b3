package events

import "github.com/ether/uiflex-go/lib/models/change"

// ChangeContext is passed to the changeApplied, changeApplyFailed and
// changeReverted hooks.
type ChangeContext struct {
	Change    *change.Change
	ElementID string
	Modifier  string
	Err       error
}

// VariantSwitchedContext is passed to the variantSwitched hook.
type VariantSwitchedContext struct {
	Reference       string
	Group           string
	PreviousVariant string
	CurrentVariant  string

	// Scope is empty for the shared model of a reference and names the
	// navigation session for a forked one.
	Scope string
}
