package db

import (
	"context"

	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
)

type ChangeMethods interface {
	// GetChanges returns every change stored for the reference, including
	// ones of other layers. Ordering is left to the caller.
	GetChanges(ctx context.Context, reference string) ([]change.Definition, error)
	GetChange(ctx context.Context, id string) (*change.Definition, error)
	SaveChange(ctx context.Context, def change.Definition) error
	RemoveChange(ctx context.Context, id string) error
}

type VariantMethods interface {
	GetVariants(ctx context.Context, reference string) (variant.SelectionSet, error)
	SaveVariants(ctx context.Context, reference string, set variant.SelectionSet) error
}

type DataStore interface {
	ChangeMethods
	VariantMethods
	Ping(ctx context.Context) error
	Close() error
}
