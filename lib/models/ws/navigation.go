package ws

import (
	"encoding/json"

	"github.com/ether/uiflex-go/lib/variants"
)

// Incoming message types.
const (
	TypeHashChanged     = "hashChanged"
	TypeHashReplaced    = "hashReplaced"
	TypeGetState        = "getState"
	TypeActivateVariant = "activateVariant"
)

// Outgoing message types.
const (
	TypeSetParameter    = "setParameter"
	TypeRouteChanged    = "routeChanged"
	TypeState           = "state"
	TypeError           = "error"
	TypeVariantsChanged = "variantsChanged"
)

// EventMessage is the envelope of every message in both directions.
type EventMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// HashChanged reports a browser navigation. Direction is one of NewEntry,
// Backwards, Forwards and Unknown; empty means NewEntry.
type HashChanged struct {
	NewHash   string `json:"newHash"`
	OldHash   string `json:"oldHash"`
	Direction string `json:"direction"`
}

type HashReplaced struct {
	Hash string `json:"hash"`
}

type ActivateVariant struct {
	Target    string `json:"target"`
	VariantID string `json:"variantId"`
}

// SetParameter asks the browser to replace its hash without a history entry.
type SetParameter struct {
	Hash   string   `json:"hash"`
	Values []string `json:"values"`
}

// RouteChanged carries the app specific route of a navigation that only
// changed the variant parameter.
type RouteChanged struct {
	NewRoute string `json:"newRoute"`
	OldRoute string `json:"oldRoute"`
}

type State struct {
	variants.State
	Hash       string   `json:"hash"`
	Parameters []string `json:"parameters"`
}

type Error struct {
	Message string `json:"message"`
}

type VariantsChanged struct {
	Reference string `json:"reference"`
}
