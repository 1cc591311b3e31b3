package change

import (
	"maps"
	"sort"
	"time"

	"github.com/google/uuid"
)

type Selector struct {
	ID        string `json:"id" yaml:"id" validate:"required"`
	IDIsLocal bool   `json:"idIsLocal" yaml:"idIsLocal"`
}

type Text struct {
	Value string `json:"value" yaml:"value"`
	Type  string `json:"type" yaml:"type"`
}

type Support struct {
	Generator string `json:"generator" yaml:"generator"`
	User      string `json:"user" yaml:"user"`
	Service   string `json:"service" yaml:"service"`
}

type PendingAction string

const (
	PendingNone   PendingAction = ""
	PendingNew    PendingAction = "NEW"
	PendingDirty  PendingAction = "DIRTY"
	PendingDelete PendingAction = "DELETE"
)

// Definition is the persisted shape of a change record.
type Definition struct {
	FileName         string          `json:"fileName" yaml:"fileName"`
	FileType         string          `json:"fileType" yaml:"fileType"`
	Namespace        string          `json:"namespace" yaml:"namespace"`
	PackageName      string          `json:"packageName" yaml:"packageName"`
	Reference        string          `json:"reference" yaml:"reference"`
	Layer            Layer           `json:"layer" yaml:"layer"`
	ChangeType       string          `json:"changeType" yaml:"changeType"`
	Selector         Selector        `json:"selector" yaml:"selector"`
	Content          map[string]any  `json:"content" yaml:"content"`
	Texts            map[string]Text `json:"texts" yaml:"texts"`
	Support          Support         `json:"support" yaml:"support"`
	Creation         string          `json:"creation" yaml:"creation"`
	OriginalLanguage string          `json:"originalLanguage" yaml:"originalLanguage"`
	VariantReference string          `json:"variantReference,omitempty" yaml:"variantReference,omitempty"`
}

// Change wraps a Definition with the runtime state the engine needs.
type Change struct {
	definition    Definition
	revertData    any
	hasRevertData bool
	pendingAction PendingAction
}

func NewID() string {
	return "id_" + uuid.NewString()
}

func NewChange(def Definition) *Change {
	if def.FileName == "" {
		def.FileName = NewID()
	}
	if def.FileType == "" {
		def.FileType = "change"
	}
	if def.Content == nil {
		def.Content = map[string]any{}
	}
	if def.Texts == nil {
		def.Texts = map[string]Text{}
	}
	return &Change{definition: def}
}

// Clone returns a copy that shares no runtime state with c. The content and
// text maps are copied one level deep.
func (c *Change) Clone() *Change {
	def := c.definition
	def.Content = maps.Clone(c.definition.Content)
	def.Texts = maps.Clone(c.definition.Texts)
	return &Change{
		definition:    def,
		revertData:    c.revertData,
		hasRevertData: c.hasRevertData,
		pendingAction: c.pendingAction,
	}
}

// CloneAll clones every change of a batch.
func CloneAll(changes []*Change) []*Change {
	out := make([]*Change, len(changes))
	for i, c := range changes {
		out[i] = c.Clone()
	}
	return out
}

func (c *Change) ID() string {
	return c.definition.FileName
}

func (c *Change) Definition() *Definition {
	return &c.definition
}

func (c *Change) Layer() Layer {
	return c.definition.Layer
}

func (c *Change) ChangeType() string {
	return c.definition.ChangeType
}

func (c *Change) Selector() Selector {
	return c.definition.Selector
}

func (c *Change) Content() map[string]any {
	return c.definition.Content
}

func (c *Change) Text(key string) (Text, bool) {
	text, ok := c.definition.Texts[key]
	return text, ok
}

func (c *Change) SetText(key, value, textType string) {
	c.definition.Texts[key] = Text{Value: value, Type: textType}
}

func (c *Change) Reference() string {
	return c.definition.Reference
}

func (c *Change) Creation() string {
	return c.definition.Creation
}

func (c *Change) SetRevertData(data any) {
	c.revertData = data
	c.hasRevertData = true
}

func (c *Change) RevertData() (any, bool) {
	return c.revertData, c.hasRevertData
}

func (c *Change) HasRevertData() bool {
	return c.hasRevertData
}

func (c *Change) ResetRevertData() {
	c.revertData = nil
	c.hasRevertData = false
}

func (c *Change) PendingAction() PendingAction {
	return c.pendingAction
}

func (c *Change) SetPendingAction(action PendingAction) {
	c.pendingAction = action
}

func (c *Change) MarkForDeletion() {
	c.pendingAction = PendingDelete
}

// creationTime parses the creation timestamp. An empty creation means the
// change was never persisted and therefore counts as the newest one.
func (c *Change) creationTime() (time.Time, bool) {
	if c.definition.Creation == "" {
		return time.Time{}, false
	}
	parsed, err := time.Parse(time.RFC3339Nano, c.definition.Creation)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}

// CreatedBefore reports whether c was created strictly before other.
func (c *Change) CreatedBefore(other *Change) bool {
	if c.definition.Creation == "" {
		return false
	}
	if other.definition.Creation == "" {
		return true
	}
	ct, okC := c.creationTime()
	ot, okO := other.creationTime()
	if okC && okO {
		return ct.Before(ot)
	}
	return c.definition.Creation < other.definition.Creation
}

// Less orders by layer, then by creation.
func (c *Change) Less(other *Change) bool {
	if c.Layer() != other.Layer() {
		return c.Layer() < other.Layer()
	}
	return c.CreatedBefore(other)
}

// SortChanges sorts in place into the persisted application order. The sort is
// stable so changes without a usable timestamp keep their load order.
func SortChanges(changes []*Change) {
	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].Less(changes[j])
	})
}
