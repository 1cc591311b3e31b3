package flex

import (
	"time"

	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
)

const (
	DefaultVariantChangeType = "defaultVariant"
	defaultVariantContentKey = "defaultVariantName"
)

// GetDefaultVariantID returns the variant named by the newest defaultVariant
// change. Older ones are marked for deletion since they can never win again.
// A change without creation timestamp has not been saved yet and counts as
// the newest.
func GetDefaultVariantID(changes []*change.Change) string {
	var newest *change.Change
	for _, c := range changes {
		if c.ChangeType() != DefaultVariantChangeType {
			continue
		}
		if newest == nil || newest.CreatedBefore(c) || c.Creation() == "" {
			if newest != nil {
				newest.MarkForDeletion()
			}
			newest = c
			continue
		}
		c.MarkForDeletion()
	}
	if newest == nil {
		return ""
	}
	name, _ := newest.Content()[defaultVariantContentKey].(string)
	return name
}

// CreateDefaultVariantChange builds the change that makes variantID the
// default of the variant management control groupID.
func CreateDefaultVariantChange(reference, groupID, variantID string, layer change.Layer) *change.Change {
	return change.NewChange(change.Definition{
		FileType:   VariantManagementFileType,
		Namespace:  namespaceFor(reference),
		Reference:  reference,
		Layer:      layer,
		ChangeType: DefaultVariantChangeType,
		Selector:   change.Selector{ID: groupID},
		Content:    map[string]any{defaultVariantContentKey: variantID},
		Support:    change.Support{Generator: Generator},
		Creation:   time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func UpdateDefaultVariantID(c *change.Change, variantID string) {
	c.Content()[defaultVariantContentKey] = variantID
}

// ApplyDefaultVariantChanges sets the default variant of every group in set
// that has defaultVariant changes. Groups keep their original default in
// OriginalDefaultVariant.
func ApplyDefaultVariantChanges(set variant.SelectionSet, changes []*change.Change) {
	byGroup := make(map[string][]*change.Change)
	for _, c := range changes {
		if c.ChangeType() == DefaultVariantChangeType {
			byGroup[c.Selector().ID] = append(byGroup[c.Selector().ID], c)
		}
	}
	for groupID, groupChanges := range byGroup {
		group, ok := set[groupID]
		if !ok {
			continue
		}
		defaultID := GetDefaultVariantID(groupChanges)
		if defaultID == "" || (defaultID != groupID && !group.HasVariant(defaultID)) {
			continue
		}
		if group.OriginalDefaultVariant == "" {
			group.OriginalDefaultVariant = group.DefaultVariant
		}
		group.DefaultVariant = defaultID
	}
}
