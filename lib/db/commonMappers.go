package db

import (
	"encoding/json"
	"fmt"

	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
)

type Reader interface {
	Scan(dest ...any) error
}

func ReadToChangeDefinition(reader Reader) (*change.Definition, error) {
	var raw string
	if err := reader.Scan(&raw); err != nil {
		return nil, err
	}
	var def change.Definition
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return nil, fmt.Errorf("error unmarshaling change: %w", err)
	}
	return &def, nil
}

func ReadToVariantGroup(reader Reader) (string, *variant.Group, error) {
	var groupID, raw string
	if err := reader.Scan(&groupID, &raw); err != nil {
		return "", nil, err
	}
	var group variant.Group
	if err := json.Unmarshal([]byte(raw), &group); err != nil {
		return "", nil, fmt.Errorf("error unmarshaling variant group %s: %w", groupID, err)
	}
	return groupID, &group, nil
}
