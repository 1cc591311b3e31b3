package db

import (
	"errors"

	"github.com/ether/uiflex-go/lib/models/change"
)

const ChangeNotFoundError = "change not found"
const ChangeIDMissingError = "change has no file name"
const ReferenceMissingError = "change has no reference"

var (
	ErrChangeNotFound   = errors.New(ChangeNotFoundError)
	ErrChangeIDMissing  = errors.New(ChangeIDMissingError)
	ErrReferenceMissing = errors.New(ReferenceMissingError)
)

func validateDefinition(def change.Definition) error {
	if def.FileName == "" {
		return ErrChangeIDMissing
	}
	if err := change.ValidateID(def.FileName); err != nil {
		return err
	}
	if def.Reference == "" {
		return ErrReferenceMissing
	}
	return nil
}
