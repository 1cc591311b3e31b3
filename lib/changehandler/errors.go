package changehandler

import (
	"errors"
	"fmt"

	"github.com/ether/uiflex-go/lib/exception"
	"github.com/ether/uiflex-go/lib/models/change"
)

var ErrInsufficientContent = errors.New("change does not contain sufficient information to be applied")

func insufficientContent(c *change.Change) error {
	def := c.Definition()
	return exception.NewApplyError(c.ID(), fmt.Errorf("%w: [%s]%s/%s.%s", ErrInsufficientContent, def.Layer, def.Namespace, def.FileName, def.FileType))
}

func revertDataMissing(c *change.Change) error {
	return exception.NewRevertDataMissingError(c.ID())
}
