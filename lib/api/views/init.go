package views

import (
	"bytes"

	"github.com/ether/uiflex-go/lib"
	"github.com/ether/uiflex-go/lib/api/constants"
	"github.com/ether/uiflex-go/lib/api/errors"
	"github.com/ether/uiflex-go/lib/api/utils"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/ether/uiflex-go/lib/xmlview"
	"github.com/gofiber/fiber/v2"
)

type ProcessResponse struct {
	View    string        `json:"view"`
	Results []flex.Result `json:"results"`
}

// ProcessView godoc
// @Summary Apply the stored changes to an XML view
// @Description The body is the view markup. The processed markup is returned,
// @Description or the markup with per change results when format=json.
// @Tags Views
// @Accept xml
// @Produce xml,json
// @Param reference path string true "Application reference"
// @Param appComponentId query string false "Id of the owning app component"
// @Param sync query bool false "Synchronous views are returned unchanged"
// @Param format query string false "xml or json"
// @Router /flex/views/{reference}/process [post]
func ProcessView(store *lib.InitStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		controller, err := store.Manager.Controller(c.Params("reference"))
		if err != nil {
			return utils.SendError(c, err)
		}
		view, err := xmlview.Parse(bytes.NewReader(c.Body()))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errors.InvalidViewError)
		}

		opts := flex.XMLProcessOptions{
			AppComponentID: c.Query("appComponentId"),
			Sync:           c.QueryBool("sync", false),
		}
		processed, results, err := controller.ProcessXMLView(c.UserContext(), view, opts)
		if err != nil {
			store.Logger.Errorf("error processing view of %s: %v", c.Params("reference"), err)
			return utils.SendError(c, err)
		}
		if failed := flex.Failures(results); len(failed) > 0 {
			store.Logger.Warnf("%d of %d changes failed on view of %s", len(failed), len(results), c.Params("reference"))
		}

		if c.Query("format") == "json" {
			if results == nil {
				results = []flex.Result{}
			}
			return c.JSON(ProcessResponse{View: xmlview.String(processed), Results: results})
		}
		c.Set(fiber.HeaderContentType, constants.ContentTypeXML)
		return c.SendString(xmlview.String(processed))
	}
}

func Init(store *lib.InitStore) {
	store.C.Post("/flex/views/:reference/process", ProcessView(store))
}
