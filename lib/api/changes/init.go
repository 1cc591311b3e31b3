package changes

import (
	"github.com/ether/uiflex-go/lib"
	"github.com/ether/uiflex-go/lib/api/errors"
	"github.com/ether/uiflex-go/lib/api/utils"
	"github.com/ether/uiflex-go/lib/changehandler"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/modifier"
	"github.com/ether/uiflex-go/lib/xmlview"
	"github.com/gofiber/fiber/v2"
)

type ChangesResponse struct {
	Reference string              `json:"reference"`
	Changes   []change.Definition `json:"changes"`
}

type CreateChangeRequest struct {
	Reference      string         `json:"reference" validate:"required"`
	AppComponentID string         `json:"appComponentId"`
	Layer          string         `json:"layer" validate:"required,oneof=VENDOR PARTNER CUSTOMER_BASE CUSTOMER USER"`
	User           string         `json:"user"`
	View           string         `json:"view" validate:"required"`
	Target         string         `json:"target" validate:"required"`
	ChangeType     string         `json:"changeType" validate:"required"`
	Value          any            `json:"value,omitempty"`
	Property       string         `json:"property,omitempty"`
	Content        map[string]any `json:"content,omitempty"`
}

type DiscardResponse struct {
	Deleted int `json:"deleted"`
}

// GetChanges godoc
// @Summary List the changes of a reference
// @Tags Changes
// @Produce json
// @Param reference path string true "Application reference"
// @Param layer query string false "Only changes of this layer"
// @Success 200 {object} ChangesResponse
// @Router /flex/changes/{reference} [get]
func GetChanges(store *lib.InitStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reference := c.Params("reference")
		controller, err := store.Manager.Controller(reference)
		if err != nil {
			return utils.SendError(c, err)
		}

		var layer *change.Layer
		if rawLayer := c.Query("layer"); rawLayer != "" {
			parsed, err := change.ParseLayer(rawLayer)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(errors.NewInvalidParamError("layer"))
			}
			layer = &parsed
		}

		ctx := c.UserContext()
		fileChanges, err := controller.Persistence().LoadChangesForTree(ctx, "", "")
		if err != nil {
			store.Logger.Errorf("error loading changes of %s: %v", reference, err)
			return c.Status(fiber.StatusInternalServerError).JSON(errors.DataRetrievalError)
		}
		variantChanges, err := controller.Persistence().VariantManagementChanges(ctx)
		if err != nil {
			store.Logger.Errorf("error loading variant changes of %s: %v", reference, err)
			return c.Status(fiber.StatusInternalServerError).JSON(errors.DataRetrievalError)
		}

		resp := ChangesResponse{Reference: reference, Changes: []change.Definition{}}
		for _, ch := range append(fileChanges, variantChanges...) {
			if layer != nil && ch.Layer() != *layer {
				continue
			}
			resp.Changes = append(resp.Changes, *ch.Definition())
		}
		return c.JSON(resp)
	}
}

// CreateChange godoc
// @Summary Create a change for a control of an XML view
// @Tags Changes
// @Accept json
// @Produce json
// @Param request body CreateChangeRequest true "Change to create"
// @Success 201 {object} change.Definition
// @Failure 404 {object} errors.Error "Target not found"
// @Failure 422 {object} errors.Error "No handler for the change type"
// @Router /flex/changes [post]
func CreateChange(store *lib.InitStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req CreateChangeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errors.InvalidRequestError)
		}
		if err := store.Validator.Struct(req); err != nil {
			return utils.ValidationFailed(c, err)
		}

		controller, err := store.Manager.Controller(req.Reference)
		if err != nil {
			return utils.SendError(c, err)
		}
		view, err := xmlview.ParseString(req.View)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errors.InvalidViewError)
		}

		xmlModifier := modifier.NewXMLTreeModifier()
		target, err := xmlModifier.BySelector(change.Selector{ID: req.Target}, req.AppComponentID, view)
		if err != nil {
			return utils.SendError(c, err)
		}

		layer, _ := change.ParseLayer(req.Layer)
		info := changehandler.SpecificInfo{
			ChangeType: req.ChangeType,
			Value:      req.Value,
			Property:   req.Property,
			Content:    req.Content,
		}
		bag := changehandler.PropertyBag{Modifier: xmlModifier, View: view, AppComponentID: req.AppComponentID}
		created, err := controller.AddChange(info, target, bag, flex.ChangeOptions{Layer: layer, User: req.User})
		if err != nil {
			return utils.SendError(c, err)
		}
		if err := controller.SaveAll(c.UserContext()); err != nil {
			store.Logger.Errorf("error saving change %s: %v", created.ID(), err)
			return c.Status(fiber.StatusInternalServerError).JSON(errors.InternalServerError)
		}
		return c.Status(fiber.StatusCreated).JSON(created.Definition())
	}
}

// DiscardChanges godoc
// @Summary Delete all changes of one layer
// @Tags Changes
// @Produce json
// @Param reference path string true "Application reference"
// @Param layer query string true "Layer to discard"
// @Success 200 {object} DiscardResponse
// @Router /flex/changes/{reference} [delete]
func DiscardChanges(store *lib.InitStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rawLayer := c.Query("layer")
		if rawLayer == "" {
			return c.Status(fiber.StatusBadRequest).JSON(errors.NewMissingParamError("layer"))
		}
		layer, err := change.ParseLayer(rawLayer)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errors.NewInvalidParamError("layer"))
		}
		controller, err := store.Manager.Controller(c.Params("reference"))
		if err != nil {
			return utils.SendError(c, err)
		}
		deleted, err := controller.DiscardChangesForLayer(c.UserContext(), layer)
		if err != nil {
			store.Logger.Errorf("error discarding %s changes: %v", layer, err)
			return c.Status(fiber.StatusInternalServerError).JSON(errors.InternalServerError)
		}
		store.Manager.Runtime().RemoveComponent(c.Params("reference"))
		return c.JSON(DiscardResponse{Deleted: deleted})
	}
}

func Init(store *lib.InitStore) {
	store.C.Get("/flex/changes/:reference", GetChanges(store))
	store.C.Post("/flex/changes", CreateChange(store))
	store.C.Delete("/flex/changes/:reference", DiscardChanges(store))
}
