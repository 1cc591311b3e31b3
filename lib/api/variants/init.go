package variants

import (
	"github.com/ether/uiflex-go/lib"
	"github.com/ether/uiflex-go/lib/api/errors"
	"github.com/ether/uiflex-go/lib/api/utils"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/models/variant"
	models "github.com/ether/uiflex-go/lib/models/ws"
	flexVariants "github.com/ether/uiflex-go/lib/variants"
	"github.com/gofiber/fiber/v2"
)

type VariantsResponse struct {
	Reference    string               `json:"reference"`
	SelectionSet variant.SelectionSet `json:"variants"`
	// Parameters are the current variants as they appear in the URL.
	Parameters []string `json:"parameters"`
}

type ActivateRequest struct {
	// Target is a component or control id. Defaults to the reference.
	Target    string `json:"target"`
	VariantID string `json:"variantId" validate:"required"`
}

type DefaultVariantRequest struct {
	Group     string `json:"group" validate:"required"`
	VariantID string `json:"variantId" validate:"required"`
	Layer     string `json:"layer" validate:"required,oneof=VENDOR PARTNER CUSTOMER_BASE CUSTOMER USER"`
}

// notify tells open navigation sessions of reference to reload their variants.
func notify(store *lib.InitStore, reference string) {
	if store.Hub == nil {
		return
	}
	if err := store.Hub.Notify(reference, models.TypeVariantsChanged, models.VariantsChanged{Reference: reference}); err != nil {
		store.Logger.Warnf("could not notify sessions of %s: %v", reference, err)
	}
}

func respond(c *fiber.Ctx, model *flexVariants.Model) error {
	parameters := model.CurrentParameters()
	if parameters == nil {
		parameters = []string{}
	}
	return c.JSON(VariantsResponse{
		Reference:    model.Reference(),
		SelectionSet: model.SelectionSet(),
		Parameters:   parameters,
	})
}

// GetVariants godoc
// @Summary Variant selection of a reference
// @Tags Variants
// @Produce json
// @Param reference path string true "Application reference"
// @Success 200 {object} VariantsResponse
// @Router /flex/variants/{reference} [get]
func GetVariants(store *lib.InitStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		model, err := store.Manager.VariantModel(c.UserContext(), c.Params("reference"))
		if err != nil {
			return utils.SendError(c, err)
		}
		return respond(c, model)
	}
}

// SaveVariants godoc
// @Summary Replace the variant management groups of a reference
// @Tags Variants
// @Accept json
// @Produce json
// @Param reference path string true "Application reference"
// @Param request body variant.SelectionSet true "Groups by variant management id"
// @Success 200 {object} VariantsResponse
// @Router /flex/variants/{reference} [put]
func SaveVariants(store *lib.InitStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reference := c.Params("reference")
		if !store.Manager.IsValidReference(reference) {
			return c.Status(fiber.StatusBadRequest).JSON(errors.InvalidReferenceError)
		}
		var set variant.SelectionSet
		if err := c.BodyParser(&set); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errors.InvalidRequestError)
		}
		for groupID, group := range set {
			if group == nil {
				return c.Status(fiber.StatusBadRequest).JSON(errors.NewInvalidParamError(groupID))
			}
		}
		if err := store.Store.SaveVariants(c.UserContext(), reference, set); err != nil {
			store.Logger.Errorf("error saving variants of %s: %v", reference, err)
			return c.Status(fiber.StatusInternalServerError).JSON(errors.InternalServerError)
		}
		store.Manager.Runtime().RemoveComponent(reference)
		notify(store, reference)

		model, err := store.Manager.VariantModel(c.UserContext(), reference)
		if err != nil {
			return utils.SendError(c, err)
		}
		return respond(c, model)
	}
}

// ActivateVariant godoc
// @Summary Make a variant the current one of its variant management
// @Tags Variants
// @Accept json
// @Produce json
// @Param reference path string true "Application reference"
// @Param request body ActivateRequest true "Variant to activate"
// @Success 200 {object} VariantsResponse
// @Failure 400 {object} errors.Error "Invalid target or variant"
// @Router /flex/variants/{reference}/activate [post]
func ActivateVariant(store *lib.InitStore) fiber.Handler {
	api := flexVariants.NewAPI(store.Manager.Runtime(), store.Logger)
	return func(c *fiber.Ctx) error {
		var req ActivateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errors.InvalidRequestError)
		}
		if err := store.Validator.Struct(req); err != nil {
			return utils.ValidationFailed(c, err)
		}
		reference := c.Params("reference")
		model, err := store.Manager.VariantModel(c.UserContext(), reference)
		if err != nil {
			return utils.SendError(c, err)
		}
		target := req.Target
		if target == "" {
			target = reference
		}
		if err := api.ActivateVariant(c.UserContext(), target, req.VariantID); err != nil {
			return utils.SendError(c, err)
		}
		return respond(c, model)
	}
}

// SetDefaultVariant godoc
// @Summary Store a new default variant for a variant management
// @Tags Variants
// @Accept json
// @Produce json
// @Param reference path string true "Application reference"
// @Param request body DefaultVariantRequest true "New default"
// @Success 200 {object} VariantsResponse
// @Router /flex/variants/{reference}/default [post]
func SetDefaultVariant(store *lib.InitStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req DefaultVariantRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(errors.InvalidRequestError)
		}
		if err := store.Validator.Struct(req); err != nil {
			return utils.ValidationFailed(c, err)
		}
		reference := c.Params("reference")
		model, err := store.Manager.VariantModel(c.UserContext(), reference)
		if err != nil {
			return utils.SendError(c, err)
		}
		if !model.HasGroup(req.Group) {
			return c.Status(fiber.StatusNotFound).JSON(errors.NewNotFoundError("variant management '" + req.Group + "' not found"))
		}
		if owner, ok := model.GroupForVariant(req.VariantID); req.VariantID != req.Group && (!ok || owner != req.Group) {
			return c.Status(fiber.StatusNotFound).JSON(errors.NewNotFoundError("variant '" + req.VariantID + "' not found"))
		}

		layer, _ := change.ParseLayer(req.Layer)
		if err := store.Manager.SetDefaultVariant(c.UserContext(), reference, req.Group, req.VariantID, layer); err != nil {
			store.Logger.Errorf("error setting default variant of %s: %v", req.Group, err)
			return utils.SendError(c, err)
		}
		notify(store, reference)
		model, err = store.Manager.VariantModel(c.UserContext(), reference)
		if err != nil {
			return utils.SendError(c, err)
		}
		return respond(c, model)
	}
}

func Init(store *lib.InitStore) {
	store.C.Get("/flex/variants/:reference", GetVariants(store))
	store.C.Put("/flex/variants/:reference", SaveVariants(store))
	store.C.Post("/flex/variants/:reference/activate", ActivateVariant(store))
	store.C.Post("/flex/variants/:reference/default", SetDefaultVariant(store))
}
