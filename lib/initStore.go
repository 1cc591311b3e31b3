package lib

import (
	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/settings"
	"github.com/ether/uiflex-go/lib/ws"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type InitStore struct {
	C                 *fiber.App
	RetrievedSettings *settings.Settings
	Store             db.DataStore
	Manager           *flex.Manager
	Hub               *ws.Hub
	Validator         *validator.Validate
	Logger            *zap.SugaredLogger
	Hooks             *hooks.Hook
}
