package server

import (
	"fmt"
	"net/http"
	"os"

	"github.com/ether/uiflex-go/lib"
	api2 "github.com/ether/uiflex-go/lib/api"
	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/flex"
	"github.com/ether/uiflex-go/lib/hooks"
	"github.com/ether/uiflex-go/lib/hooks/events"
	"github.com/ether/uiflex-go/lib/registry"
	settings2 "github.com/ether/uiflex-go/lib/settings"
	"github.com/ether/uiflex-go/lib/utils"
	"github.com/ether/uiflex-go/lib/variants"
	"github.com/ether/uiflex-go/lib/ws"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SetupApp builds the fiber app with every route on top of dataStore. The
// navigation hub is started as well.
func SetupApp(settings *settings2.Settings, dataStore db.DataStore, setupLogger *zap.SugaredLogger) *lib.InitStore {
	validatorEvaluator := validator.New(validator.WithRequiredStructEnabled())
	retrievedHooks := hooks.NewHook()
	logHooks(retrievedHooks, setupLogger)

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	manager := flex.NewManager(dataStore, registry.Default(), retrievedHooks, variants.NewRuntime(nil), flex.ManagerOptions{
		MaxLayer:           settings.Flex.MaxLayer,
		CleanMergedChanges: settings.Flex.CleanMergedChanges,
	}, setupLogger)

	globalHub := ws.NewHub()
	go globalHub.Run()

	store := &lib.InitStore{
		C:                 app,
		RetrievedSettings: settings,
		Store:             dataStore,
		Manager:           manager,
		Hub:               globalHub,
		Validator:         validatorEvaluator,
		Logger:            setupLogger,
		Hooks:             retrievedHooks,
	}
	api2.InitAPI(store)

	app.Get("/flex/navigation", func(c *fiber.Ctx) error {
		return adaptor.HTTPHandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ws.ServeNavigationWs(writer, request, globalHub, manager, settings, setupLogger)
		})(c)
	})
	return store
}

func logHooks(retrievedHooks *hooks.Hook, logger *zap.SugaredLogger) {
	retrievedHooks.EnqueueChangeApplyFailedHook(func(ctx *events.ChangeContext) {
		logger.Debugw("change failed", "change", ctx.Change.ID(), "element", ctx.ElementID, "modifier", ctx.Modifier)
	})
	retrievedHooks.EnqueueVariantSwitchedHook(func(ctx *events.VariantSwitchedContext) {
		logger.Debugw("variant switched", "reference", ctx.Reference, "group", ctx.Group, "variant", ctx.CurrentVariant)
	})
}

func InitServer(setupLogger *zap.SugaredLogger) {
	settings := settings2.InitSettings(setupLogger)

	gitVersion := settings2.GetGitCommit()
	setupLogger.Info("Starting uiflex...")
	setupLogger.Info("Your uiflex version is " + gitVersion)
	settings.GitVersion = gitVersion

	dataStore, err := utils.GetDB(*settings, setupLogger)
	if err != nil {
		setupLogger.Fatal("Error connecting to database: " + err.Error())
		return
	}
	defer dataStore.Close()

	store := SetupApp(settings, dataStore, setupLogger)

	fiberString := fmt.Sprintf("%s:%s", settings.IP, settings.Port)
	setupLogger.Info("Starting API on " + fiberString)
	err = store.C.Listen(fiberString)
	if err != nil {
		setupLogger.Error("Error starting API: " + err.Error())
		os.Exit(1)
	}
}
