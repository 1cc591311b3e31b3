package testutils

import (
	"github.com/ether/uiflex-go/lib"
	db2 "github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/ether/uiflex-go/lib/server"
	"github.com/ether/uiflex-go/lib/settings"
	"github.com/ether/uiflex-go/lib/variants"
	"go.uber.org/zap"
)

type TestMemoryUtils struct {
	DB       *db2.MemoryDataStore
	Settings *settings.Settings
	Store    *lib.InitStore
}

func TestSettings() *settings.Settings {
	return &settings.Settings{
		IP:         "127.0.0.1",
		Port:       "0",
		LogLevel:   "DEBUG",
		DBType:     settings.MEMORY,
		DBSettings: &settings.DBSettings{},
		Flex: settings.FlexSettings{
			VariantParameterName: variants.DefaultParameterName,
			MaxLayer:             change.USER,
		},
		Socket: settings.SocketSettings{MaxMessageSize: 64 * 1024},
	}
}

// InitMemoryUtils builds the full app on top of a memory store.
func InitMemoryUtils() *TestMemoryUtils {
	db := db2.NewMemoryDataStore()
	retrievedSettings := TestSettings()
	store := server.SetupApp(retrievedSettings, db, zap.NewNop().Sugar())
	return &TestMemoryUtils{DB: db, Settings: retrievedSettings, Store: store}
}
