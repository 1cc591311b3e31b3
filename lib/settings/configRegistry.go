package settings

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	IP                       = "ip"
	Port                     = "port"
	Loglevel                 = "loglevel"
	DBType                   = "dbType"
	DBSettingsFilename       = "dbSettings.filename"
	DBSettingsHost           = "dbSettings.host"
	DBSettingsPort           = "dbSettings.port"
	DBSettingsDatabase       = "dbSettings.database"
	DBSettingsUser           = "dbSettings.user"
	DBSettingsPassword       = "dbSettings.password"
	FlexVariantParameterName = "flex.variantParameterName"
	FlexMaxLayer             = "flex.maxLayer"
	FlexCleanMergedChanges   = "flex.cleanMergedChanges"
	SocketMaxMessageSize     = "socket.maxMessageSize"
)

type ConfigKey struct {
	Key         string
	Default     any
	Description string
}

const envPrefix = "UIFLEX"

func EnvVar(key string) string {
	return envPrefix + "_" + strings.ToUpper(
		strings.ReplaceAll(key, ".", "_"),
	)
}

var Registry = []ConfigKey{
	// ---------------------------------------------------------------------
	// Core
	// ---------------------------------------------------------------------
	{Key: IP, Default: "0.0.0.0", Description: "Bind address"},
	{Key: Port, Default: "9002", Description: "HTTP server port"},
	{Key: Loglevel, Default: "INFO", Description: "Log level (DEBUG, INFO, WARN, ERROR)"},

	// ---------------------------------------------------------------------
	// Database
	// ---------------------------------------------------------------------
	{Key: DBType, Default: string(SQLITE), Description: "Database type (memory, sqlite, postgres)"},
	{
		Key:         DBSettingsFilename,
		Default:     "var/uiflex.db",
		Description: "SQLite database filename",
	},
	{Key: DBSettingsHost, Default: "localhost", Description: "Database host"},
	{Key: DBSettingsPort, Default: 5432, Description: "Database port"},
	{Key: DBSettingsDatabase, Default: "uiflex", Description: "Database name"},
	{Key: DBSettingsUser, Default: "", Description: "Database user"},
	{Key: DBSettingsPassword, Default: "", Description: "Database password"},

	// ---------------------------------------------------------------------
	// Flexibility
	// ---------------------------------------------------------------------
	{
		Key:         FlexVariantParameterName,
		Default:     "sap-ui-fl-control-variant-id",
		Description: "URL parameter carrying the selected variants",
	},
	{
		Key:         FlexMaxLayer,
		Default:     "USER",
		Description: "Highest layer whose changes are loaded",
	},
	{
		Key:         FlexCleanMergedChanges,
		Default:     false,
		Description: "Drop merged changes after a view was processed",
	},

	// ---------------------------------------------------------------------
	// Websocket
	// ---------------------------------------------------------------------
	{
		Key:         SocketMaxMessageSize,
		Default:     int64(64 * 1024),
		Description: "Maximum size of a navigation socket message in bytes",
	},
}

func ApplyRegistryDefaults() {
	for _, c := range Registry {
		viper.SetDefault(c.Key, c.Default)
	}
}
