package settings

import (
	"os"

	"github.com/ether/uiflex-go/lib/models/change"
	"go.uber.org/zap"
)

type DBSettings struct {
	Filename string `json:"filename"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type FlexSettings struct {
	VariantParameterName string       `json:"variantParameterName"`
	MaxLayer             change.Layer `json:"maxLayer"`
	CleanMergedChanges   bool         `json:"cleanMergedChanges"`
}

type SocketSettings struct {
	MaxMessageSize int64 `json:"maxMessageSize"`
}

type Settings struct {
	Root       string         `json:"-"`
	IP         string         `json:"ip"`
	Port       string         `json:"port"`
	LogLevel   string         `json:"loglevel"`
	DBType     IDBType        `json:"dbType"`
	DBSettings *DBSettings    `json:"dbSettings"`
	Flex       FlexSettings   `json:"flex"`
	Socket     SocketSettings `json:"socket"`
	GitVersion string         `json:"-"`
}

var Displayed Settings

// InitSettings reads settings.json or settings.yaml from UIFLEX_SETTINGS_PATH
// or the working directory into Displayed.
func InitSettings(logger *zap.SugaredLogger) *Settings {
	root := os.Getenv(envPrefix + "_SETTINGS_PATH")
	if root == "" {
		root = "."
	}
	setting, err := ReadConfigFromPath(root)
	if err != nil {
		logger.Warnf("could not read settings, defaults are used: %v", err)
		setting, err = ReadConfig("")
		if err != nil {
			logger.Fatalf("invalid default settings: %v", err)
		}
	}
	setting.GitVersion = GitVersion()
	setting.Root = root
	Displayed = *setting
	return &Displayed
}
