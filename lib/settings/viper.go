package settings

import (
	"errors"
	"strings"

	"github.com/ether/uiflex-go/lib/models/change"
	"github.com/spf13/viper"
)

func configure() {
	viper.Reset()
	viper.SetConfigName("settings")
	viper.AutomaticEnv()
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	ApplyRegistryDefaults()
}

// ReadConfig reads settings from a JSON document. An empty document yields
// the defaults, still overridable by environment variables.
func ReadConfig(jsonStr string) (*Settings, error) {
	configure()
	viper.SetConfigType("json")
	if jsonStr != "" {
		if err := viper.ReadConfig(strings.NewReader(jsonStr)); err != nil {
			return nil, err
		}
	}
	return fromViper()
}

// ReadConfigFromPath looks for a settings file in dir. A missing file is not
// an error.
func ReadConfigFromPath(dir string) (*Settings, error) {
	configure()
	viper.AddConfigPath(dir)
	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, err
		}
	}
	return fromViper()
}

func fromViper() (*Settings, error) {
	dbTypeToUse, err := ParseDBType(viper.GetString(DBType))
	if err != nil {
		return nil, err
	}
	maxLayer, err := change.ParseLayer(viper.GetString(FlexMaxLayer))
	if err != nil {
		return nil, err
	}

	return &Settings{
		IP:       viper.GetString(IP),
		Port:     viper.GetString(Port),
		LogLevel: viper.GetString(Loglevel),
		DBType:   dbTypeToUse,
		DBSettings: &DBSettings{
			Filename: viper.GetString(DBSettingsFilename),
			Host:     viper.GetString(DBSettingsHost),
			Port:     viper.GetInt(DBSettingsPort),
			Database: viper.GetString(DBSettingsDatabase),
			User:     viper.GetString(DBSettingsUser),
			Password: viper.GetString(DBSettingsPassword),
		},
		Flex: FlexSettings{
			VariantParameterName: viper.GetString(FlexVariantParameterName),
			MaxLayer:             maxLayer,
			CleanMergedChanges:   viper.GetBool(FlexCleanMergedChanges),
		},
		Socket: SocketSettings{
			MaxMessageSize: viper.GetInt64(SocketMaxMessageSize),
		},
	}, nil
}
