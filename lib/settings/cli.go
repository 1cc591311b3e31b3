package settings

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// HandleConfigCommand runs "uiflex config <cmd>" and returns the exit code.
func HandleConfigCommand(logger *zap.SugaredLogger, args []string, out io.Writer) int {
	if len(args) < 1 {
		printConfigHelp(out)
		return 1
	}

	InitSettings(logger)
	switch args[0] {
	case "show":
		configShow(out)
	case "dump":
		configDump(out)
	case "env":
		configEnv(out)
	case "get":
		return configGet(out, args[1:])
	case "init":
		configInit(out)
	default:
		fmt.Fprintln(out, "Unknown config command:", args[0])
		printConfigHelp(out)
		return 1
	}
	return 0
}

func configShow(out io.Writer) {
	fmt.Fprintf(out,
		"%-30s %-35s %-30s %-30s %s\n",
		"KEY",
		"ENV VAR",
		"CURRENT",
		"DEFAULT",
		"DESCRIPTION",
	)

	for _, c := range Registry {
		fmt.Fprintf(out,
			"%-30s %-35s %-30v %-30v %s\n",
			c.Key,
			EnvVar(c.Key),
			viper.Get(c.Key),
			c.Default,
			c.Description,
		)
	}
}

func configDump(out io.Writer) {
	b, err := json.MarshalIndent(viper.AllSettings(), "", "  ")
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	fmt.Fprintln(out, string(b))
}

func configEnv(out io.Writer) {
	fmt.Fprintf(out, "%-35s %s\n", "ENV VAR", "KEY")
	for _, c := range Registry {
		fmt.Fprintf(out, "%-35s %s\n", EnvVar(c.Key), c.Key)
	}
}

func configGet(out io.Writer, args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(out, "Usage: uiflex config get <key>")
		return 1
	}

	key := args[0]
	for _, c := range Registry {
		if c.Key == key {
			fmt.Fprintln(out, viper.Get(key))
			return 0
		}
	}

	fmt.Fprintln(out, "Unknown config key:", key)
	return 1
}

func configInit(out io.Writer) {
	nested := map[string]any{}
	for _, c := range Registry {
		setNested(nested, c.Key, c.Default)
	}

	b, err := json.MarshalIndent(nested, "", "  ")
	if err != nil {
		fmt.Fprintln(out, "Error:", err)
		return
	}
	fmt.Fprintln(out, string(b))
}

func setNested(m map[string]any, key string, value any) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			child, ok := m[key[:i]].(map[string]any)
			if !ok {
				child = map[string]any{}
				m[key[:i]] = child
			}
			setNested(child, key[i+1:], value)
			return
		}
	}
	m[key] = value
}

func printConfigHelp(out io.Writer) {
	fmt.Fprintln(out, `Usage:
  uiflex config show
  uiflex config dump
  uiflex config env
  uiflex config get <key>
  uiflex config init`)
}
