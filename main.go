package main

import (
	"os"

	"github.com/ether/uiflex-go/lib/cli"
	"github.com/ether/uiflex-go/lib/server"
	"github.com/ether/uiflex-go/lib/settings"
	"github.com/ether/uiflex-go/lib/utils"
)

func main() {
	setupLogger := utils.SetupLogger(os.Getenv(settings.EnvVar(settings.Loglevel)))
	defer setupLogger.Sync()

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "config":
			os.Exit(settings.HandleConfigCommand(setupLogger, os.Args[2:], os.Stdout))
		case "apply":
			os.Exit(cli.RunApply(setupLogger, os.Args[2:], os.Stdout))
		case "navigate":
			os.Exit(cli.RunNavigate(setupLogger, os.Args[2:], os.Stdin, os.Stdout))
		}
	}

	server.InitServer(setupLogger)
}
