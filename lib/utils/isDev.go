package utils

import "os"

func IsDevModeEnabled() bool {
	env := os.Getenv("UIFLEX_ENV")
	return env == "development" || env == "dev"
}
