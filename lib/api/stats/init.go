package stats

import (
	"github.com/ether/uiflex-go/lib"
	"github.com/ether/uiflex-go/lib/settings"
)

func Init(store *lib.InitStore) {
	checks := []Checker{
		NewDBChecker(store.Store),
		NewNavigationChecker(store.Hub),
	}

	version, releaseID := settings.BuildInfo()
	store.C.Get("/health", Handler(
		version,
		releaseID,
		"uiflex-api",
		checks,
	))
}
