package api

import (
	"github.com/ether/uiflex-go/lib"
	"github.com/ether/uiflex-go/lib/api/changes"
	"github.com/ether/uiflex-go/lib/api/stats"
	"github.com/ether/uiflex-go/lib/api/variants"
	"github.com/ether/uiflex-go/lib/api/views"
)

func InitAPI(store *lib.InitStore) {
	changes.Init(store)
	views.Init(store)
	variants.Init(store)
	stats.Init(store)
}
