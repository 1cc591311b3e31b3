package db

import (
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/ether/uiflex-go/lib/models/change"
)

func CreateRandomChange(reference string) change.Definition {
	return change.Definition{
		FileName:   change.NewID(),
		FileType:   "change",
		Namespace:  "apps/" + reference + "/changes/",
		Reference:  reference,
		Layer:      change.Layer(gofakeit.IntRange(int(change.VENDOR), int(change.USER))),
		ChangeType: "rename",
		Selector:   change.Selector{ID: gofakeit.Word(), IDIsLocal: gofakeit.Bool()},
		Content:    map[string]any{"originalControlType": "sap.m.Label"},
		Texts: map[string]change.Text{
			"newText": {Value: gofakeit.Name(), Type: "XFLD"},
		},
		Support: change.Support{
			Generator: "uiflex",
			User:      gofakeit.Username(),
		},
		Creation:         gofakeit.Date().UTC().Format(time.RFC3339Nano),
		OriginalLanguage: "EN",
	}
}
