package ui

import (
	"embed"
	"log/slog"

	"fyne.io/fyne/v2/lang"
)

// English is the fallback; keys missing from another language resolve to
// the default passed to lang.X.
//
//go:embed translations/*.json
var translationsFS embed.FS

func init() {
	if err := lang.AddTranslationsFS(translationsFS, "translations"); err != nil {
		slog.Error("failed to load translations", "error", err)
	}
}
