package notifier

import (
	"fmt"

	"FondoSync/internal/model"
)

// FormatRunSummary renders one ingestion run for Telegram (HTML mode).
func FormatRunSummary(s model.RunSummary) string {
	status := "✅"
	if !s.Success {
		status = "❌"
	}
	return fmt.Sprintf(
		"%s <b>Ingesta diaria de fondos</b> (%s)\n\n"+
			"Intentados: %d\nRecolectados: %d\nGuardados: %d\nErrores: %d\n\n%s",
		status, s.Source, s.Attempted, s.Collected, s.Saved, s.Errors, s.Message,
	)
}
