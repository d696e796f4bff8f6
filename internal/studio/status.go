package studio

import (
	"fmt"
	"time"
)

type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// StatusText renders the save indicator. Pure function of its inputs
// so the same string is reproducible at any point in time.
func StatusText(isSaving bool, lastSaved time.Time, hasError bool, mode Mode, now time.Time) string {
	if isSaving {
		return "Saving…"
	}
	if hasError {
		return "Failed to save"
	}
	if lastSaved.IsZero() {
		if mode == ModeEdit {
			return "Saved"
		}
		return "Draft"
	}

	age := now.Sub(lastSaved)
	switch {
	case age < 5*time.Second:
		return "Saved"
	case age < time.Minute:
		return fmt.Sprintf("Saved %ds ago", int(age.Seconds()))
	default:
		return fmt.Sprintf("Saved %dm ago", int(age.Minutes()))
	}
}
