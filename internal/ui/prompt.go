package ui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// Confirm asks a yes/no question. In headless mode the default is returned
// without prompting.
func Confirm(theme *Theme, hm *HeadlessManager, question string, def bool) (bool, error) {
	if hm.IsHeadless() {
		return def, nil
	}

	answer := def
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&answer),
	)).WithTheme(theme.Huh())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCancelled
		}
		return false, fmt.Errorf("confirm: %w", err)
	}
	return answer, nil
}
