package ui

import (
	"fmt"

	"github.com/charmbracelet/huh"
)

// Confirm shows a yes/no prompt and returns the answer.
// A cancelled prompt counts as "no".
func Confirm(title, description, affirmative, negative string) (bool, error) {
	var confirmed bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative(affirmative).
				Negative(negative).
				Value(&confirmed),
		),
	).WithTheme(Theme())

	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation cancelled: %w", err)
	}

	return confirmed, nil
}
