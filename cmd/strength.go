package cmd

import (
	"fmt"
	"io"

	"github.com/HallyG/filelocker/internal/krypto"
	"github.com/HallyG/filelocker/internal/strength"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var levelColors = map[strength.Level]lipgloss.Color{
	strength.Weak:       lipgloss.Color("#FF0000"),
	strength.Medium:     lipgloss.Color("#FFA500"),
	strength.Strong:     lipgloss.Color("#FFFF00"),
	strength.VeryStrong: lipgloss.Color("#90EE90"),
}

func newStrengthCommand(reader PasswordReader) *cobra.Command {
	return &cobra.Command{
		Use:     "strength",
		Short:   "rate a password without encrypting anything",
		Example: "SFLK_PASSWORD='correct horse' sflk strength",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := readPassword(reader, cmd.ErrOrStderr(), false)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			defer krypto.Wipe(password)

			return printStrength(cmd.OutOrStdout(), string(password))
		},
	}
}

// printStrength writes the advisory rating for password to w, coloured when w is a terminal.
func printStrength(w io.Writer, password string) error {
	score, level := strength.Evaluate(password)

	style := lipgloss.NewRenderer(w).NewStyle().Bold(true).Foreground(levelColors[level])
	if _, err := fmt.Fprintf(w, "password strength: %s (%d/%d)\n", style.Render(level.String()), score, strength.MaxScore); err != nil {
		return err
	}

	if level == strength.Weak {
		if _, err := fmt.Fprintln(w, "warning: this password is weak; consider `sflk generate`"); err != nil {
			return err
		}
	}

	return nil
}
