package cmd

import (
	"fmt"
	"strings"

	"github.com/sethvargo/go-diceware/diceware"
	"github.com/spf13/cobra"
)

const (
	defaultPassphraseWords = 6
	passphraseSeparator    = "-"
)

func newGenerateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "generate",
		Short:   "generate a random diceware passphrase",
		Example: "sflk generate --words 8",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			words, err := cmd.Flags().GetInt("words")
			if err != nil {
				return fmt.Errorf("failed to get words flag: %w", err)
			}

			passphrase, err := generatePassphrase(words)
			if err != nil {
				return err
			}

			if _, err := fmt.Fprintln(cmd.OutOrStdout(), passphrase); err != nil {
				return err
			}

			return printStrength(cmd.ErrOrStderr(), passphrase)
		},
	}

	cmd.Flags().IntP("words", "w", defaultPassphraseWords, "Number of words in the passphrase")

	return cmd
}

func generatePassphrase(words int) (string, error) {
	if words < 1 {
		return "", fmt.Errorf("words must be at least 1, got %d", words)
	}

	list, err := diceware.Generate(words)
	if err != nil {
		return "", fmt.Errorf("failed to generate passphrase: %w", err)
	}

	return strings.Join(list, passphraseSeparator), nil
}
