package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/HallyG/filelocker/internal/krypto"
	"github.com/HallyG/filelocker/internal/locker"
	"github.com/spf13/cobra"
)

var (
	BuildVersion  = `(missing)`
	BuildShortSHA = `(missing)`
)

// Main runs the sflk command line with args, where args[0] is the program name.
func Main(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) error {
	return newRootCommand(args, stdout, stderr, nil).ExecuteContext(ctx)
}

func newRootCommand(args []string, stdout io.Writer, stderr io.Writer, reader PasswordReader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "sflk",
		Short:   "Lock and unlock files with a password using the SFLK container format.",
		Version: fmt.Sprintf("%s (%s)", BuildVersion, BuildShortSHA),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			verbose, err := cmd.Flags().GetBool("verbose")
			if err != nil {
				return err
			}

			setupLogging(verbose, cmd.ErrOrStderr())

			return nil
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	if len(args) > 0 {
		rootCmd.SetArgs(args[1:])
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose logging")
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.AddCommand(
		newLockCommand("encrypt", "encrypt a file into an SFLK container", "sflk encrypt --input report.pdf", true, reader),
		newLockCommand("decrypt", "decrypt an SFLK container", "sflk decrypt --input report.pdf.sflk", false, reader),
		newStrengthCommand(reader),
		newGenerateCommand(),
	)

	return rootCmd
}

func newLockCommand(name string, short string, example string, encrypting bool, reader PasswordReader) *cobra.Command {
	cmd := &cobra.Command{
		Use:     name,
		Short:   short,
		Example: example,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := cmd.Flags().GetString("input")
			if err != nil {
				return fmt.Errorf("failed to get input flag: %w", err)
			}

			output, err := cmd.Flags().GetString("output")
			if err != nil {
				return fmt.Errorf("failed to get output flag: %w", err)
			}

			force, err := cmd.Flags().GetBool("force")
			if err != nil {
				return fmt.Errorf("failed to get force flag: %w", err)
			}

			password, err := readPassword(reader, cmd.ErrOrStderr(), encrypting)
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			defer krypto.Wipe(password)

			l, err := locker.New(locker.WithLogger(slog.Default()))
			if err != nil {
				return fmt.Errorf("failed to create locker: %w", err)
			}

			req := locker.Request{
				InputPath:  input,
				OutputPath: output,
				Password:   password,
				Force:      force,
			}

			if !encrypting {
				written, err := l.DecryptFile(cmd.Context(), req)
				if err != nil {
					return fmt.Errorf("decryption failed: %w", err)
				}

				_, err = fmt.Fprintf(cmd.OutOrStdout(), "decrypted: %s\n", written)
				return err
			}

			if err := printStrength(cmd.ErrOrStderr(), string(password)); err != nil {
				return err
			}

			written, err := l.EncryptFile(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("encryption failed: %w", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "encrypted: %s\n", written)
			return err
		},
	}

	cmd.Flags().StringP("input", "i", "", "Input `file`")
	cmd.Flags().StringP("output", "o", "", "Output `file` (default: derived from input)")
	cmd.Flags().BoolP("force", "f", false, "Overwrite existing output file")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func setupLogging(verbose bool, output io.Writer) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
