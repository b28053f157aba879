package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/HallyG/filelocker/internal/krypto"
	"github.com/HallyG/filelocker/internal/locker"
	"golang.org/x/term"
)

// PasswordEnvVar, when set and non-empty, is used instead of prompting.
const PasswordEnvVar = "SFLK_PASSWORD"

// PasswordReader defines an interface for reading passwords from a terminal-like input.
type PasswordReader interface {
	// IsTerminal reports whether the input is a terminal (TTY).
	IsTerminal() bool
	// ReadPassword writes the prompt to the output and reads a password from the input.
	ReadPassword(prompt string, output io.Writer) ([]byte, error)
}

type terminalPasswordReader struct{}

func (d *terminalPasswordReader) IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// ReadPassword prompts for and reads a password from os.Stdin without echo.
func (d *terminalPasswordReader) ReadPassword(prompt string, output io.Writer) ([]byte, error) {
	if _, err := fmt.Fprint(output, prompt); err != nil {
		return nil, fmt.Errorf("failed to write prompt: %w", err)
	}

	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	if _, err := fmt.Fprintln(output); err != nil {
		return nil, fmt.Errorf("failed to write newline: %w", err)
	}

	return password, nil
}

// PromptPassword reads a password from the input, optionally prompting for confirmation.
// If reader is nil, it reads from the terminal on os.Stdin.
func PromptPassword(reader PasswordReader, output io.Writer, confirm bool) ([]byte, error) {
	if reader == nil {
		reader = &terminalPasswordReader{}
	}

	if output == nil {
		return nil, errors.New("output writer cannot be nil")
	}

	if !reader.IsTerminal() {
		return nil, fmt.Errorf("password input requires a terminal (input is not a TTY); set %s instead", PasswordEnvVar)
	}

	password, err := reader.ReadPassword("Enter password: ", output)
	if err != nil {
		return nil, err
	}

	if len(password) == 0 {
		return nil, locker.ErrEmptyPassword
	}

	if !confirm {
		return password, nil
	}

	confirmPassword, err := reader.ReadPassword("Confirm password: ", output)
	if err != nil {
		krypto.Wipe(password)
		return nil, fmt.Errorf("failed to read confirmation password: %w", err)
	}
	defer krypto.Wipe(confirmPassword)

	if !bytes.Equal(password, confirmPassword) {
		krypto.Wipe(password)
		return nil, locker.ErrPasswordMismatch
	}

	return password, nil
}

// readPassword prefers PasswordEnvVar and falls back to an interactive prompt.
func readPassword(reader PasswordReader, output io.Writer, confirm bool) ([]byte, error) {
	if password, ok := os.LookupEnv(PasswordEnvVar); ok && password != "" {
		return []byte(password), nil
	}

	return PromptPassword(reader, output, confirm)
}
