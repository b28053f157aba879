// Package locker turns files into SFLK containers and back. It owns the
// collaborator policies around the vault: input checks, output naming,
// overwrite protection and all-or-nothing writes.
package locker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/HallyG/filelocker/internal/vault"
)

const (
	Suffix                 = ".sflk"
	DecryptedSuffix        = ".decrypted"
	defaultFilePermissions = 0600
)

var (
	ErrInput            = errors.New("invalid input")
	ErrNoFile           = fmt.Errorf("%w: no file selected", ErrInput)
	ErrEmptyPassword    = fmt.Errorf("%w: password cannot be empty", ErrInput)
	ErrPasswordMismatch = fmt.Errorf("%w: passwords do not match", ErrInput)
	ErrOutputExists     = fmt.Errorf("%w: output file already exists", ErrInput)
)

// Request describes one encrypt or decrypt operation.
type Request struct {
	InputPath string
	// OutputPath overrides the naming convention when set.
	OutputPath string
	Password   []byte
	// Confirmation, when non-nil, must equal Password. Only checked on encryption.
	Confirmation []byte
	// Force allows an existing output file to be replaced.
	Force bool
}

type Locker struct {
	logger *slog.Logger
	vault  *vault.Vault
}

func WithLogger(logger *slog.Logger) func(*Locker) {
	return func(l *Locker) {
		l.logger = logger
	}
}

func New(opts ...func(*Locker)) (*Locker, error) {
	l := &Locker{}

	for _, opt := range opts {
		opt(l)
	}

	if l.logger == nil {
		l.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	v, err := vault.New(vault.WithLogger(l.logger))
	if err != nil {
		return nil, fmt.Errorf("create vault: %w", err)
	}
	l.vault = v

	return l, nil
}

// EncryptFile encrypts req.InputPath and returns the path of the container written.
func (l *Locker) EncryptFile(ctx context.Context, req Request) (string, error) {
	if err := req.validate(true); err != nil {
		return "", err
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = EncryptedPath(req.InputPath)
	}

	return l.process(ctx, req, outputPath, func(input []byte) ([]byte, error) {
		var buf bytes.Buffer
		if err := l.vault.Encrypt(ctx, &buf, req.Password, input); err != nil {
			return nil, err
		}

		return buf.Bytes(), nil
	})
}

// DecryptFile decrypts the container at req.InputPath and returns the path of
// the plaintext written. Nothing is written unless authentication succeeds.
func (l *Locker) DecryptFile(ctx context.Context, req Request) (string, error) {
	if err := req.validate(false); err != nil {
		return "", err
	}

	outputPath := req.OutputPath
	if outputPath == "" {
		outputPath = DecryptedPath(req.InputPath)
	}

	return l.process(ctx, req, outputPath, func(input []byte) ([]byte, error) {
		return l.vault.Decrypt(ctx, bytes.NewReader(input), req.Password)
	})
}

func (l *Locker) process(ctx context.Context, req Request, outputPath string, transform func([]byte) ([]byte, error)) (string, error) {
	inputPath := filepath.Clean(req.InputPath)
	outputPath = filepath.Clean(outputPath)

	if err := checkOutput(outputPath, req.Force); err != nil {
		return "", err
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	l.logger.DebugContext(ctx, "read input", slog.String("path", inputPath), slog.Int("size", len(input)))

	output, err := transform(input)
	if err != nil {
		return "", err
	}

	if err := writeFileAtomic(outputPath, output, defaultFilePermissions); err != nil {
		return "", fmt.Errorf("write output: %w", err)
	}

	l.logger.DebugContext(ctx, "wrote output", slog.String("path", outputPath), slog.Int("size", len(output)))

	return outputPath, nil
}

func (r *Request) validate(encrypting bool) error {
	if strings.TrimSpace(r.InputPath) == "" {
		return ErrNoFile
	}

	if len(r.Password) == 0 {
		return ErrEmptyPassword
	}

	if encrypting && r.Confirmation != nil && !bytes.Equal(r.Password, r.Confirmation) {
		return ErrPasswordMismatch
	}

	return nil
}

func checkOutput(path string, force bool) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat output: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("%w: %q is a directory", ErrInput, path)
	}

	if !force {
		return fmt.Errorf("%w: %q (use --force to overwrite)", ErrOutputExists, path)
	}

	return nil
}
