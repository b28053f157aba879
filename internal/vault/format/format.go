// Package format implements the SFLK container layout:
//
//	offset  size  field
//	0       4     magic "SFLK"
//	4       1     version (1)
//	5       16    salt
//	21      12    nonce
//	33      N     ciphertext || 16-byte GCM tag
package format

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

type Version uint8

func (v Version) String() string {
	return fmt.Sprintf("v%d", v)
}

const (
	VersionUnknown Version = 0
	VersionV1      Version = 1
)

var (
	ErrInvalidFormat      = errors.New("invalid file format")
	ErrInvalidMagicNumber = fmt.Errorf("%w: magic number", ErrInvalidFormat)
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrInvalidFormat)
	ErrTruncated          = fmt.Errorf("%w: truncated", ErrInvalidFormat)
)

// Container is a parsed container: its header and the trailing ciphertext with tag.
type Container struct {
	Header
	CipherText []byte
}

// Marshal serializes a container. Only the ciphertext is variable width,
// so no length prefix is written.
func Marshal(salt [SaltLen]byte, nonce [NonceLen]byte, cipherText []byte) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(TotalHeaderLen + len(cipherText))

	if err := Encode(&buf, salt, nonce, cipherText); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// Parse deserializes a container held entirely in memory.
func Parse(data []byte) (*Container, error) {
	header, r, err := ParseHeader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	cipherText, err := ReadCipherText(r)
	if err != nil {
		return nil, err
	}

	return &Container{
		Header:     *header,
		CipherText: cipherText,
	}, nil
}

// Encode writes the header followed by the ciphertext in a single write.
func Encode(output io.Writer, salt [SaltLen]byte, nonce [NonceLen]byte, cipherText []byte) error {
	if output == nil {
		return errors.New("output writer cannot be nil")
	}

	if len(cipherText) < TagLen {
		return fmt.Errorf("ciphertext must be at least %d bytes, got %d", TagLen, len(cipherText))
	}

	header, err := NewHeader(salt, nonce).MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal header: %w", err)
	}

	if _, err := output.Write(append(header, cipherText...)); err != nil {
		return fmt.Errorf("write container: %w", err)
	}

	return nil
}

// ParseHeader parses a Header from an [io.Reader] and returns the header and a reader for the remaining data.
func ParseHeader(input io.Reader) (*Header, io.Reader, error) {
	if input == nil {
		return nil, nil, errors.New("input reader cannot be nil")
	}

	headerBuf := make([]byte, TotalHeaderLen)
	n, err := io.ReadFull(input, headerBuf)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			if err := validatePrefix(headerBuf[:n]); err != nil {
				return nil, nil, err
			}

			return nil, nil, fmt.Errorf("%w: expected %d header bytes, read %d", ErrTruncated, TotalHeaderLen, n)
		}

		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var header Header
	if err := header.UnmarshalBinary(headerBuf); err != nil {
		return nil, nil, err
	}

	return &header, input, nil
}

// ReadCipherText reads everything left in r and returns an error if it cannot hold a GCM tag.
func ReadCipherText(r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, errors.New("input reader cannot be nil")
	}

	cipherText, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ciphertext: %w", err)
	}

	if len(cipherText) < TagLen {
		return nil, fmt.Errorf("%w: expected at least %d ciphertext bytes, read %d", ErrTruncated, TagLen, len(cipherText))
	}

	return cipherText, nil
}
