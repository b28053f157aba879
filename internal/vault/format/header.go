package format

import (
	"bytes"
	"fmt"
)

const (
	MagicNumber     = "SFLK"
	MagicNumberLen  = len(MagicNumber)
	VersionLen      = 1
	SaltLen         = 16
	NonceLen        = 12
	TagLen          = 16
	TotalHeaderLen  = MagicNumberLen + VersionLen + SaltLen + NonceLen
	MinContainerLen = TotalHeaderLen + TagLen
)

// Header is the fixed width prefix of a container. It carries no length
// field: everything after the nonce is ciphertext followed by the GCM tag.
type Header struct {
	MagicNumber [MagicNumberLen]byte
	Version     Version
	Salt        [SaltLen]byte
	Nonce       [NonceLen]byte
}

// NewHeader returns a current version header for the given salt and nonce.
func NewHeader(salt [SaltLen]byte, nonce [NonceLen]byte) *Header {
	var magicNumber [MagicNumberLen]byte
	copy(magicNumber[:], MagicNumber)

	return &Header{
		MagicNumber: magicNumber,
		Version:     VersionV1,
		Salt:        salt,
		Nonce:       nonce,
	}
}

// Validate checks if the Header fields are valid.
func (h *Header) Validate() error {
	if !bytes.Equal(h.MagicNumber[:], []byte(MagicNumber)) {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidMagicNumber, MagicNumber, h.MagicNumber[:])
	}

	if h.Version != VersionV1 {
		return fmt.Errorf("%w: expected %s, got %s", ErrUnsupportedVersion, VersionV1, h.Version)
	}

	return nil
}

// MarshalBinary implements [encoding.BinaryMarshaler].
func (h *Header) MarshalBinary() ([]byte, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}

	buf := make([]byte, TotalHeaderLen)
	offset := 0

	copy(buf[offset:offset+MagicNumberLen], h.MagicNumber[:])
	offset += MagicNumberLen

	buf[offset] = byte(h.Version)
	offset += VersionLen

	copy(buf[offset:offset+SaltLen], h.Salt[:])
	offset += SaltLen

	copy(buf[offset:offset+NonceLen], h.Nonce[:])

	return buf, nil
}

// UnmarshalBinary implements [encoding.BinaryUnmarshaler].
func (h *Header) UnmarshalBinary(data []byte) error {
	if err := validatePrefix(data); err != nil {
		return err
	}

	if len(data) != TotalHeaderLen {
		return fmt.Errorf("%w: header must be %d bytes, got %d", ErrTruncated, TotalHeaderLen, len(data))
	}

	offset := 0

	copy(h.MagicNumber[:], data[offset:offset+MagicNumberLen])
	offset += MagicNumberLen

	h.Version = Version(data[offset])
	offset += VersionLen

	copy(h.Salt[:], data[offset:offset+SaltLen])
	offset += SaltLen

	copy(h.Nonce[:], data[offset:offset+NonceLen])

	return h.Validate()
}

// validatePrefix checks the magic number and version for as many of those
// bytes as are present, so a short but foreign file is reported as foreign.
func validatePrefix(data []byte) error {
	n := min(len(data), MagicNumberLen)
	if !bytes.Equal(data[:n], []byte(MagicNumber[:n])) {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidMagicNumber, MagicNumber, data[:n])
	}

	if len(data) > MagicNumberLen && Version(data[MagicNumberLen]) != VersionV1 {
		return fmt.Errorf("%w: expected %s, got %s", ErrUnsupportedVersion, VersionV1, Version(data[MagicNumberLen]))
	}

	return nil
}
