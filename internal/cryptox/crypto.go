// Package cryptox seals values at rest for the local credential store.
package cryptox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/orderdesk/internal/common"
	"golang.org/x/crypto/hkdf"
)

// KeySize is the length of the device master key in bytes.
const KeySize = 32

var (
	ErrInvalidKey    = errors.New("invalid key size")
	ErrMalformedData = errors.New("sealed data too short")
)

// GenerateKey returns a fresh random device master key.
func GenerateKey() []byte {
	return common.GenerateRandByteArray(KeySize)
}

// Sealer encrypts values with AES-256-GCM. Every label (the storage key the
// value lives under) gets its own subkey derived from the master key with
// HKDF-SHA256, and the label is also bound as additional data, so a sealed
// value copied to another key fails to open.
type Sealer struct {
	masterKey []byte
}

// NewSealer returns a Sealer for masterKey, which must be KeySize bytes.
func NewSealer(masterKey []byte) (*Sealer, error) {
	if len(masterKey) != KeySize {
		return nil, ErrInvalidKey
	}
	k := make([]byte, KeySize)
	copy(k, masterKey)
	return &Sealer{masterKey: k}, nil
}

func (s *Sealer) aead(label string) (cipher.AEAD, error) {
	subkey := make([]byte, KeySize)
	r := hkdf.New(sha256.New, s.masterKey, nil, []byte("orderdesk/"+label))
	if _, err := io.ReadFull(r, subkey); err != nil {
		return nil, fmt.Errorf("derive subkey: %w", err)
	}
	defer common.WipeByteArray(subkey)

	block, err := aes.NewCipher(subkey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// Seal encrypts plaintext for label. The output is nonce || ciphertext.
func (s *Sealer) Seal(label string, plaintext []byte) ([]byte, error) {
	gcm, err := s.aead(label)
	if err != nil {
		return nil, err
	}

	nonce := common.GenerateRandByteArray(gcm.NonceSize())
	return gcm.Seal(nonce, nonce, plaintext, []byte(label)), nil
}

// Open reverses Seal.
func (s *Sealer) Open(label string, sealed []byte) ([]byte, error) {
	gcm, err := s.aead(label)
	if err != nil {
		return nil, err
	}

	if len(sealed) < gcm.NonceSize() {
		return nil, ErrMalformedData
	}
	nonce, ciphertext := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]

	return gcm.Open(nil, nonce, ciphertext, []byte(label))
}
