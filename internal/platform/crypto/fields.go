package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"

	"golang.org/x/crypto/hkdf"
)

const (
	minPassphraseLength = 24
	keyDerivationInfo   = "hrinsight field encryption"
)

var ErrCiphertextTooShort = errors.New("ciphertext too short")

// Service seals and opens sensitive employee fields (salary_enc and friends)
// with AES-256-GCM. An unconfigured Service passes values through unchanged.
type Service struct {
	key []byte
}

func New(key string) (*Service, error) {
	if key == "" {
		return &Service{}, nil
	}
	decoded := decodeKey(key)
	if len(decoded) == 32 {
		return &Service{key: decoded}, nil
	}
	if len(key) < minPassphraseLength {
		return nil, fmt.Errorf("DATA_ENCRYPTION_KEY must be 32 bytes after decoding or a passphrase of at least %d characters", minPassphraseLength)
	}
	derived, err := deriveKey(key)
	if err != nil {
		return nil, err
	}
	return &Service{key: derived}, nil
}

func (s *Service) Configured() bool {
	return s != nil && len(s.key) == 32
}

func (s *Service) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (s *Service) Encrypt(plain []byte) ([]byte, error) {
	if len(plain) == 0 {
		return nil, nil
	}
	if !s.Configured() {
		return plain, nil
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func (s *Service) Decrypt(sealed []byte) ([]byte, error) {
	if len(sealed) == 0 {
		return nil, nil
	}
	if !s.Configured() {
		return sealed, nil
	}
	gcm, err := s.aead()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, ErrCiphertextTooShort
	}
	nonce, body := sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():]
	return gcm.Open(nil, nonce, body, nil)
}

// EncryptFloat seals a numeric field in its decimal text form.
func (s *Service) EncryptFloat(value float64) ([]byte, error) {
	return s.Encrypt([]byte(strconv.FormatFloat(value, 'f', -1, 64)))
}

// FloatOrPlain prefers the sealed value and falls back to the plaintext
// column when nothing is sealed or the sealed value cannot be opened.
func (s *Service) FloatOrPlain(sealed []byte, plain *float64) *float64 {
	if !s.Configured() || len(sealed) == 0 {
		return plain
	}
	opened, err := s.Decrypt(sealed)
	if err != nil {
		return plain
	}
	parsed, err := strconv.ParseFloat(string(opened), 64)
	if err != nil {
		return plain
	}
	return &parsed
}

// decodeKey accepts hex, padded or raw base64, or the raw key bytes. An
// encoded form only wins when it decodes to a full 32-byte key.
func decodeKey(raw string) []byte {
	if len(raw) == 64 {
		if decoded, err := hex.DecodeString(raw); err == nil {
			return decoded
		}
	}
	for _, enc := range []*base64.Encoding{base64.StdEncoding, base64.RawStdEncoding} {
		if decoded, err := enc.DecodeString(raw); err == nil && len(decoded) == 32 {
			return decoded
		}
	}
	return []byte(raw)
}

// deriveKey stretches a passphrase into an AES-256 key with HKDF-SHA256.
func deriveKey(passphrase string) ([]byte, error) {
	key := make([]byte, 32)
	reader := hkdf.New(sha256.New, []byte(passphrase), nil, []byte(keyDerivationInfo))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}
