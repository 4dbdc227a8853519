package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize         = 16
	kdfIterations    = 100000
	derivedKeyLength = 32
)

// sealer encrypts payloads with AES-GCM under a PBKDF2-derived key. Each
// file carries its own random salt; derived keys are cached per salt.
type sealer struct {
	passphrase []byte

	mu   sync.Mutex
	keys map[string][]byte
	salt string // most recently used salt
}

func newSealer(passphrase string) *sealer {
	return &sealer{passphrase: []byte(passphrase), keys: make(map[string][]byte)}
}

func (s *sealer) key(salt string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if k, ok := s.keys[salt]; ok {
		s.salt = salt
		return k, nil
	}
	raw, err := base64.StdEncoding.DecodeString(salt)
	if err != nil {
		return nil, fmt.Errorf("invalid salt: %w", err)
	}
	k := pbkdf2.Key(s.passphrase, raw, kdfIterations, derivedKeyLength, sha256.New)
	s.keys[salt] = k
	s.salt = salt
	return k, nil
}

// currentSalt returns a salt whose key is already derived, creating one
// on first use so repeated writes do not pay for key derivation again.
func (s *sealer) currentSalt() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.salt != "" {
		return s.salt, nil
	}
	raw := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func (s *sealer) seal(plaintext []byte) (salt, payload string, err error) {
	salt, err = s.currentSalt()
	if err != nil {
		return "", "", err
	}
	gcm, err := s.gcm(salt)
	if err != nil {
		return "", "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", "", err
	}
	ciphertext := gcm.Seal(nonce, nonce, plaintext, nil)
	return salt, base64.StdEncoding.EncodeToString(ciphertext), nil
}

func (s *sealer) open(salt, payload string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, err
	}
	gcm, err := s.gcm(salt)
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return nil, fmt.Errorf("ciphertext too short")
	}
	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	return gcm.Open(nil, nonce, ciphertext, nil)
}

func (s *sealer) gcm(salt string) (cipher.AEAD, error) {
	key, err := s.key(salt)
	if err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
