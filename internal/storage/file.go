package storage

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/zeebo/blake3"
)

const fileVersion = 1

// envelope is the on-disk layout. Payload is the JSON-encoded entries, or
// their base64 AES-GCM ciphertext when Salt is set. Checksum is the blake3
// digest of Payload.
type envelope struct {
	Version  int    `json:"version"`
	Salt     string `json:"salt,omitempty"`
	Payload  string `json:"payload"`
	Checksum string `json:"checksum"`
}

// FileStore persists entries in a single JSON file. Every write replaces
// the file atomically; reads always go to disk so that separate processes
// (the CLI and a running dashboard) observe each other's logins.
type FileStore struct {
	mu     sync.Mutex
	path   string
	sealer *sealer
}

// FileOption configures a FileStore.
type FileOption func(*FileStore)

// WithPassphrase encrypts the payload with a key derived from passphrase.
// An empty passphrase leaves the file in plain JSON.
func WithPassphrase(passphrase string) FileOption {
	return func(f *FileStore) {
		if passphrase != "" {
			f.sealer = newSealer(passphrase)
		}
	}
}

// NewFileStore returns a FileStore backed by path. The file is created on
// the first write.
func NewFileStore(path string, opts ...FileOption) *FileStore {
	f := &FileStore{path: path}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

// Sealed reports whether the payload is encrypted.
func (f *FileStore) Sealed() bool {
	return f.sealer != nil
}

func (f *FileStore) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

func (f *FileStore) Set(entries map[string]string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		// Corrupted content is replaced rather than merged.
		current = map[string]string{}
	}
	for k, v := range entries {
		current[k] = v
	}
	return f.write(current)
}

func (f *FileStore) Delete(keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	current, err := f.read()
	if err != nil {
		// Deleting from a corrupted file wipes it.
		return f.remove()
	}
	for _, k := range keys {
		delete(current, k)
	}
	if len(current) == 0 {
		return f.remove()
	}
	return f.write(current)
}

func (f *FileStore) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", f.path, err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	if env.Version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCorrupted, env.Version)
	}
	if checksum(env.Payload) != env.Checksum {
		return nil, fmt.Errorf("%w: checksum mismatch", ErrCorrupted)
	}

	payload := []byte(env.Payload)
	if env.Salt != "" {
		if f.sealer == nil {
			return nil, fmt.Errorf("%w: file is sealed and no passphrase is configured", ErrCorrupted)
		}
		payload, err = f.sealer.open(env.Salt, env.Payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
		}
	}

	entries := map[string]string{}
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupted, err)
	}
	return entries, nil
}

func (f *FileStore) write(entries map[string]string) error {
	plain, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode entries: %w", err)
	}

	env := envelope{Version: fileVersion, Payload: string(plain)}
	if f.sealer != nil {
		env.Salt, env.Payload, err = f.sealer.seal(plain)
		if err != nil {
			return fmt.Errorf("failed to seal entries: %w", err)
		}
	}
	env.Checksum = checksum(env.Payload)

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode envelope: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", f.path, err)
	}
	return nil
}

func (f *FileStore) remove() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", f.path, err)
	}
	return nil
}

func checksum(payload string) string {
	sum := blake3.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
