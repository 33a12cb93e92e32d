// Package profiles reads and writes per-relay WireGuard profile files.
// A profile lives at <dir>/<code>.conf and embeds the device private key,
// so files are always written 0600 via temp file + atomic rename.
package profiles

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"wg-relay-webui/internal/relays"
)

const (
	// DefaultDir is where wg-quick looks for profiles.
	DefaultDir = "/etc/wireguard"
	// codeMarker distinguishes this tool's relay profiles from unrelated
	// WireGuard configs in the same directory. Relay codes look like
	// "se-mma-wg-001".
	codeMarker = "-wg-"

	dnsServer = "10.64.0.1"
)

// Store locates, parses, and materializes relay profiles in one directory.
type Store struct {
	dir string
}

// NewStore creates a store rooted at dir. An empty dir uses DefaultDir.
func NewStore(dir string) *Store {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		trimmed = DefaultDir
	}
	return &Store{dir: trimmed}
}

// Dir returns the profile directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the profile path for a relay code. No I/O.
func (s *Store) Path(code string) string {
	return filepath.Join(s.dir, code+".conf")
}

// Exists reports whether a profile file exists for code.
func (s *Store) Exists(code string) bool {
	_, err := os.Stat(s.Path(code))
	return err == nil
}

// List returns the sorted codes of all relay profiles in the directory.
// A missing or empty directory yields an empty list, not an error.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var codes []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		code := strings.TrimSuffix(name, ".conf")
		if code == name || !strings.Contains(code, codeMarker) {
			continue
		}
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes, nil
}

// ExtractPrivateKey parses the profile for code and returns its private key.
// The key is only accepted when the raw value is exactly 44 characters and
// ends with '='; any other shape reports not-found rather than an error.
func (s *Store) ExtractPrivateKey(code string) (string, bool, error) {
	content, err := os.ReadFile(s.Path(code))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	for _, raw := range strings.Split(string(content), "\n") {
		line := strings.TrimSpace(raw)
		if !strings.HasPrefix(strings.ToLower(line), "privatekey") {
			continue
		}
		idx := strings.Index(line, "=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(line[idx+1:])
		if len(key) == 44 && strings.HasSuffix(key, "=") {
			return key, true, nil
		}
	}
	return "", false, nil
}

// FindExistingPrivateKey scans all relay profiles and returns the first
// valid private key. Used to avoid regenerating device credentials when
// setup is re-run.
func (s *Store) FindExistingPrivateKey() (string, bool, error) {
	codes, err := s.List()
	if err != nil {
		return "", false, err
	}
	for _, code := range codes {
		key, ok, err := s.ExtractPrivateKey(code)
		if err != nil {
			return "", false, err
		}
		if ok {
			return key, true, nil
		}
	}
	return "", false, nil
}

// Write materializes the profile for relay with the given device key and
// assigned address. The file is rendered from a fixed template and replaced
// atomically so no reader can observe a half-written profile.
func (s *Store) Write(relay relays.Relay, privateKey, address string) error {
	content := fmt.Sprintf(`[Interface]
PrivateKey = %s
Address = %s
DNS = %s

[Peer]
PublicKey = %s
Endpoint = %s
AllowedIPs = 0.0.0.0/0, ::/0
`, privateKey, address, dnsServer, relay.PublicKey, relay.Endpoint())

	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create profile directory: %w", err)
	}
	path := s.Path(relay.Code)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, []byte(content), 0o600); err != nil {
		return fmt.Errorf("write profile %s: %w", relay.Code, err)
	}
	if err := os.Chmod(tmpPath, 0o600); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write profile %s: %w", relay.Code, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write profile %s: %w", relay.Code, err)
	}
	return nil
}

// Delete removes the profile for code. A missing file is not an error.
func (s *Store) Delete(code string) error {
	if err := os.Remove(s.Path(code)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// WriteAll materializes one profile per relay and returns the number
// written. A failure aborts further writes; profiles already written stay
// on disk since each is independently regenerable.
func (s *Store) WriteAll(list []relays.Relay, privateKey, address string) (int, error) {
	count := 0
	for _, relay := range list {
		if err := s.Write(relay, privateKey, address); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
