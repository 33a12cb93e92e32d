package profiles

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"wg-relay-webui/internal/relays"
)

// validKey is 44 characters ending in '=' like a real base64 WireGuard key.
const validKey = "YWJjZGVmZ2hpamtsbW5vcHFyc3R1dnd4eXoxMjM0NT0="

func testRelay(code string) relays.Relay {
	return relays.Relay{
		Code:      code,
		Hostname:  code + "-wireguard",
		PublicKey: "cGVlci1wdWJsaWMta2V5LXBlZXItcHVibGljLWtleT0=",
		IPv4Addr:  "203.0.113.5",
		Port:      51820,
		Country:   "Sweden",
		City:      "Malmo",
	}
}

func TestWriteRendersFixedTemplate(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Write(testRelay("se-mma-wg-001"), validKey, "10.99.1.2/32"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	data, err := os.ReadFile(store.Path("se-mma-wg-001"))
	if err != nil {
		t.Fatalf("read profile: %v", err)
	}
	text := string(data)
	for _, expected := range []string{
		"[Interface]",
		"PrivateKey = " + validKey,
		"Address = 10.99.1.2/32",
		"DNS = 10.64.0.1",
		"[Peer]",
		"PublicKey = cGVlci1wdWJsaWMta2V5LXBlZXItcHVibGljLWtleT0=",
		"Endpoint = 203.0.113.5:51820",
		"AllowedIPs = 0.0.0.0/0, ::/0",
	} {
		if !strings.Contains(text, expected) {
			t.Fatalf("profile missing %q:\n%s", expected, text)
		}
	}
}

func TestWriteIsAtomicAndOwnerOnly(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Write(testRelay("se-mma-wg-001"), validKey, "10.99.1.2/32"); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	path := store.Path("se-mma-wg-001")
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat profile: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o600 {
		t.Fatalf("expected mode 0600, got %o", mode)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be gone, got %v", err)
	}

	// Overwriting an existing profile must still resolve the key afterwards.
	if err := store.Write(testRelay("se-mma-wg-001"), validKey, "10.99.1.2/32"); err != nil {
		t.Fatalf("second Write failed: %v", err)
	}
	key, ok, err := store.ExtractPrivateKey("se-mma-wg-001")
	if err != nil || !ok || key != validKey {
		t.Fatalf("key not resolvable after rewrite: %q ok=%v err=%v", key, ok, err)
	}
}

func TestListFiltersAndSorts(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	for _, code := range []string{"se-sto-wg-002", "se-mma-wg-001"} {
		if err := store.Write(testRelay(code), validKey, "10.99.1.2/32"); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}
	// Files without the relay code marker or the .conf extension are ignored.
	if err := os.WriteFile(filepath.Join(dir, "office.conf"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write decoy: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "se-mma-wg-003.conf.bak"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write decoy: %v", err)
	}

	codes, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if !reflect.DeepEqual(codes, []string{"se-mma-wg-001", "se-sto-wg-002"}) {
		t.Fatalf("unexpected codes: %v", codes)
	}
}

func TestListMissingDirectoryReturnsEmpty(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "does-not-exist"))
	codes, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(codes) != 0 {
		t.Fatalf("expected empty list, got %v", codes)
	}
}

func TestExtractPrivateKeyValidation(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	tests := []struct {
		name    string
		content string
		wantKey string
		wantOK  bool
	}{
		{
			name:    "valid key",
			content: "[Interface]\nPrivateKey = " + validKey + "\n",
			wantKey: validKey,
			wantOK:  true,
		},
		{
			name:    "case insensitive key name",
			content: "PRIVATEKEY = " + validKey + "\n",
			wantKey: validKey,
			wantOK:  true,
		},
		{
			name:    "wrong length is not found",
			content: "PrivateKey = aGVsbG8=\n",
			wantOK:  false,
		},
		{
			name:    "missing padding is not found",
			content: "PrivateKey = " + strings.Repeat("a", 44) + "\n",
			wantOK:  false,
		},
		{
			name:    "no key line",
			content: "[Interface]\nAddress = 10.0.0.2/32\n",
			wantOK:  false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := store.Path("se-mma-wg-001")
			if err := os.WriteFile(path, []byte(tc.content), 0o600); err != nil {
				t.Fatalf("write fixture: %v", err)
			}
			key, ok, err := store.ExtractPrivateKey("se-mma-wg-001")
			if err != nil {
				t.Fatalf("ExtractPrivateKey failed: %v", err)
			}
			if ok != tc.wantOK || key != tc.wantKey {
				t.Fatalf("got key=%q ok=%v, want key=%q ok=%v", key, ok, tc.wantKey, tc.wantOK)
			}
		})
	}
}

func TestExtractPrivateKeyMissingFile(t *testing.T) {
	store := NewStore(t.TempDir())
	key, ok, err := store.ExtractPrivateKey("se-mma-wg-404")
	if err != nil || ok || key != "" {
		t.Fatalf("expected not found, got key=%q ok=%v err=%v", key, ok, err)
	}
}

func TestFindExistingPrivateKeySkipsInvalid(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if err := os.WriteFile(store.Path("de-fra-wg-001"), []byte("PrivateKey = short=\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if err := os.WriteFile(store.Path("se-mma-wg-001"), []byte("PrivateKey = "+validKey+"\n"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	key, ok, err := store.FindExistingPrivateKey()
	if err != nil {
		t.Fatalf("FindExistingPrivateKey failed: %v", err)
	}
	if !ok || key != validKey {
		t.Fatalf("expected the valid key, got %q ok=%v", key, ok)
	}
}

func TestDeleteMissingIsNoError(t *testing.T) {
	store := NewStore(t.TempDir())
	if err := store.Delete("se-mma-wg-404"); err != nil {
		t.Fatalf("Delete of missing profile failed: %v", err)
	}
}

func TestWriteAllStopsOnFailure(t *testing.T) {
	store := NewStore(t.TempDir())
	list := []relays.Relay{
		testRelay("se-mma-wg-001"),
		testRelay("se-mma-wg-002"),
		testRelay("bad\x00code-wg-000"),
		testRelay("se-mma-wg-004"),
	}

	count, err := store.WriteAll(list, validKey, "10.99.1.2/32")
	if err == nil {
		t.Fatal("expected WriteAll to fail on invalid code")
	}
	if count != 2 {
		t.Fatalf("expected 2 completed writes, got %d", count)
	}
	if !store.Exists("se-mma-wg-001") || !store.Exists("se-mma-wg-002") {
		t.Fatal("profiles written before the failure must remain")
	}
	if store.Exists("se-mma-wg-004") {
		t.Fatal("writes after the failure must not happen")
	}
}
