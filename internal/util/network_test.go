package util

import "testing"

func TestInterfaceIPv4Loopback(t *testing.T) {
	addr, err := InterfaceIPv4("lo")
	if err != nil {
		t.Skipf("loopback not available: %v", err)
	}
	if addr != "127.0.0.1" {
		t.Fatalf("expected 127.0.0.1 for lo, got %q", addr)
	}
}

func TestInterfaceIPv4UnknownInterface(t *testing.T) {
	if _, err := InterfaceIPv4("definitely-not-an-interface"); err == nil {
		t.Fatal("expected error for unknown interface")
	}
}
