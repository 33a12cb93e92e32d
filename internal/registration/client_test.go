package registration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
)

type stubDoer struct {
	status int
	body   string
	req    *http.Request
	form   string
}

func (d *stubDoer) Do(req *http.Request) (*http.Response, error) {
	d.req = req
	if req.Body != nil {
		raw, _ := io.ReadAll(req.Body)
		d.form = string(raw)
	}
	status := d.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(d.body)),
	}, nil
}

func TestRegisterKeyReturnsAssignment(t *testing.T) {
	doer := &stubDoer{body: "10.99.1.2/32,fc00:bbbb:bbbb:bb01::1:2/128\n"}
	client := NewClient(doer)

	assigned, err := client.RegisterKey(context.Background(), "1234567890123456", "pubkey=")
	if err != nil {
		t.Fatalf("RegisterKey failed: %v", err)
	}
	if assigned != "10.99.1.2/32,fc00:bbbb:bbbb:bb01::1:2/128" {
		t.Fatalf("unexpected assignment: %q", assigned)
	}
	if d := doer.form; d != "account=1234567890123456&pubkey=pubkey%3D" {
		t.Fatalf("unexpected form payload: %q", d)
	}
	if ct := doer.req.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
		t.Fatalf("unexpected content type: %q", ct)
	}
}

func TestRegisterKeyClassifiesErrorText(t *testing.T) {
	doer := &stubDoer{body: "Account does not exist"}
	client := NewClient(doer)

	_, err := client.RegisterKey(context.Background(), "0000", "pubkey=")
	var regErr *Error
	if !errors.As(err, &regErr) {
		t.Fatalf("expected registration Error, got %v", err)
	}
	if regErr.Message != "Account does not exist" {
		t.Fatalf("expected server text verbatim, got %q", regErr.Message)
	}
}

func TestRegisterKeyRejectsCharsetMatchingGarbage(t *testing.T) {
	// All hex digits, so the charset check passes, but it is not an
	// address assignment.
	doer := &stubDoer{body: "deadbeef"}
	client := NewClient(doer)

	_, err := client.RegisterKey(context.Background(), "0000", "pubkey=")
	if err == nil {
		t.Fatal("expected invalid assignment error")
	}
	var regErr *Error
	if errors.As(err, &regErr) {
		t.Fatalf("charset-valid garbage is a parse failure, not a server rejection: %v", err)
	}
}

func TestRegisterKeyRejectsEmptyBody(t *testing.T) {
	doer := &stubDoer{body: ""}
	if _, err := NewClient(doer).RegisterKey(context.Background(), "0000", "pubkey="); err == nil {
		t.Fatal("expected error for empty response")
	}
}
