package main

import (
	"encoding/base64"
	"testing"
)

func TestAuthResponse_Deterministic(t *testing.T) {
	a := authResponse("hunter2", "salt", "challenge")
	b := authResponse("hunter2", "salt", "challenge")
	if a != b {
		t.Errorf("auth response not deterministic: %q vs %q", a, b)
	}
}

func TestAuthResponse_Shape(t *testing.T) {
	got := authResponse("hunter2", "salt", "challenge")
	raw, err := base64.StdEncoding.DecodeString(got)
	if err != nil {
		t.Fatalf("auth response is not base64: %v", err)
	}
	if len(raw) != 32 {
		t.Errorf("auth response decodes to %d bytes, want 32 (sha256)", len(raw))
	}
}

func TestAuthResponse_InputsMatter(t *testing.T) {
	base := authResponse("hunter2", "salt", "challenge")
	if authResponse("hunter3", "salt", "challenge") == base {
		t.Error("password change did not change auth response")
	}
	if authResponse("hunter2", "other", "challenge") == base {
		t.Error("salt change did not change auth response")
	}
	if authResponse("hunter2", "salt", "other") == base {
		t.Error("challenge change did not change auth response")
	}
}
