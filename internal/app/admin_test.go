package app

import (
	"errors"
	"testing"

	"online-judge/internal/domain"
)

func TestAdminGatePlainSecret(t *testing.T) {
	gate := NewAdminGate("admin123", "")
	if err := gate.Check("admin123"); err != nil {
		t.Fatalf("expected access, got %v", err)
	}
	for _, bad := range []string{"ADMIN123", "admin123 ", ""} {
		if err := gate.Check(bad); !errors.Is(err, domain.ErrWrongAdminSecret) {
			t.Fatalf("Check(%q): expected ErrWrongAdminSecret, got %v", bad, err)
		}
	}
}

func TestAdminGateEmptySecretDeniesEveryone(t *testing.T) {
	if err := NewAdminGate("", "").Check(""); !errors.Is(err, domain.ErrWrongAdminSecret) {
		t.Fatalf("expected denial, got %v", err)
	}
}

func TestAdminGateHashedSecret(t *testing.T) {
	hash, err := HashSecret("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	gate := NewAdminGate("ignored-when-hash-set", hash)
	if err := gate.Check("s3cret"); err != nil {
		t.Fatalf("expected access, got %v", err)
	}
	if err := gate.Check("ignored-when-hash-set"); !errors.Is(err, domain.ErrWrongAdminSecret) {
		t.Fatalf("expected hash to take precedence, got %v", err)
	}
}
