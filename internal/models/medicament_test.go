package models

import (
	"testing"
)

func TestIsStockAlertBoundary(t *testing.T) {
	cases := []struct {
		stock, seuil int
		want         bool
	}{
		{0, 10, true},
		{9, 10, true},
		{10, 10, true},
		{11, 10, false},
	}
	for _, c := range cases {
		m := &Medicament{QuantiteStock: c.stock, SeuilAlerte: c.seuil}
		if got := m.IsStockAlert(); got != c.want {
			t.Errorf("IsStockAlert(stock=%d, seuil=%d) = %v, want %v", c.stock, c.seuil, got, c.want)
		}
	}
}

func TestIsExpired(t *testing.T) {
	now := date(2025, 6, 15)

	m := &Medicament{}
	if m.IsExpired(now) {
		t.Error("expected medicament without expiration date to never expire")
	}

	past := date(2025, 6, 1)
	m.DateExpiration = &past
	if !m.IsExpired(now) {
		t.Error("expected medicament past its expiration date to be expired")
	}

	future := date(2026, 1, 1)
	m.DateExpiration = &future
	if m.IsExpired(now) {
		t.Error("expected medicament before its expiration date to be fine")
	}
}
