package models

import (
	"testing"
	"time"
)

func TestFinWindow(t *testing.T) {
	r := &RendezVous{
		DateHeure: time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC),
		Duree:     45,
	}
	want := time.Date(2025, 9, 1, 9, 45, 0, 0, time.UTC)
	if !r.Fin().Equal(want) {
		t.Errorf("Fin() = %v, want %v", r.Fin(), want)
	}
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to StatutRendezVous
		want     bool
	}{
		{RendezVousPlanifie, RendezVousConfirme, true},
		{RendezVousPlanifie, RendezVousAnnule, true},
		{RendezVousPlanifie, RendezVousTermine, true},
		{RendezVousConfirme, RendezVousAnnule, true},
		{RendezVousConfirme, RendezVousTermine, true},
		{RendezVousConfirme, RendezVousPlanifie, false},
		{RendezVousAnnule, RendezVousPlanifie, false},
		{RendezVousAnnule, RendezVousConfirme, false},
		{RendezVousTermine, RendezVousAnnule, false},
	}
	for _, c := range cases {
		if got := c.from.CanTransitionTo(c.to); got != c.want {
			t.Errorf("%s -> %s = %v, want %v", c.from, c.to, got, c.want)
		}
	}
}

func TestStatutRendezVousValid(t *testing.T) {
	for _, s := range []StatutRendezVous{RendezVousPlanifie, RendezVousConfirme, RendezVousAnnule, RendezVousTermine} {
		if !s.Valid() {
			t.Errorf("expected %s to be valid", s)
		}
	}
	if StatutRendezVous("REPORTE").Valid() {
		t.Error("expected unknown status to be invalid")
	}
}
