package core

import (
	"math"
	"testing"
)

func TestProjectPair(t *testing.T) {
	p := NewProjector(83)

	cases := []struct {
		usd  float64
		inr  float64
	}{
		{0, 0},
		{100, 8300},
		{1, 83},
		{10.55, 875.65},
		{0.01, 0.83},
	}
	for i, tc := range cases {
		got := p.Project(tc.usd)
		if got.USD != tc.usd {
			t.Fatalf("case %d usd: got %v want %v", i, got.USD, tc.usd)
		}
		if got.INR != tc.inr {
			t.Fatalf("case %d inr: got %v want %v", i, got.INR, tc.inr)
		}
	}
}

func TestProjectRoundsToCents(t *testing.T) {
	p := NewProjector(83)
	got := p.Project(10.555) // 876.065 exactly at the midpoint
	if math.Abs(got.INR-876.07) > 1e-9 {
		t.Fatalf("expected 876.07, got %v", got.INR)
	}
}

func TestNewProjectorFallsBackToDefault(t *testing.T) {
	for i, rate := range []float64{0, -1} {
		p := NewProjector(rate)
		if p.Rate() != DefaultUSDToINR {
			t.Fatalf("case %d: expected default rate %v, got %v", i, DefaultUSDToINR, p.Rate())
		}
	}
}
