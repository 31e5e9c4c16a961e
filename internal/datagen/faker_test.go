//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"testing"
)

func TestNewFaker(t *testing.T) {
	f := NewFaker()
	if f == nil {
		t.Fatal("NewFaker returned nil")
	}
	if f.faker == nil {
		t.Fatal("faker field is nil")
	}
}

func TestNewFakerWithSeed(t *testing.T) {
	seed := uint64(12345)
	f1 := NewFakerWithSeed(seed)
	f2 := NewFakerWithSeed(seed)

	// Same seed should produce same sequence
	for i := 0; i < 10; i++ {
		v1 := f1.Int(0, 1000)
		v2 := f2.Int(0, 1000)
		if v1 != v2 {
			t.Errorf("Same seed produced different values: %d != %d", v1, v2)
		}
	}
}

func TestFakerStrings(t *testing.T) {
	f := NewFaker()

	tests := []struct {
		name string
		fn   func() string
	}{
		{"City", f.City},
		{"ProductName", f.ProductName},
		{"ProductCategory", f.ProductCategory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.fn() == "" {
				t.Errorf("%s returned empty string", tt.name)
			}
		})
	}
}

func TestFakerPrice(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		p := f.Price(10.0, 100.0)
		if p < 10.0 || p > 100.0 {
			t.Errorf("Price %f out of range [10, 100]", p)
		}
	}
}

func TestFakerInt(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Int(5, 10)
		if v < 5 || v > 10 {
			t.Errorf("Int %d out of range [5, 10]", v)
		}
	}
}

func TestFakerFloat64(t *testing.T) {
	f := NewFaker()
	for i := 0; i < 100; i++ {
		v := f.Float64(0.2, 0.6)
		if v < 0.2 || v > 0.6 {
			t.Errorf("Float64 %f out of range [0.2, 0.6]", v)
		}
	}
}

func TestFakerChance(t *testing.T) {
	f := NewFakerWithSeed(7)
	for i := 0; i < 50; i++ {
		if f.Chance(0) {
			t.Fatal("Chance(0) returned true")
		}
		if !f.Chance(1.01) {
			t.Fatal("Chance(>1) returned false")
		}
	}
}

func TestChoose(t *testing.T) {
	f := NewFaker()
	items := []string{"a", "b", "c"}

	for i := 0; i < 50; i++ {
		result := Choose(f, items)
		found := false
		for _, item := range items {
			if item == result {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Choose returned %s which is not in items", result)
		}
	}
}

func TestChooseEmpty(t *testing.T) {
	f := NewFaker()
	var items []string
	if result := Choose(f, items); result != "" {
		t.Errorf("Choose on empty slice should return zero value, got %s", result)
	}
}

func TestChooseWeighted(t *testing.T) {
	f := NewFaker()
	items := []string{"rare", "common"}
	weights := []int{0, 100}

	for i := 0; i < 50; i++ {
		if got := ChooseWeighted(f, items, weights); got != "common" {
			t.Errorf("ChooseWeighted picked zero-weight item %s", got)
		}
	}

	if got := ChooseWeighted(f, []string{}, []int{}); got != "" {
		t.Errorf("ChooseWeighted on empty should return zero value, got %s", got)
	}
}

func TestRound(t *testing.T) {
	tests := []struct {
		v      float64
		places int
		want   float64
	}{
		{1.234, 2, 1.23},
		{1.235, 1, 1.2},
		{-2.5, 0, -3},
		{10, 2, 10},
	}
	for _, tt := range tests {
		if got := Round(tt.v, tt.places); got != tt.want {
			t.Errorf("Round(%v, %d) = %v, want %v", tt.v, tt.places, got, tt.want)
		}
	}
}
