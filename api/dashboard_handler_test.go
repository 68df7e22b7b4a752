package api

import (
	"testing"

	"github.com/vapeguard/insurance-api/store"
)

func TestZeroFillMonths(t *testing.T) {
	tests := []struct {
		name    string
		buckets []store.MonthlyBucket
	}{
		{"empty", nil},
		{"sparse", []store.MonthlyBucket{
			{Month: 3, Total: 499, Count: 1},
			{Month: 11, Total: 1497, Count: 3},
		}},
		{"out of range ignored", []store.MonthlyBucket{
			{Month: 0, Total: 10, Count: 1},
			{Month: 13, Total: 10, Count: 1},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := zeroFillMonths(tt.buckets)
			if len(got) != 12 {
				t.Fatalf("expected 12 months, got %d", len(got))
			}
			for i, b := range got {
				if b.Month != i+1 {
					t.Errorf("month at index %d = %d, want %d", i, b.Month, i+1)
				}
			}
		})
	}
}

func TestZeroFillMonthsKeepsValues(t *testing.T) {
	got := zeroFillMonths([]store.MonthlyBucket{{Month: 6, Total: 999.5, Count: 2}})
	if got[5].Total != 999.5 || got[5].Count != 2 {
		t.Errorf("june bucket = %+v", got[5])
	}
	if got[0].Total != 0 || got[0].Count != 0 {
		t.Errorf("january should be zero-filled, got %+v", got[0])
	}
}
