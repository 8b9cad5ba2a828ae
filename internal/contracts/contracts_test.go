package contracts

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestMonthOf(t *testing.T) {
	in := time.Date(2024, 3, 17, 15, 4, 5, 0, time.UTC)
	got := MonthOf(in)
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("MonthOf() = %v, want %v", got, want)
	}
}

func TestMonthDiff(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "same month",
			a:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "adjacent months",
			a:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "year boundary",
			a:    time.Date(2023, 11, 15, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			want: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MonthDiff(tt.a, tt.b); got != tt.want {
				t.Errorf("MonthDiff() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSegment_IsValid(t *testing.T) {
	for _, s := range []Segment{SegmentLow, SegmentMid, SegmentHigh} {
		if !s.IsValid() {
			t.Errorf("Segment %q should be valid", s)
		}
	}
	if Segment("Platinum").IsValid() {
		t.Error("unknown segment should be invalid")
	}
}

func TestCohortCell_RetentionRate(t *testing.T) {
	cell := &CohortCell{ActiveCustomers: 25}

	if got := cell.RetentionRate(100); got != 0.25 {
		t.Errorf("RetentionRate(100) = %v, want 0.25", got)
	}
	if got := cell.RetentionRate(0); got != 0.0 {
		t.Errorf("RetentionRate(0) = %v, want 0", got)
	}
}

func TestIsInvalidInput(t *testing.T) {
	base := &InvalidInputError{Row: 3, Field: "revenue", Reason: "negative value"}

	if !IsInvalidInput(base) {
		t.Error("direct InvalidInputError not recognized")
	}
	if !IsInvalidInput(fmt.Errorf("load orders: %w", base)) {
		t.Error("wrapped InvalidInputError not recognized")
	}
	if IsInvalidInput(errors.New("boom")) {
		t.Error("plain error misclassified as invalid input")
	}
}
