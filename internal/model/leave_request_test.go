package model

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLeaveRequestOverlaps(t *testing.T) {
	r := &LeaveRequest{StartDate: date("2026-03-10"), EndDate: date("2026-03-14")}
	tests := []struct {
		name       string
		start, end string
		want       bool
	}{
		{"完全包含", "2026-03-01", "2026-03-31", true},
		{"被包含", "2026-03-11", "2026-03-12", true},
		{"左端相接", "2026-03-05", "2026-03-10", true},
		{"右端相接", "2026-03-14", "2026-03-20", true},
		{"左侧不相交", "2026-03-01", "2026-03-09", false},
		{"右侧不相交", "2026-03-15", "2026-03-20", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Overlaps(date(tt.start), date(tt.end)); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestLeaveRequestCovers(t *testing.T) {
	r := &LeaveRequest{StartDate: date("2026-03-10"), EndDate: date("2026-03-14")}
	if !r.Covers(date("2026-03-10")) || !r.Covers(date("2026-03-14")) {
		t.Error("区间端点应视为覆盖")
	}
	if r.Covers(date("2026-03-09")) || r.Covers(date("2026-03-15")) {
		t.Error("区间外的日期不应覆盖")
	}
}
