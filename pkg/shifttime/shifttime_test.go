package shifttime

import (
	"fmt"
	"math"
	"testing"
)

const eps = 1e-9

func clock(h, m int) float64 { return float64(h*60+m) / minutesPerDay }

func TestParseTime_Formats(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"18:30", clock(18, 30)},
		{"1830", clock(18, 30)},
		{"18", clock(18, 0)},
		{"7:5", clock(7, 5)},
		{" 06:00 ", clock(6, 0)},
		{"7,5", clock(7, 30)},
		{"7.25", clock(7, 15)},
		{"100", clock(1, 0)},
		{"0", 0},
		{"", 0},
	}
	for _, c := range cases {
		if got := ParseTime(c.in); math.Abs(got-c.want) > eps {
			t.Errorf("ParseTime(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseTime_FailsSoft(t *testing.T) {
	for _, in := range []string{"25", "abc", "24:00", "12:60", "-3", "1875", "18:xx", "12.5.1", "2460", "23.995", "23,999", "24"} {
		if got := ParseTime(in); got != 0 {
			t.Errorf("ParseTime(%q) = %v, want 0", in, got)
		}
	}
}

func TestParseTime_DecimalStaysInsideDay(t *testing.T) {
	if got := ParseTime("23.99"); got >= 1 || FormatTime(got) != "23:59" {
		t.Errorf("ParseTime(23.99) = %v (%s), want 23:59", got, FormatTime(got))
	}
}

func TestFormatTime(t *testing.T) {
	if got := FormatTime(0); got != "" {
		t.Errorf("FormatTime(0) = %q, want empty", got)
	}
	if got := FormatTime(-0.1); got != "" {
		t.Errorf("FormatTime(-0.1) = %q, want empty", got)
	}
	if got := FormatTime(0.5); got != "12:00" {
		t.Errorf("FormatTime(0.5) = %q, want 12:00", got)
	}
	if got := FormatTime(clock(6, 5)); got != "06:05" {
		t.Errorf("FormatTime(06:05) = %q", got)
	}
	// 23:59:50 rounds up to 24:00 and must clamp
	if got := FormatTime(0.99988); got != "23:59" {
		t.Errorf("FormatTime(0.99988) = %q, want 23:59", got)
	}
	if got := FormatTime(1.0); got != "23:59" {
		t.Errorf("FormatTime(1.0) = %q, want 23:59", got)
	}
}

func TestFormatParse_RoundTripAllMinutes(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s := fmt.Sprintf("%02d:%02d", h, m)
			if h == 0 && m == 0 {
				// midnight is indistinguishable from "no entry"
				if FormatTime(ParseTime(s)) != "" {
					t.Errorf("00:00 should format as empty")
				}
				continue
			}
			if got := FormatTime(ParseTime(s)); got != s {
				t.Fatalf("round trip %s -> %s", s, got)
			}
			x := clock(h, m)
			if got := ParseTime(FormatTime(x)); got != x {
				t.Fatalf("parse(format(%v)) = %v", x, got)
			}
		}
	}
}

func TestComputeHours(t *testing.T) {
	cases := []struct {
		name            string
		start, end, brk float64
		want            float64
	}{
		{"no shift", 0, 0, 0.5, 0},
		{"day shift", clock(8, 0), clock(16, 30), 0.5, 8},
		{"overnight", clock(22, 0), clock(6, 0), 0, 8},
		{"overnight with break", clock(23, 0), clock(7, 0), 0.75, 7.25},
		{"break exceeds span", clock(8, 0), clock(9, 0), 3, 0},
		{"end at midnight", clock(16, 0), 0, 0, 8},
	}
	for _, c := range cases {
		if got := ComputeHours(c.start, c.end, c.brk); math.Abs(got-c.want) > eps {
			t.Errorf("%s: ComputeHours = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestComputeHours_Properties(t *testing.T) {
	for _, b := range []float64{0, 0.5, 8, 100} {
		if ComputeHours(0, 0, b) != 0 {
			t.Errorf("ComputeHours(0,0,%v) must be 0", b)
		}
	}
	for s := 0; s < minutesPerDay; s += 37 {
		for e := 0; e < minutesPerDay; e += 41 {
			start, end := float64(s)/minutesPerDay, float64(e)/minutesPerDay
			if start == 0 && end == 0 {
				continue
			}
			want := 24 * (end - start)
			if end < start {
				want = 24 * (end + 1 - start)
			}
			if got := ComputeHours(start, end, 0); math.Abs(got-want) > 0.005 {
				t.Fatalf("ComputeHours(%v,%v,0) = %v, want %v", start, end, got, want)
			}
			if got := ComputeHours(start, end, 30); got < 0 {
				t.Fatalf("ComputeHours returned negative %v", got)
			}
		}
	}
}

func TestOverlaps(t *testing.T) {
	haupttor := NewWindow(clock(22, 0), clock(6, 0))
	empfang := NewWindow(clock(23, 0), clock(7, 0))
	if !Overlaps(haupttor, empfang) || !Overlaps(empfang, haupttor) {
		t.Error("overnight windows should overlap in both directions")
	}

	early := NewWindow(clock(6, 0), clock(14, 0))
	late := NewWindow(clock(14, 0), clock(22, 0))
	if Overlaps(early, late) || Overlaps(late, early) {
		t.Error("touching windows must not overlap")
	}

	morning := NewWindow(clock(8, 0), clock(12, 0))
	if Overlaps(haupttor, morning) != Overlaps(morning, haupttor) {
		t.Error("overlap must be symmetric")
	}
}

func TestWindow_IsEmpty(t *testing.T) {
	if !NewWindow(0, 0).IsEmpty() {
		t.Error("0-0 is empty")
	}
	if !NewWindow(0.5, 0.5).IsEmpty() {
		t.Error("equal start and end is empty")
	}
	if NewWindow(0.9, 0.1).IsEmpty() {
		t.Error("overnight window is not empty")
	}
}

func TestFormatRange(t *testing.T) {
	if got := FormatRange(clock(22, 0), clock(6, 0)); got != "22:00-06:00" {
		t.Errorf("FormatRange = %q", got)
	}
	if got := FormatRange(clock(16, 0), 0); got != "16:00-00:00" {
		t.Errorf("FormatRange = %q", got)
	}
}
