package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDateStrict(t *testing.T) {
	d, err := ParseDate("2024-01-31")
	if err != nil {
		t.Fatalf("ParseDate error: %v", err)
	}
	if d.String() != "2024-01-31" {
		t.Fatalf("got %q", d.String())
	}

	bad := []string{
		"",
		"2024-1-31",
		"2024/01/31",
		"31-01-2024",
		"2024-02-30",
		"2024-13-01",
		"today",
		"2024-01-31T00:00:00Z",
	}
	for _, s := range bad {
		if _, err := ParseDate(s); err == nil {
			t.Fatalf("ParseDate(%q): expected error", s)
		}
	}
}

func TestDateBefore(t *testing.T) {
	a, _ := ParseDate("2024-01-01")
	b, _ := ParseDate("2024-01-02")
	c, _ := ParseDate("2025-01-01")
	if !a.Before(b) || !b.Before(c) {
		t.Fatalf("expected a < b < c")
	}
	if b.Before(a) || a.Before(a) {
		t.Fatalf("Before is not strict")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, _ := ParseDate("2024-06-15")
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-06-15"` {
		t.Fatalf("got %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back != d {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}

	var bad Date
	if err := json.Unmarshal([]byte(`"garbage"`), &bad); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestTodayUsesClock(t *testing.T) {
	clk := FixedClock{T: time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)}
	today := Today(clk)
	if today.String() != "2024-01-01" {
		t.Fatalf("got %q", today.String())
	}

	// One minute later it is a new day; Today is computed per call.
	clk.T = clk.T.Add(2 * time.Minute)
	if Today(clk).String() != "2024-01-02" {
		t.Fatalf("expected day rollover, got %q", Today(clk).String())
	}
}
