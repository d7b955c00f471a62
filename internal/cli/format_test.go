package cli

import (
	"testing"
	"time"
)

func TestFormatStreak(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, "no streak"},
		{1, "🔥 1 day streak"},
		{12, "🔥 12 day streak"},
	}
	for _, tt := range tests {
		if got := FormatStreak(tt.n); got != tt.want {
			t.Errorf("FormatStreak(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestFormatProgress(t *testing.T) {
	if got := FormatProgress(2, 5); got != "2/5 (40%)" {
		t.Fatalf("FormatProgress(2,5) = %q", got)
	}
	if got := FormatProgress(0, 0); got != "0/0" {
		t.Fatalf("FormatProgress(0,0) = %q", got)
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(d); got != "Thu, Oct 15 2026" {
		t.Fatalf("FormatDate = %q", got)
	}
}

func TestPlural(t *testing.T) {
	if got := Plural(1, "habit"); got != "1 habit" {
		t.Fatalf("Plural(1) = %q", got)
	}
	if got := Plural(3, "habit"); got != "3 habits" {
		t.Fatalf("Plural(3) = %q", got)
	}
}
