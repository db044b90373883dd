package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestPreview(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		limit  int
		expect string
	}{
		{
			name:   "returns empty when limit non-positive",
			input:  "score the candidate",
			limit:  0,
			expect: "",
		},
		{
			name:   "shorter than limit",
			input:  "score",
			limit:  10,
			expect: "score",
		},
		{
			name:   "cuts and adds ellipsis",
			input:  "score the candidate",
			limit:  5,
			expect: "score...",
		},
		{
			name:   "flattens newlines and runs of spaces",
			input:  "  # Job\n\nTitle:   Frontend\tDeveloper  ",
			limit:  100,
			expect: "# Job Title: Frontend Developer",
		},
		{
			name:   "counts runes not bytes",
			input:  "доступность",
			limit:  4,
			expect: "дост...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Preview(tt.input, tt.limit); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestWaitReturnsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Wait(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("wait did not return promptly after cancel")
	}
}

func TestWaitElapses(t *testing.T) {
	t.Parallel()

	if err := Wait(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Wait(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error for zero duration: %v", err)
	}
}
