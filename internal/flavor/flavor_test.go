package flavor

import (
	"context"
	"strings"
	"testing"
)

func TestCannedDescribeMentionsPlayerAndRole(t *testing.T) {
	gen := Canned{}
	for i := 0; i < 20; i++ {
		text, err := gen.Describe(context.Background(), "Alice", "Hawker Hero")
		if err != nil {
			t.Fatalf("Describe: %v", err)
		}
		if !strings.Contains(text, "Alice") || !strings.Contains(text, "Hawker Hero") {
			t.Fatalf("description %q missing player or role", text)
		}
	}
}

func TestCannedTitleRules(t *testing.T) {
	gen := Canned{}

	title, err := gen.Title(context.Background(), "Alice", nil)
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if title != "The Participant" {
		t.Fatalf("title with no roles = %q, want The Participant", title)
	}

	many := []string{"a", "b", "c", "d"}
	title, err = gen.Title(context.Background(), "Alice", many)
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if title != "The Legend" {
		t.Fatalf("title with 4 roles = %q, want The Legend", title)
	}

	title, err = gen.Title(context.Background(), "Alice", []string{"a"})
	if err != nil {
		t.Fatalf("Title: %v", err)
	}
	if title == "" {
		t.Fatalf("expected a title for a single earned role")
	}
}

func TestFallbacks(t *testing.T) {
	got := FallbackDescription("Alice", "Hawker Hero")
	want := "Alice absolutely crushed it as Hawker Hero! The people have spoken."
	if got != want {
		t.Fatalf("fallback description = %q, want %q", got, want)
	}

	if FallbackTitle([]string{"a"}) != "The Legend" {
		t.Fatalf("fallback title with roles should be The Legend")
	}
	if FallbackTitle(nil) != "The Participant" {
		t.Fatalf("fallback title without roles should be The Participant")
	}
}
