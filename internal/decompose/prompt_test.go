package decompose

import (
	"strings"
	"testing"
)

func TestFragmentPrompt_PreservesOrderAndContent(t *testing.T) {
	prompt := "the quick brown fox jumps over the lazy dog"
	fragments := FragmentPrompt(prompt, testRand())

	if len(fragments) == 0 {
		t.Fatal("fragmenting a non-empty prompt should yield fragments")
	}

	var parts []string
	for _, f := range fragments {
		parts = append(parts, f.Content)
	}
	if rejoined := strings.Join(parts, " "); rejoined != prompt {
		t.Errorf("rejoined fragments = %q, want %q", rejoined, prompt)
	}
}

func TestFragmentPrompt_RunLengths(t *testing.T) {
	prompt := strings.Repeat("word ", 200)
	fragments := FragmentPrompt(prompt, testRand())

	for i, f := range fragments {
		n := len(strings.Fields(f.Content))
		if n < 1 || n > 3 {
			t.Fatalf("fragment %d has %d words, want 1-3", i, n)
		}
	}
}

func TestFragmentPrompt_Empty(t *testing.T) {
	if got := FragmentPrompt("", testRand()); len(got) != 0 {
		t.Errorf("empty prompt yielded %d fragments", len(got))
	}
	if got := FragmentPrompt("   \t  ", testRand()); len(got) != 0 {
		t.Errorf("whitespace prompt yielded %d fragments", len(got))
	}
}

func TestFragmentPrompt_FreshIDs(t *testing.T) {
	fragments := FragmentPrompt("one two three four five six", testRand())
	seen := make(map[string]bool)
	for _, f := range fragments {
		if seen[f.ID.String()] {
			t.Fatal("fragment ids must be unique")
		}
		seen[f.ID.String()] = true
	}
}
