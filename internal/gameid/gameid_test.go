package gameid

import "testing"

func TestNewGeneratesValidIDs(t *testing.T) {
	t.Parallel()

	for i := 0; i < 100; i++ {
		id := New()
		if err := Validate(id); err != nil {
			t.Fatalf("generated invalid id %q: %v", id, err)
		}
	}
}

func TestNewGeneratesUniqueIDs(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		id := New()
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}

func TestValidateRejectsMalformedIDs(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"short",
		"uppercase0000000000000000U",
		"z0000000000000000000000000", // first char above '7'
		"0000000000000000000000000!",
	}
	for _, id := range cases {
		if err := Validate(id); err == nil {
			t.Errorf("expected error for %q", id)
		}
	}
}
