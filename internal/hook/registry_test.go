package hook

import "testing"

func TestAllPreservesRegistrationOrder(t *testing.T) {
	r := New()
	r.Set(KeyEvent, 1)
	r.Set(KeyEvent, 2)
	r.Set(KeyEvent, 3)
	got := r.All(KeyEvent)
	want := []CallbackHandle{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("All() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("All()[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestMatchingIncludesUnscopedAndScopeMatch(t *testing.T) {
	r := New()
	r.Set(PaneClosed, 10) // fires for every pane close
	r.SetScoped(PaneClosed, 20, 5)
	r.SetScoped(PaneClosed, 30, 6)

	got := r.Matching(PaneClosed, 5)
	want := []CallbackHandle{10, 20}
	if len(got) != len(want) {
		t.Fatalf("Matching(5) = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Matching(5)[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestInvalidateScopeDropsOnlyMatchingRegistrations(t *testing.T) {
	r := New()
	r.Set(PaneClosed, 1)
	r.SetScoped(PaneClosed, 2, 7)
	r.SetScoped(PaneClosed, 3, 8)

	r.InvalidateScope(PaneClosed, 7)

	got := r.Matching(PaneClosed, 7)
	if len(got) != 1 || got[0] != 1 {
		t.Fatalf("Matching(7) after invalidate = %v, want [1] (only the unscoped callback)", got)
	}
	got8 := r.Matching(PaneClosed, 8)
	if len(got8) != 2 {
		t.Fatalf("Matching(8) after unrelated invalidate = %v, want 2 entries", got8)
	}
}

func TestScopedRegistrationDoesNotFireForOtherScopes(t *testing.T) {
	r := New()
	r.SetScoped(PaneClosed, 99, 1)
	if got := r.Matching(PaneClosed, 2); len(got) != 0 {
		t.Fatalf("Matching(2) = %v, want empty", got)
	}
}
