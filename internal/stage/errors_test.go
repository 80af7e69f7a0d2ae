package stage

import "testing"

func TestSortEnvelopeErrorsDeterministic(t *testing.T) {
	env := Envelope{Errors: []Error{
		{Stage: "normalize-reports", Locator: "b.info", Message: "unreadable"},
		{Stage: "discover-reports", Locator: "z", Message: "denied"},
		{Stage: "normalize-reports", Locator: "a.info", Message: "unreadable"},
		{Stage: "normalize-reports", Locator: "a.info", Message: "empty"},
	}}
	SortEnvelopeErrors(&env)
	want := []Error{
		{Stage: "discover-reports", Locator: "z", Message: "denied"},
		{Stage: "normalize-reports", Locator: "a.info", Message: "empty"},
		{Stage: "normalize-reports", Locator: "a.info", Message: "unreadable"},
		{Stage: "normalize-reports", Locator: "b.info", Message: "unreadable"},
	}
	for i := range want {
		if env.Errors[i] != want[i] {
			t.Fatalf("order: got %+v, want %+v", env.Errors, want)
		}
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	if got := sanitizeErrorMessage("open /x:\n\tpermission   denied"); got != "open /x: permission denied" {
		t.Fatalf("got %q", got)
	}
	if got := sanitizeErrorMessage("  \n\t "); got != "error" {
		t.Fatalf("got %q", got)
	}
}
