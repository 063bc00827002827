package errs

import (
	"errors"
	"testing"
)

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := NotFoundf("process error %d", 7)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("errors.Is lost the sentinel: %v", err)
	}
	if err.Error() != "process error 7: not found" {
		t.Fatalf("message = %q", err.Error())
	}

	wrapped := Wrap(err, "delete")
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatalf("Wrap broke the chain: %v", wrapped)
	}
}

func TestWrapNil(t *testing.T) {
	if Wrap(nil, "context") != nil {
		t.Fatal("Wrap(nil) should stay nil")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	if errors.Is(Validationf("x"), ErrConflict) {
		t.Fatal("validation matched conflict")
	}
	if errors.Is(Conflictf("x"), ErrForbidden) {
		t.Fatal("conflict matched forbidden")
	}
}
