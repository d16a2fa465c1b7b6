package common

import (
	"errors"
	"fmt"
	"testing"
)

// TestFailureKinds tests that the failure taxonomy stays distinguishable
// through wrapping
func TestFailureKinds(t *testing.T) {
	cause := errors.New("boom")

	cases := map[FailureKind]error{
		FailureBind:    NewBindFailure(cause),
		FailureConnect: NewConnectFailure(cause),
		FailureIO:      NewIOFailure(cause),
	}

	for kind, err := range cases {
		t.Run(kind.String(), func(t *testing.T) {
			if got := KindOf(err); got != kind {
				t.Errorf("KindOf = %s, want %s", got, kind)
			}

			// Kind survives an extra layer of wrapping
			wrapped := fmt.Errorf("connection 1: %w", err)
			if got := KindOf(wrapped); got != kind {
				t.Errorf("KindOf(wrapped) = %s, want %s", got, kind)
			}

			// The cause stays reachable
			if !errors.Is(err, cause) {
				t.Errorf("cause not reachable via errors.Is")
			}
		})
	}
}

// TestKindOfUnknown tests that foreign errors report FailureUnknown
func TestKindOfUnknown(t *testing.T) {
	if got := KindOf(errors.New("plain")); got != FailureUnknown {
		t.Errorf("KindOf(plain error) = %s, want %s", got, FailureUnknown)
	}
	if got := KindOf(nil); got != FailureUnknown {
		t.Errorf("KindOf(nil) = %s, want %s", got, FailureUnknown)
	}
}
