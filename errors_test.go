package sprite

import (
	"errors"
	"os"
	"testing"
)

func TestIsConfigNotFound(t *testing.T) {
	err := errors.New("some error")
	if IsConfigNotFound(err) {
		t.Log("custom error type configNotFound is wrongly recognized")
		t.Fail()
	}

	err = configNotFound{"x.json", os.ErrNotExist}
	if !IsConfigNotFound(err) {
		t.Log("custom error type configNotFound is not recognized")
		t.Fail()
	}

	err = Wrap(err, "load project %v", "demo")
	if !IsConfigNotFound(err) {
		t.Log("wrapped configNotFound is not recognized")
		t.Fail()
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Log("cause is not reachable through Unwrap")
		t.Fail()
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	cause := errors.New("cause")
	errs := []error{
		configNotFound{"a", cause},
		configFormat{"a", cause},
		&ValidationError{Problems: []string{"x"}},
		inputMissing{"a", cause},
		outputWrite{"a", cause},
	}
	checks := []func(error) bool{
		IsConfigNotFound,
		IsConfigFormat,
		IsValidationError,
		IsInputMissing,
		IsOutputWrite,
	}

	for i, err := range errs {
		for j, check := range checks {
			if check(err) != (i == j) {
				t.Errorf("check %d gives wrong answer for error %d (%v)", j, i, err)
			}
		}
	}
}

func TestWarningKindString(t *testing.T) {
	if FrameNaming.String() != "frame-naming" {
		t.Errorf("unexpected name %q", FrameNaming.String())
	}
	if WarningKind(42).String() != "warning(42)" {
		t.Errorf("unexpected name for unknown kind")
	}
}
