package errors

import (
	"errors"
	"fmt"
	"testing"
)

var errMissing = errors.New("snapshot not found")

func TestError(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "threshold",
			err:  New(ErrCodeInvalidThreshold, "threshold must be greater than 1, received %v", 0.5),
			want: "INVALID_THRESHOLD: threshold must be greater than 1, received 0.5",
		},
		{
			name: "aspect ratio",
			err:  New(ErrCodeInvalidAspectRatio, "item %q: aspect ratio must be a positive number", "img-3"),
			want: `INVALID_ASPECT_RATIO: item "img-3": aspect ratio must be a positive number`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeSnapshotNotFound, errMissing, "snapshot %q", "abc"),
			want: `SNAPSHOT_NOT_FOUND: snapshot "abc": snapshot not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeSnapshotNotFound, errMissing, "snapshot %q", "abc")
	if !errors.Is(err, errMissing) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
	if errors.Unwrap(err) != errMissing {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), errMissing)
	}
}

func TestIsAndGetCode(t *testing.T) {
	threshold := New(ErrCodeInvalidThreshold, "threshold must be greater than 1, received 0")

	tests := []struct {
		name     string
		err      error
		code     Code
		wantIs   bool
		wantCode Code
	}{
		{"direct", threshold, ErrCodeInvalidThreshold, true, ErrCodeInvalidThreshold},
		{"other code", threshold, ErrCodeInvalidAspectRatio, false, ErrCodeInvalidThreshold},
		{"behind fmt wrapping", fmt.Errorf("page 2: %w", New(ErrCodeInvalidAspectRatio, "bad")), ErrCodeInvalidAspectRatio, true, ErrCodeInvalidAspectRatio},
		{"outermost code wins", Wrap(ErrCodeInvalidInput, threshold, "invalid layout"), ErrCodeInvalidThreshold, false, ErrCodeInvalidInput},
		{"storage miss", fmt.Errorf("load: %w", Wrap(ErrCodeSnapshotNotFound, errMissing, "snapshot %q", "x")), ErrCodeSnapshotNotFound, true, ErrCodeSnapshotNotFound},
		{"plain error", errMissing, ErrCodeSnapshotNotFound, false, ""},
		{"nil", nil, ErrCodeInternal, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.wantIs {
				t.Errorf("Is(%v) = %v, want %v", tt.code, got, tt.wantIs)
			}
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"coded", New(ErrCodeInvalidThreshold, "threshold must be greater than 1, received 0"), "threshold must be greater than 1, received 0"},
		{"coded with cause", Wrap(ErrCodeSnapshotNotFound, errMissing, "snapshot %q", "abc"), `snapshot "abc"`},
		{"behind fmt wrapping", fmt.Errorf("open: %w", New(ErrCodeFileNotFound, "gallery.yaml does not exist")), "gallery.yaml does not exist"},
		{"validator", ValidateAspectRatio(-1), "aspect ratio must be a positive number, received -1"},
		{"plain", errMissing, "snapshot not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidatorCodes(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"threshold below one", ValidateThreshold(0.99), ErrCodeInvalidThreshold},
		{"zero aspect ratio", ValidateAspectRatio(0), ErrCodeInvalidAspectRatio},
		{"snapshot id with dots", ValidateSnapshotID("../etc"), ErrCodeInvalidInput},
		{"absolute item path", ValidatePath("/photos/a.jpg"), ErrCodeInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}
