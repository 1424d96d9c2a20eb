package shared

import (
	"errors"
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	orig := getRuntime
	t.Cleanup(func() { getRuntime = orig })

	tc := []struct {
		goos string
		want string
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			getRuntime = func() string { return tt.goos }
			cmd, err := browserCommand("http://127.0.0.1:5000/product")
			if err != nil {
				t.Fatalf("browserCommand() error = %v", err)
			}
			if cmd.Args[0] != tt.want {
				t.Errorf("browserCommand() = %s, want %s", cmd.Args[0], tt.want)
			}
		})
	}

	t.Run("unsupported platform", func(t *testing.T) {
		getRuntime = func() string { return "plan9" }
		if _, err := browserCommand("http://127.0.0.1:5000"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		getRuntime = func() string { return "linux" }
		_, err := browserCommand("file:///etc/passwd")
		if !errors.Is(err, ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
