package logger

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestSetLevelAcceptsServerModes(t *testing.T) {
	cases := []struct {
		mode string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"release", zerolog.InfoLevel},
		{"test", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"nonsense", zerolog.InfoLevel},
	}

	for _, tc := range cases {
		SetLevel(tc.mode)
		if got := zerolog.GlobalLevel(); got != tc.want {
			t.Fatalf("SetLevel(%q): global level = %v, want %v", tc.mode, got, tc.want)
		}
	}
}
