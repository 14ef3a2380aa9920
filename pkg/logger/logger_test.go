package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
	}{
		{"debug", true},
		{"info", false},
		{"not-a-level", false},
	}
	for _, tt := range tests {
		l, err := New(tt.level)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.level, err)
		}
		if got := l.Core().Enabled(zapcore.DebugLevel); got != tt.wantDebug {
			t.Fatalf("%s: debug enabled = %v, want %v", tt.level, got, tt.wantDebug)
		}
	}
}
