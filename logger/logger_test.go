package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {
	tests := []struct {
		name       string
		jsonOutput bool
		verbosity  int
		wantLevel  zapcore.Level
	}{
		{"JSON output mode", true, 0, zapcore.WarnLevel},
		{"Console output mode", false, 0, zapcore.WarnLevel},
		{"Console with -v", false, 1, zapcore.InfoLevel},
		{"Console with -vv", false, 2, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Logger = nil
			JSONOutput = false

			if err := Initialize(tt.jsonOutput, tt.verbosity); err != nil {
				t.Fatalf("Initialize() error = %v", err)
			}
			if Logger == nil {
				t.Fatal("Initialize() did not set global Logger")
			}
			if JSONOutput != tt.jsonOutput {
				t.Errorf("Initialize() JSONOutput = %v, want %v", JSONOutput, tt.jsonOutput)
			}
			if !Logger.Desugar().Core().Enabled(tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
			if tt.wantLevel > zapcore.DebugLevel && Logger.Desugar().Core().Enabled(tt.wantLevel-1) {
				t.Errorf("expected level %v to be disabled", tt.wantLevel-1)
			}

			Cleanup()
		})
	}

	Logger = zap.NewNop().Sugar()
}

func TestHelpersWithNilLogger(t *testing.T) {
	saved := Logger
	defer func() { Logger = saved }()

	Logger = nil
	Infow("no panic")
	Debugw("no panic")
	Warnw("no panic")
	Errorw("no panic")
	Cleanup()
}

func TestVerbosityToLevel(t *testing.T) {
	tests := []struct {
		verbosity int
		want      zapcore.Level
	}{
		{-1, zapcore.WarnLevel},
		{0, zapcore.WarnLevel},
		{1, zapcore.InfoLevel},
		{2, zapcore.DebugLevel},
		{7, zapcore.DebugLevel},
	}

	for _, tt := range tests {
		if got := VerbosityToLevel(tt.verbosity); got != tt.want {
			t.Errorf("VerbosityToLevel(%d) = %v, want %v", tt.verbosity, got, tt.want)
		}
	}
}

func TestLevelName(t *testing.T) {
	if got := LevelName(VerbosityDebug); got != "Debug (-vv)" {
		t.Errorf("LevelName(2) = %q", got)
	}
	if got := LevelName(9); got != "Trace (-vvv+)" {
		t.Errorf("LevelName(9) = %q", got)
	}
	if !ShouldLogTrace(3) || ShouldLogTrace(2) {
		t.Error("ShouldLogTrace threshold should be 3")
	}
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	if RunID(ctx) != "" {
		t.Error("empty context should carry no run ID")
	}
	if LoggerFromContext(ctx) != Logger {
		t.Error("expected the global logger without a run ID")
	}

	ctx = WithRunID(ctx, "run-123")
	if got := RunID(ctx); got != "run-123" {
		t.Errorf("RunID() = %q, want run-123", got)
	}
	if LoggerFromContext(ctx) == nil {
		t.Error("LoggerFromContext returned nil")
	}
}
