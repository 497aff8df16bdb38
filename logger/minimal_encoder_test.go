package logger

import (
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// stripANSI removes ANSI color codes from a string for testing
func stripANSI(str string) string {
	ansiRegex := regexp.MustCompile(`\x1b\[[0-9;]*m`)
	return ansiRegex.ReplaceAllString(str, "")
}

// The console encoder must never silently drop a field.
func TestMinimalEncoderNeverDiscardsFields(t *testing.T) {
	encoder := newMinimalEncoder()

	entry := zapcore.Entry{
		Level:      zapcore.InfoLevel,
		Time:       time.Now(),
		LoggerName: "loadergen",
		Message:    "Reduced command groups",
	}

	testFields := []struct {
		field    zapcore.Field
		mustFind string
	}{
		{zap.String(FieldFile, "Generated/LoaderVK.h"), "Generated/LoaderVK.h"},
		{zap.Int(FieldGroups, 412), "412 groups"},
		{zap.Int(FieldMerged, 37), "37 merged"},
		{zap.Int64(FieldDurationMS, 12), "12ms"},
		{zap.String("api", "vulkan"), "api=vulkan"},
		{zap.Bool("dry_run", true), "dry_run=true"},
		{zap.Float64("ratio", 0.5), "ratio=0.5"},
		{zap.Error(errors.New("boom")), "boom"},
	}

	var fields []zapcore.Field
	for _, tf := range testFields {
		fields = append(fields, tf.field)
	}

	buf, err := encoder.EncodeEntry(entry, fields)
	if err != nil {
		t.Fatalf("EncodeEntry failed: %v", err)
	}
	output := stripANSI(buf.String())

	for _, tf := range testFields {
		if !strings.Contains(output, tf.mustFind) {
			t.Errorf("field %q missing from output: %q", tf.mustFind, output)
		}
	}
}

func TestMinimalEncoderLevels(t *testing.T) {
	encoder := newMinimalEncoder()

	tests := []struct {
		level    zapcore.Level
		mustFind string
	}{
		{zapcore.InfoLevel, ""},
		{zapcore.WarnLevel, "WARN"},
		{zapcore.ErrorLevel, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			buf, err := encoder.EncodeEntry(zapcore.Entry{
				Level:   tt.level,
				Time:    time.Date(2024, 1, 2, 13, 4, 35, 0, time.UTC),
				Message: "hello",
			}, nil)
			if err != nil {
				t.Fatalf("EncodeEntry failed: %v", err)
			}
			out := stripANSI(buf.String())

			if !strings.HasPrefix(out, "13:04:35") {
				t.Errorf("expected time prefix, got %q", out)
			}
			if tt.mustFind != "" && !strings.Contains(out, tt.mustFind) {
				t.Errorf("expected %q in %q", tt.mustFind, out)
			}
			if tt.level == zapcore.InfoLevel && (strings.Contains(out, "INFO") || strings.Contains(out, "WARN")) {
				t.Errorf("info lines should not carry a level tag: %q", out)
			}
			if !strings.HasSuffix(out, "hello\n") {
				t.Errorf("expected message at end, got %q", out)
			}
		})
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme("everforest")

	SetTheme("gruvbox")
	if colors() != gruvbox {
		t.Error("expected gruvbox palette")
	}

	SetTheme("solarized")
	if colors() != gruvbox {
		t.Error("unknown theme should leave the palette unchanged")
	}

	SetTheme("everforest")
	if colors() != everforest {
		t.Error("expected everforest palette")
	}
}

func TestClone(t *testing.T) {
	encoder := newMinimalEncoder()
	if _, ok := encoder.Clone().(*minimalEncoder); !ok {
		t.Error("Clone should return a *minimalEncoder")
	}
}
