package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"DEBUG", LevelDebug},
		{"debug", LevelDebug},
		{"INFO", LevelInfo},
		{"", LevelInfo},
		{"bogus", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"ERROR", LevelError},
		{"CRITICAL", LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(EnvLevel, "warn")
	assert.Equal(t, LevelWarn, LevelFromEnv())
}

func TestLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo)

	log.WithName("lifecycle").WithValues("target", "alpha").Info("switched identity", "from", "beta")

	assert.Contains(t, buf.String(), "\t[INFO] -- lifecycle: switched identity \"target\"=\"alpha\" \"from\"=\"beta\"\n")
}

func TestLogger_NestedNames(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelInfo).WithName("lifecycle").WithName("steps").Info("done")

	assert.Contains(t, buf.String(), "[INFO] -- lifecycle/steps: done\n")
}

func TestLogger_QuotesValues(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo)

	log.Info("ran", "cmd", "terraform apply -auto-approve", "empty", "", "exitCode", 3)

	assert.Contains(t, buf.String(), `"cmd"="terraform apply -auto-approve" "empty"="" "exitCode"=3`)
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		level     Level
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
		wantError bool
	}{
		{LevelDebug, true, true, true, true},
		{LevelInfo, false, true, true, true},
		{LevelWarn, false, false, true, true},
		{LevelError, false, false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.level)

			log.V(1).Info("debug-line")
			log.Info("info-line")
			Warn(log, "warn-line")
			log.Error(errors.New("boom"), "error-line")

			out := buf.String()
			assert.Equal(t, tt.wantDebug, strings.Contains(out, "[DEBUG] -- debug-line"))
			assert.Equal(t, tt.wantInfo, strings.Contains(out, "[INFO] -- info-line"))
			assert.Equal(t, tt.wantWarn, strings.Contains(out, "[WARN] -- warn-line"))
			assert.Equal(t, tt.wantError, strings.Contains(out, `[ERROR] -- error-line "error"="boom"`))
		})
	}
}

func TestLogger_ErrorWithoutCause(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelInfo).Error(nil, "recovered from panic", "panic", "nil map")

	out := buf.String()
	assert.Contains(t, out, `[ERROR] -- recovered from panic "panic"="nil map"`)
	assert.NotContains(t, out, "null")
}

func TestLogger_WarnDropsSeverityKey(t *testing.T) {
	var buf bytes.Buffer
	Warn(New(&buf, LevelInfo), "cluster mismatch", "declared", "alpha")

	out := buf.String()
	assert.Contains(t, out, `[WARN] -- cluster mismatch "declared"="alpha"`)
	assert.NotContains(t, out, severityKey)
}

func TestLogger_OddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, LevelInfo).Info("odd", "dangling")

	assert.Contains(t, buf.String(), `"dangling"="<no-value>"`)
}
