package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestInitLevel(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "warn", Out: &buf})

	Info().Msg("hidden")
	Warn().Str("table", "sales_data").Msg("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info message logged at warn level: %s", out)
	}
	if !strings.Contains(out, `"table":"sales_data"`) {
		t.Errorf("Expected JSON field in output, got: %s", out)
	}
}

func TestInitInvalidLevelDefaultsToInfo(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "chatty", Out: &buf})

	Debug().Msg("debug")
	Info().Msg("info")

	out := buf.String()
	if strings.Contains(out, `"message":"debug"`) {
		t.Error("Debug should be filtered at default level")
	}
	if !strings.Contains(out, `"message":"info"`) {
		t.Errorf("Expected info message, got: %s", out)
	}
}

func TestInitPretty(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "debug", Pretty: true, Out: &buf})
	Error().Msg("pretty")

	if strings.HasPrefix(strings.TrimSpace(buf.String()), "{") {
		t.Errorf("Pretty output should not be JSON: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "pretty") {
		t.Errorf("Expected message in output: %s", buf.String())
	}
}
