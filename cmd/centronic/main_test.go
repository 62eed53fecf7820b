package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	pflag "github.com/spf13/pflag"
	"gopkg.in/yaml.v2"

	"github.com/bft-labs/centronic"
	"github.com/bft-labs/centronic/internal/cliconfig"
)

var sampleUnits = []centronic.Unit{
	{ID: 1, Counter: 42, Paired: true},
	{ID: 2, Counter: 0, Paired: false},
}

func TestRenderUnits_Table(t *testing.T) {
	var buf bytes.Buffer
	if err := renderUnits(&buf, sampleUnits, outputTable); err != nil {
		t.Fatalf("renderUnits() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "UNIT") {
		t.Errorf("header = %q", lines[0])
	}
	if f := strings.Fields(lines[1]); len(f) != 3 || f[0] != "1" || f[1] != "42" || f[2] != "true" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestRenderUnits_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := renderUnits(&buf, sampleUnits, outputJSON); err != nil {
		t.Fatalf("renderUnits() error = %v", err)
	}

	var got unitList
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(got.Units) != 2 || got.Units[0] != sampleUnits[0] {
		t.Errorf("decoded = %+v", got.Units)
	}
}

func TestRenderUnits_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := renderUnits(&buf, sampleUnits, outputYAML); err != nil {
		t.Fatalf("renderUnits() error = %v", err)
	}
	if !strings.Contains(buf.String(), "counter: 42") {
		t.Errorf("yaml output missing counter:\n%s", buf.String())
	}

	var got unitList
	if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("invalid yaml: %v", err)
	}
	if len(got.Units) != 2 || got.Units[1] != sampleUnits[1] {
		t.Errorf("decoded = %+v", got.Units)
	}
}

func TestRenderUnits_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := renderUnits(&buf, nil, outputJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"units": []`) {
		t.Errorf("empty list rendered as %s", buf.String())
	}
}

func TestRenderUnits_UnknownFormat(t *testing.T) {
	if err := renderUnits(&bytes.Buffer{}, sampleUnits, "xml"); err == nil {
		t.Error("renderUnits() expected error for unknown format")
	}
}

func TestParseMoveDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"3", 3 * time.Second, false},
		{"0", 0, false},
		{"1500ms", 1500 * time.Millisecond, false},
		{"2m", 2 * time.Minute, false},
		{"-1", 0, true},
		{"-2s", 0, true},
		{"soon", 0, true},
		{"9300000000", 0, true},
	}
	for _, tt := range tests {
		got, err := parseMoveDuration(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseMoveDuration(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseMoveDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewLogger_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "centronic.log")
	cfg := cliconfig.DefaultConfig()
	cfg.LogFile = path
	cfg.LogLevel = "warn"

	zl, closer, err := newLogger(cfg, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newLogger() error = %v", err)
	}
	zl.Info().Msg("dropped")
	zl.Warn().Str("device", "/dev/ttyACM0").Msg("kept")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if strings.Contains(string(data), "dropped") {
		t.Error("info message written at warn level")
	}
	if !strings.Contains(string(data), `"message":"kept"`) {
		t.Errorf("log file = %s", data)
	}
}

func TestNewLogger_Console(t *testing.T) {
	var buf bytes.Buffer
	cfg := cliconfig.DefaultConfig()

	zl, closer, err := newLogger(cfg, &buf)
	if err != nil {
		t.Fatal(err)
	}
	if closer != nil {
		t.Error("console logger should have no closer")
	}
	zl.Info().Msg("hello")
	if !strings.Contains(buf.String(), "hello") {
		t.Errorf("console output = %q", buf.String())
	}
}

func TestListCommand(t *testing.T) {
	dir := t.TempDir()
	data := `{"units":[{"id":3,"counter":9,"paired":true}]}`
	if err := os.WriteFile(filepath.Join(dir, "units.json"), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("HOME", t.TempDir())

	c := &cli{cfg: cliconfig.DefaultConfig()}
	root := c.rootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"list", "--store-dir", dir, "--output", "json"})

	if err := root.Execute(); err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out.String(), `"counter": 9`) {
		t.Errorf("output = %s", out.String())
	}
}

func TestSendCommand_RequiresDevice(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("CENTRONIC_DEVICE", "")

	c := &cli{cfg: cliconfig.DefaultConfig()}
	root := c.rootCommand()
	root.SetArgs([]string{"up", "1", "--store-dir", t.TempDir()})

	if err := root.Execute(); err == nil {
		t.Error("up without device expected error")
	}
}

func TestHideFlag(t *testing.T) {
	var buf bytes.Buffer
	zl := zerolog.New(&buf).Level(zerolog.WarnLevel)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Duration("frame-gap", 0, "")
	hideFlag(fs, "frame-gap", zl)
	if !fs.Lookup("frame-gap").Hidden {
		t.Error("frame-gap not hidden")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected log output: %s", buf.String())
	}

	hideFlag(fs, "missing", zl)
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), `"flag":"missing"`) {
		t.Errorf("log = %s, want warn entry for missing flag", buf.String())
	}
}
