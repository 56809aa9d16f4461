package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func setupHome(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	viper.Reset()
	t.Setenv("HOME", dir)
	t.Cleanup(viper.Reset)
	color.NoColor = true
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "gy", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().Bool("json", false, "")
	root.AddCommand(NewCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs(append([]string{"config"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestSetGetPath(t *testing.T) {
	home := setupHome(t)

	if _, err := execute(t, "set", "mode", "corrected"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(home, ".gy", "config.yaml")); err != nil {
		t.Errorf("config file not written: %v", err)
	}

	out, err := execute(t, "get", "mode")
	if err != nil {
		t.Fatal(err)
	}
	if out != "mode: corrected\n" {
		t.Errorf("get mode = %q", out)
	}

	out, _ = execute(t, "path")
	if strings.TrimSpace(out) != filepath.Join(home, ".gy", "config.yaml") {
		t.Errorf("path = %q", out)
	}
}

func TestShow(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "mode: literal") || !strings.Contains(out, "header_marker: 工号") {
		t.Errorf("unexpected YAML:\n%s", out)
	}

	out, err = execute(t, "show", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if cfg["output"] != "矿山院月终.xlsx" {
		t.Errorf("output = %v", cfg["output"])
	}
}

func TestValidate(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "validate")
	if err != nil {
		t.Fatalf("defaults should validate: %v\n%s", err, out)
	}

	t.Setenv("GY_MODE", "fast")
	viper.Reset()
	out, err = execute(t, "validate")
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(out, "mode:") || !strings.Contains(out, "Fix: gy config set mode literal") {
		t.Errorf("unexpected report:\n%s", out)
	}
}

func TestEnvAndReset(t *testing.T) {
	setupHome(t)

	out, err := execute(t, "env")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, `export GY_MODE="literal"`) {
		t.Errorf("env output missing GY_MODE:\n%s", out)
	}

	execute(t, "set", "output", "x.xlsx")
	if out, err := execute(t, "reset"); err != nil || !strings.Contains(out, "reset to defaults") {
		t.Errorf("reset: %v %q", err, out)
	}
	out, _ = execute(t, "get", "output")
	if out != "output: 矿山院月终.xlsx\n" {
		t.Errorf("after reset, get output = %q", out)
	}
}
