package inspect

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/klytics/gy/internal/formats/xlsx"
	"github.com/klytics/gy/internal/sheet"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	wb := &xlsx.Workbook{
		SheetNames: []string{"个人绩效", "个人产值"},
		Sheets: map[string]sheet.Raw{
			"个人绩效": {"A1": "工号", "Q1": "得分", "A2": "E001", "Q2": 87.5},
			"个人产值": {"A1": "工号", "C1": "1月"},
		},
	}
	path := filepath.Join(t.TempDir(), "source.xlsx")
	if err := xlsx.WriteFile(wb, path); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "gy", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().Bool("json", false, "")
	root.AddCommand(NewCommand())

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"inspect"}, args...))
	err := root.Execute()
	return out.String(), err
}

func TestInspectPretty(t *testing.T) {
	color.NoColor = true
	path := writeWorkbook(t)

	out, err := execute(t, path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Sheet 1: 个人绩效", "A2=E001  Q2=87.5", "(1 rows)", "Sheet 2: 个人产值", "(no data rows)"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "得分") {
		t.Error("header row must not be listed")
	}
}

func TestInspectJSONSingleSheet(t *testing.T) {
	path := writeWorkbook(t)

	out, err := execute(t, path, "--json", "--sheet", "个人绩效")
	if err != nil {
		t.Fatal(err)
	}

	var result struct {
		OK   bool `json:"ok"`
		Data []struct {
			Name    string `json:"name"`
			Records []struct {
				Row   int            `json:"row"`
				Cells map[string]any `json:"cells"`
			} `json:"records"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if !result.OK || len(result.Data) != 1 || result.Data[0].Name != "个人绩效" {
		t.Fatalf("unexpected result: %s", out)
	}
	rec := result.Data[0].Records[0]
	if rec.Row != 2 || rec.Cells["A2"] != "E001" || rec.Cells["Q2"] != 87.5 {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestInspectStdin(t *testing.T) {
	color.NoColor = true
	data, err := os.ReadFile(writeWorkbook(t))
	if err != nil {
		t.Fatal(err)
	}

	root := &cobra.Command{Use: "gy"}
	root.PersistentFlags().Bool("json", false, "")
	root.AddCommand(NewCommand())
	var out bytes.Buffer
	root.SetIn(bytes.NewReader(data))
	root.SetOut(&out)
	root.SetArgs([]string{"inspect", "-"})

	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "A2=E001") {
		t.Errorf("stdin workbook not inspected:\n%s", out.String())
	}
}

func TestInspectErrors(t *testing.T) {
	path := writeWorkbook(t)

	if _, err := execute(t, "notes.csv"); !errors.Is(err, xlsx.ErrInvalidFileType) {
		t.Errorf("expected ErrInvalidFileType, got %v", err)
	}
	if _, err := execute(t, path, "--sheet", "missing"); !errors.Is(err, xlsx.ErrMissingSheet) {
		t.Errorf("expected ErrMissingSheet, got %v", err)
	}
}

func TestClip(t *testing.T) {
	if got := clip("short"); got != "short" {
		t.Errorf("clip = %q", got)
	}
	long := strings.Repeat("工", 30)
	if got := []rune(clip(long)); len(got) != maxCell || got[maxCell-1] != '~' {
		t.Errorf("clip(long) = %q", string(got))
	}
}
