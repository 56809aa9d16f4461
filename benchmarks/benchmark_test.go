package benchmarks

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/klytics/gy/internal/formats/xlsx"
	"github.com/klytics/gy/internal/reconcile"
	"github.com/klytics/gy/internal/sheet"
)

var sampleSource = filepath.Join("..", "testdata", "source.xlsx")
var sampleSummary = filepath.Join("..", "testdata", "summary.xlsx")

// synthetic builds an output sheet, a score sheet and a summary sheet with n
// employees each. n must stay below 99.
func synthetic(n int) (outputs, performances, targets sheet.Raw) {
	outputs = sheet.Raw{"A1": "工号", "C1": "1月"}
	performances = sheet.Raw{"A1": "工号", "Q1": "得分"}
	targets = sheet.Raw{"C1": "工号"}
	for i := 1; i <= n; i++ {
		row := i + 1
		id := fmt.Sprintf("E%03d", i)
		outputs[fmt.Sprintf("A%d", row)] = id
		outputs[fmt.Sprintf("C%d", row)] = float64(i) * 33.335
		performances[fmt.Sprintf("A%d", row)] = id
		performances[fmt.Sprintf("Q%d", row)] = 80 + float64(i%20)/10
		// Summary rows are listed in reverse to force a full search.
		targets[fmt.Sprintf("C%d", row)] = fmt.Sprintf("E%03d", n+1-i)
	}
	return outputs, performances, targets
}

// --- Sheet Benchmarks ---

func BenchmarkExtract(b *testing.B) {
	outputs, _, _ := synthetic(98)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if len(sheet.Extract(outputs)) != 98 {
			b.Fatal("unexpected record count")
		}
	}
}

func BenchmarkProjectDiff(b *testing.B) {
	outputs, performances, targets := synthetic(98)
	jan, _ := reconcile.MonthOf(1)
	rows, _ := reconcile.New(reconcile.DefaultOptions()).Reconcile(
		sheet.Extract(outputs), sheet.Extract(performances), sheet.Extract(targets), jan)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sheet.Diff(targets, sheet.Project(rows, targets))
	}
}

// --- Reconcile Benchmarks ---

func benchmarkReconcile(b *testing.B, mode reconcile.Mode) {
	outputs, performances, targets := synthetic(98)
	out, perf, tgt := sheet.Extract(outputs), sheet.Extract(performances), sheet.Extract(targets)
	opts := reconcile.DefaultOptions()
	opts.Mode = mode
	engine := reconcile.New(opts)
	jan, _ := reconcile.MonthOf(1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, sum := engine.Reconcile(out, perf, tgt, jan)
		if len(sum.Unmatched) != 0 {
			b.Fatal("every employee should match")
		}
	}
}

func BenchmarkReconcileLiteral(b *testing.B) {
	benchmarkReconcile(b, reconcile.ModeLiteral)
}

func BenchmarkReconcileCorrected(b *testing.B) {
	benchmarkReconcile(b, reconcile.ModeCorrected)
}

// --- XLSX Benchmarks ---

func BenchmarkXlsxRead(b *testing.B) {
	if _, err := os.Stat(sampleSource); os.IsNotExist(err) {
		b.Skip("source.xlsx not found, run testdata/generate_fixtures.go")
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := xlsx.ReadFile(sampleSource); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkXlsxSaveCells(b *testing.B) {
	if _, err := os.Stat(sampleSummary); os.IsNotExist(err) {
		b.Skip("summary.xlsx not found, run testdata/generate_fixtures.go")
	}
	dst := filepath.Join(b.TempDir(), "out.xlsx")
	cells := sheet.Raw{"E2": 20.0, "F2": 87.5, "E3": "1月绩效"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := xlsx.SaveCells(sampleSummary, dst, "月终", cells); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkXlsxWrite(b *testing.B) {
	outputs, performances, _ := synthetic(98)
	wb := &xlsx.Workbook{
		SheetNames: []string{"个人绩效", "个人产值"},
		Sheets:     map[string]sheet.Raw{"个人绩效": performances, "个人产值": outputs},
	}
	dst := filepath.Join(b.TempDir(), "source.xlsx")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := xlsx.WriteFile(wb, dst); err != nil {
			b.Fatal(err)
		}
	}
}
