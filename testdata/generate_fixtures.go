//go:build ignore

// This program generates the sample workbooks used by the benchmarks and
// smoke tests: a source workbook (scores, monthly output) and a summary.
package main

import (
	"fmt"
	"os"

	"github.com/klytics/gy/internal/formats/xlsx"
	"github.com/klytics/gy/internal/reconcile"
	"github.com/klytics/gy/internal/sheet"
)

// Cell rows stop at 99, so the summary must fit 90 employees plus the
// repeated header lines.
const employees = 90

func main() {
	if err := xlsx.WriteFile(source(), "source.xlsx"); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating source.xlsx: %v\n", err)
		os.Exit(1)
	}

	if err := xlsx.WriteFile(summary(), "summary.xlsx"); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating summary.xlsx: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Test fixtures generated successfully.")
}

func id(i int) string {
	return fmt.Sprintf("E%04d", i)
}

func source() *xlsx.Workbook {
	scores := sheet.Raw{"A1": "工号", "B1": "姓名", "Q1": "考核得分"}
	values := sheet.Raw{"A1": "工号", "B1": "姓名"}
	for _, m := range reconcile.Months() {
		values[cell(m.Column, 1)] = m.Label()
	}

	for i := 1; i <= employees; i++ {
		row := i + 1
		scores[cell('A', row)] = id(i)
		scores[cell('B', row)] = fmt.Sprintf("员工%d", i)
		scores[cell('Q', row)] = 60 + float64(i%40) + 0.5

		values[cell('A', row)] = id(i)
		values[cell('B', row)] = fmt.Sprintf("员工%d", i)
		for _, m := range reconcile.Months() {
			values[cell(m.Column, row)] = float64(1000+i*7*m.Number) / 3
		}
	}

	return &xlsx.Workbook{
		SheetNames: []string{"个人绩效", "个人产值"},
		Sheets:     map[string]sheet.Raw{"个人绩效": scores, "个人产值": values},
	}
}

func summary() *xlsx.Workbook {
	raw := sheet.Raw{"A1": "序号", "C1": "工号", "E1": "绩效", "F1": "得分"}
	row := 2
	for i := 1; i <= employees; i++ {
		// A repeated header line every 30 employees, as in the printed report.
		if i%30 == 1 && i > 1 {
			raw[cell('C', row)] = "工号"
			row++
		}
		raw[cell('A', row)] = float64(i)
		raw[cell('C', row)] = id(i)
		row++
	}
	return &xlsx.Workbook{
		SheetNames: []string{"月终", "说明"},
		Sheets: map[string]sheet.Raw{
			"月终": raw,
			"说明": {"A1": "由 gy 填写 E、F 两列"},
		},
	}
}

func cell(col byte, row int) string {
	return sheet.At(col, row).String()
}
