// Package runner drives one reconciliation: it checks and reads both
// workbooks, asks for whatever is missing, computes the summary columns and
// writes the updated workbook.
package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/klytics/gy/internal/config"
	"github.com/klytics/gy/internal/formats/xlsx"
	"github.com/klytics/gy/internal/output"
	"github.com/klytics/gy/internal/reconcile"
	"github.com/klytics/gy/internal/sheet"
)

// Source workbook sheet order.
const (
	performanceSheet = 0
	outputSheet      = 1
	targetSheet      = 0
)

// Asker supplies input the command line did not.
type Asker interface {
	Path(ctx context.Context, label string) (string, error)
	Month(ctx context.Context, def reconcile.Month) (reconcile.Month, error)
}

// Request describes one run.
type Request struct {
	From string
	To   string
	// Month is asked for when nil.
	Month *reconcile.Month
	// Output defaults to config.DefaultOutput.
	Output string
}

// Result reports what a run wrote.
type Result struct {
	From    string            `json:"from"`
	To      string            `json:"to"`
	Output  string            `json:"output"`
	Month   string            `json:"month"`
	Mode    reconcile.Mode    `json:"mode"`
	Changed int               `json:"changed_cells"`
	Summary reconcile.Summary `json:"summary"`
}

// Runner executes reconciliation requests.
type Runner struct {
	engine *reconcile.Engine
	ask    Asker
	log    *output.Logger
	now    func() time.Time
}

// New creates a Runner. A nil logger discards messages.
func New(engine *reconcile.Engine, ask Asker, log *output.Logger) *Runner {
	if log == nil {
		log = output.Discard()
	}
	return &Runner{engine: engine, ask: ask, log: log, now: time.Now}
}

// SetClock overrides the clock used for the default month.
func (r *Runner) SetClock(now func() time.Time) {
	r.now = now
}

// Run performs the request. Nothing is written unless every step succeeds.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	// Reject bad extensions before asking for anything.
	for _, p := range []string{req.From, req.To, req.Output} {
		if p == "" {
			continue
		}
		if err := xlsx.CheckPath(p); err != nil {
			return nil, err
		}
	}

	if req.From != "" && req.To != "" {
		r.log.Infof("开始检查输入数据完整性...")
	}

	from, fromWB, err := r.open(ctx, req.From, "请输入要转换的Excel文件路径:", "From")
	if err != nil {
		return nil, err
	}
	if err := fromWB.Require(2); err != nil {
		return nil, err
	}

	to, toWB, err := r.open(ctx, req.To, "请输入目标Excel文件路径:", "To")
	if err != nil {
		return nil, err
	}
	r.log.Successf("数据检查完成！")

	r.log.Infof("开始分析输入数据...")
	_, perfRaw, err := fromWB.SheetAt(performanceSheet)
	if err != nil {
		return nil, err
	}
	_, outRaw, err := fromWB.SheetAt(outputSheet)
	if err != nil {
		return nil, err
	}
	targetName, targetRaw, err := toWB.SheetAt(targetSheet)
	if err != nil {
		return nil, err
	}
	performances := sheet.Extract(perfRaw)
	outputs := sheet.Extract(outRaw)
	targets := sheet.Extract(targetRaw)
	r.log.Debugf("%d performance records, %d output records, %d target rows", len(performances), len(outputs), len(targets))
	r.log.Successf("数据分析完成！")

	month, err := r.month(ctx, req.Month)
	if err != nil {
		return nil, err
	}

	r.log.Infof("开始计算数据...")
	rows, sum := r.engine.Reconcile(outputs, performances, targets, month)
	for _, id := range sum.Unmatched {
		r.log.Warnf("工号 %s 未找到对应数据", id)
	}
	r.log.Successf("数据计算完成！")

	r.log.Infof("开始写入数据...")
	projected := sheet.Project(rows, targetRaw)
	changed := sheet.Diff(targetRaw, projected)
	r.log.Debugf("%d cells changed on sheet %q", len(changed), targetName)

	dest := req.Output
	if dest == "" {
		dest = config.DefaultOutput
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("interrupted before writing %s: %w", dest, err)
	}
	if err := xlsx.SaveCells(to, dest, targetName, changed); err != nil {
		return nil, err
	}
	r.log.Successf("数据写入完成！")

	return &Result{
		From:    from,
		To:      to,
		Output:  dest,
		Month:   month.String(),
		Mode:    r.engine.Options().Mode,
		Changed: len(changed),
		Summary: sum,
	}, nil
}

func (r *Runner) open(ctx context.Context, path, label, name string) (string, *xlsx.Workbook, error) {
	if path == "" {
		var err error
		if path, err = r.ask.Path(ctx, label); err != nil {
			return "", nil, err
		}
	}

	r.log.Infof("开始检查%s文件数据...", name)
	wb, err := xlsx.ReadFile(path)
	if err != nil {
		return "", nil, err
	}
	if err := wb.Require(1); err != nil {
		return "", nil, err
	}
	r.log.Successf("%s文件数据检查完成！", name)
	return path, wb, nil
}

func (r *Runner) month(ctx context.Context, m *reconcile.Month) (reconcile.Month, error) {
	if m != nil {
		return *m, nil
	}
	selected, err := r.ask.Month(ctx, reconcile.CurrentMonth(r.now()))
	if err != nil {
		return reconcile.Month{}, fmt.Errorf("could not select month: %w", err)
	}
	return selected, nil
}
