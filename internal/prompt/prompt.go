// Package prompt asks the user for missing workbook paths and the reporting
// month.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/klytics/gy/internal/reconcile"
)

var (
	// ErrEmptyPath is returned when a required path prompt gets no input.
	ErrEmptyPath = errors.New("文件路径不能为空")
	// ErrAborted is returned when input ends or the user interrupts.
	ErrAborted = errors.New("input aborted")
)

// LineReader reads one line of input after showing a prompt.
// *readline.Instance satisfies it.
type LineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

// Prompter asks questions on a line reader.
type Prompter struct {
	rl  LineReader
	out io.Writer
}

// New wraps an existing line reader. Choice lists are written to out.
func New(rl LineReader, out io.Writer) *Prompter {
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{rl: rl, out: out}
}

// NewTerminal creates a prompter on the terminal, with tab completion of
// the month choices.
func NewTerminal() (*Prompter, error) {
	var items []readline.PrefixCompleterInterface
	for _, m := range reconcile.Months() {
		items = append(items, readline.PcItem(m.String()))
	}

	rl, err := readline.NewEx(&readline.Config{
		AutoComplete:    readline.NewPrefixCompleter(items...),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("could not open terminal: %w", err)
	}
	return New(rl, rl.Stdout()), nil
}

// Close releases the underlying line reader.
func (p *Prompter) Close() error {
	return p.rl.Close()
}

func (p *Prompter) readLine(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.rl.SetPrompt(label)
	line, err := p.rl.Readline()
	if err != nil {
		if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
			return "", ErrAborted
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Path asks for a file path. An empty answer is ErrEmptyPath.
func (p *Prompter) Path(ctx context.Context, label string) (string, error) {
	path, err := p.readLine(ctx, label)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrEmptyPath
	}
	return path, nil
}

// Month lists the twelve months and asks for one. An empty answer picks def.
// Answers may be the list number, "3月" or "E:3月"; anything else asks again.
func (p *Prompter) Month(ctx context.Context, def reconcile.Month) (reconcile.Month, error) {
	months := reconcile.Months()

	fmt.Fprintln(p.out, "选择月份：")
	for i, m := range months {
		marker := " "
		if m == def {
			marker = ">"
		}
		fmt.Fprintf(p.out, " %s %2d) %s\n", marker, i+1, m)
	}

	for {
		answer, err := p.readLine(ctx, fmt.Sprintf("月份 [%s]: ", def))
		if err != nil {
			return reconcile.Month{}, err
		}
		if answer == "" {
			return def, nil
		}
		if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(months) {
			return months[n-1], nil
		}
		if m, err := reconcile.ParseMonth(answer); err == nil {
			return m, nil
		}
		fmt.Fprintf(p.out, "  无效的月份 %q，请输入 1-%d\n", answer, len(months))
	}
}

// Lazy opens a terminal prompter the first time a question is asked, so
// runs with every input on the command line never touch the terminal.
type Lazy struct {
	open func() (*Prompter, error)
	p    *Prompter
}

// NewLazy returns a Lazy backed by NewTerminal.
func NewLazy() *Lazy {
	return &Lazy{open: NewTerminal}
}

func (l *Lazy) get() (*Prompter, error) {
	if l.p == nil {
		p, err := l.open()
		if err != nil {
			return nil, err
		}
		l.p = p
	}
	return l.p, nil
}

// Path asks for a file path.
func (l *Lazy) Path(ctx context.Context, label string) (string, error) {
	p, err := l.get()
	if err != nil {
		return "", err
	}
	return p.Path(ctx, label)
}

// Month asks for the reporting month.
func (l *Lazy) Month(ctx context.Context, def reconcile.Month) (reconcile.Month, error) {
	p, err := l.get()
	if err != nil {
		return reconcile.Month{}, err
	}
	return p.Month(ctx, def)
}

// Close closes the terminal if it was opened.
func (l *Lazy) Close() error {
	if l.p == nil {
		return nil
	}
	return l.p.Close()
}
