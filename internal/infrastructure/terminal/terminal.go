// Package terminal is the interactive line-oriented display surface.
package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"fxconverter/internal/application"
	"fxconverter/internal/catalog"
	"fxconverter/internal/infrastructure/eventloop"

	"github.com/fatih/color"
	"golang.org/x/term"
)

const prompt = "fx> "

const helpText = `Commands:
  show                 print every row and the last-updated time
  set <row> <amount>   edit a row's amount (empty amount clears)
  cur <row> <CODE>     change a row's currency
  reset <row>          set a row to 1 and recompute the others
  add <CODE>           append a row
  list                 list selectable currencies
  help                 show this help
  quit                 exit`

var errQuit = errors.New("quit")

type Loop interface {
	Submit(ctx context.Context, ev eventloop.Event) (application.Render, error)
	Snapshot(ctx context.Context) (application.Snapshot, error)
}

type palette struct {
	code, amount, muted, status, err *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		code:   color.New(color.FgCyan, color.Bold),
		amount: color.New(color.FgGreen),
		muted:  color.New(color.FgHiBlack),
		status: color.New(color.FgYellow),
		err:    color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.code, p.amount, p.muted, p.status, p.err} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

type Terminal struct {
	loop    Loop
	options []catalog.Meta
	in      io.Reader
	out     io.Writer
	colors  palette
}

type Option func(*Terminal)

// WithColor forces colors on or off instead of detecting a terminal.
func WithColor(on bool) Option { return func(t *Terminal) { t.colors = newPalette(on) } }

func New(loop Loop, options []catalog.Meta, in io.Reader, out io.Writer, opts ...Option) *Terminal {
	t := &Terminal{loop: loop, options: options, in: in, out: out, colors: newPalette(isTerminal(out))}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Run reads commands until quit, EOF or ctx cancellation.
func (t *Terminal) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(t.in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- sc.Err()
		close(lines)
	}()

	if err := t.Exec(ctx, "show"); err != nil {
		t.colors.err.Fprintln(t.out, "error:", err)
	}
	for {
		fmt.Fprint(t.out, prompt)
		select {
		case <-ctx.Done():
			fmt.Fprintln(t.out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(t.out)
				return <-scanErr
			}
			err := t.Exec(ctx, line)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				t.colors.err.Fprintln(t.out, "error:", err)
			}
		}
	}
}

// Exec runs one command line.
func (t *Terminal) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "show":
		snap, err := t.loop.Snapshot(ctx)
		if err != nil {
			return err
		}
		t.printSnapshot(snap)
		return nil
	case "set":
		if len(args) < 1 || len(args) > 2 {
			return errors.New("usage: set <row> <amount>")
		}
		id, err := parseRow(args[0])
		if err != nil {
			return err
		}
		value := ""
		if len(args) == 2 {
			value = args[1]
		}
		return t.submit(ctx, eventloop.Event{Kind: eventloop.KindAmount, Row: id, Value: value})
	case "cur":
		if len(args) != 2 {
			return errors.New("usage: cur <row> <CODE>")
		}
		id, err := parseRow(args[0])
		if err != nil {
			return err
		}
		return t.submit(ctx, eventloop.Event{Kind: eventloop.KindCurrency, Row: id, Value: args[1]})
	case "reset":
		if len(args) != 1 {
			return errors.New("usage: reset <row>")
		}
		id, err := parseRow(args[0])
		if err != nil {
			return err
		}
		return t.submit(ctx, eventloop.Event{Kind: eventloop.KindReset, Row: id})
	case "add":
		if len(args) != 1 {
			return errors.New("usage: add <CODE>")
		}
		return t.submit(ctx, eventloop.Event{Kind: eventloop.KindAddRow, Value: args[0]})
	case "list":
		for _, m := range t.options {
			fmt.Fprintf(t.out, "%s  %-4s %-16s %s\n", t.colors.code.Sprint(m.Code), m.Symbol, m.Name, t.colors.muted.Sprint(m.NameEn))
		}
		return nil
	case "help", "?":
		fmt.Fprintln(t.out, helpText)
		return nil
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
}

func (t *Terminal) submit(ctx context.Context, ev eventloop.Event) error {
	r, err := t.loop.Submit(ctx, ev)
	if err != nil {
		return err
	}
	for _, u := range r.Rows {
		t.printRow(u)
	}
	return nil
}

func (t *Terminal) printSnapshot(s application.Snapshot) {
	t.colors.status.Fprintln(t.out, s.Status.Message)
	for _, u := range s.Rows {
		t.printRow(u)
	}
}

func (t *Terminal) printRow(u application.RowUpdate) {
	text := u.Text
	if text == "" {
		text = "-"
	}
	name, symbol := "", ""
	if u.Meta != nil {
		name, symbol = u.Meta.Name, u.Meta.Symbol
	}
	fmt.Fprintf(t.out, "[%d] %s %-4s %s %s\n",
		u.ID,
		t.colors.code.Sprintf("%-3s", u.Code),
		symbol,
		t.colors.amount.Sprintf("%18s", text),
		t.colors.muted.Sprint(name),
	)
}

func parseRow(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("row must be a non-negative integer, got %q", s)
	}
	return id, nil
}
