package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/utkarsh5026/taskpool/pool"
)

var errBoom = errors.New("boom")

func newBoomCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "boom",
		Short: "Show that a failing or panicking task only affects its own future",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBoom(cmd)
		},
	}
}

type boomCase struct {
	name string
	fn   func() (int, error)
	want int
	err  error
}

func (a *app) runBoom(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()

	p, err := a.newPool()
	if err != nil {
		return err
	}

	cases := []boomCase{
		{name: "before", fn: func() (int, error) { return 1, nil }, want: 1},
		{name: "boom", fn: func() (int, error) { return 0, errBoom }, err: errBoom},
		{name: "panic", fn: func() (int, error) { panic("kaboom") }},
		{name: "after", fn: func() (int, error) { return 42, nil }, want: 42},
	}

	futures := make([]*pool.Future[int], len(cases))
	for i, c := range cases {
		if futures[i], err = pool.Submit(p, c.fn); err != nil {
			_ = a.shutdown(p)
			return fmt.Errorf("submit %s: %w", c.name, err)
		}
	}

	rows := make([][]string, 0, len(cases))
	failed := 0
	for i, c := range cases {
		v, err := futures[i].Get()
		// a second Get must report the same outcome
		v2, err2 := futures[i].Get()

		ok := v == v2 && errors.Is(err2, err)
		switch {
		case c.name == "panic":
			var pe *pool.PanicError
			ok = ok && errors.As(err, &pe)
		case c.err != nil:
			ok = ok && errors.Is(err, c.err)
		default:
			ok = ok && err == nil && v == c.want
		}

		status := Green.Sprint("ok")
		if !ok {
			status = Red.Sprint("unexpected")
			failed++
		}

		detail := "-"
		var pe *pool.PanicError
		switch {
		case errors.As(err, &pe):
			detail = fmt.Sprintf("task panic: %v", pe.Value)
		case err != nil:
			detail = err.Error()
		}
		rows = append(rows, []string{c.name, strconv.Itoa(v), detail, status})
	}

	if err := a.shutdown(p); err != nil {
		return err
	}

	renderTable(out, []string{"Task", "Value", "Error", "Status"}, rows)

	if failed > 0 {
		return fmt.Errorf("%d futures reported unexpected outcomes", failed)
	}
	colorPrintf(out, Green, "✓ failures stayed with their own futures\n")
	return nil
}
