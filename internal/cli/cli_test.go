package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

// run executes the root command with args, isolated from the user's home config.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append(args, "--no-color"))

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSquaresCmd(t *testing.T) {
	out, err := run(t, "squares", "--workers", "4", "--count", "100")
	if err != nil {
		t.Fatalf("squares failed: %v\n%s", err, out)
	}

	// sum of i*i for i in [0, 100)
	if !strings.Contains(out, "328350") {
		t.Errorf("expected sum of squares in output:\n%s", out)
	}
	if !strings.Contains(out, "all 100 results correct") {
		t.Errorf("expected success line:\n%s", out)
	}
	if !strings.Contains(out, "taskpool_squares_tasks_completed_total") {
		t.Errorf("expected metrics table:\n%s", out)
	}
}

func TestSquaresCmd_NoMetrics(t *testing.T) {
	out, err := run(t, "squares", "-w", "2", "-n", "10", "--metrics=false")
	if err != nil {
		t.Fatalf("squares failed: %v", err)
	}
	if strings.Contains(out, "tasks_completed_total") {
		t.Errorf("metrics should be hidden:\n%s", out)
	}
}

func TestBoomCmd(t *testing.T) {
	out, err := run(t, "boom", "--workers", "2")
	if err != nil {
		t.Fatalf("boom failed: %v\n%s", err, out)
	}
	for _, want := range []string{"boom", "task panic: kaboom", "42", "failures stayed with their own futures"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestDrainCmd(t *testing.T) {
	t.Run("abandon", func(t *testing.T) {
		out, err := run(t, "drain", "--running", "2", "--queued", "5")
		if err != nil {
			t.Fatalf("drain failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "2/2") {
			t.Errorf("expected both running tasks to finish:\n%s", out)
		}
		if !strings.Contains(out, "5 queued tasks were abandoned") {
			t.Errorf("expected abandoned tasks:\n%s", out)
		}
		if !strings.Contains(out, "pool is shut down") {
			t.Errorf("expected late submission to be rejected:\n%s", out)
		}
	})

	t.Run("drain", func(t *testing.T) {
		out, err := run(t, "drain", "--running", "1", "--queued", "3", "--drain")
		if err != nil {
			t.Fatalf("drain failed: %v\n%s", err, out)
		}
		if !strings.Contains(out, "every queued task ran") {
			t.Errorf("expected every queued task to run:\n%s", out)
		}
	})

	t.Run("invalid running", func(t *testing.T) {
		if _, err := run(t, "drain", "--running", "0"); err == nil {
			t.Error("expected error for zero running tasks")
		}
	})
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.HasPrefix(out, "taskpool dev") {
		t.Errorf("unexpected version output: %q", out)
	}
}

func TestRootCmd_InvalidConfig(t *testing.T) {
	if _, err := run(t, "squares", "--workers", "-3"); err == nil {
		t.Error("expected negative workers to be rejected")
	}
	if _, err := run(t, "boom", "--log-level", "loud"); err == nil {
		t.Error("expected invalid log level to be rejected")
	}
}
