package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mkarlsen/pylv/pkg/config"
	"github.com/mkarlsen/pylv/pkg/record"
	"github.com/mkarlsen/pylv/pkg/tail"
)

const sampleLog = `<INFO> 25-Aug-2026::14:03:22.123 ncs-dp-1-svc th-7 - starting service
<ERROR> 25-Aug-2026::14:03:25.000 ncs-dp-1-svc th-7 - apply failed
Traceback (most recent call last):
  File "service.py", line 42, in apply
<INFO> 25-Aug-2026::14:03:26.500 ncs-dp-1-svc th-7 - retrying
`

func TestRunPipelineBatch(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	src := tail.NewBatchSource(strings.NewReader(sampleLog), "test")

	if err := runPipeline(context.Background(), src, &buf, true, cfg); err != nil {
		t.Fatalf("runPipeline() error = %v", err)
	}

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d output lines, want 5:\n%s", len(lines), out)
	}

	// Records in input order, traceback grouped under the error record.
	if !strings.Contains(lines[0], "starting service") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "apply failed") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "| Traceback") {
		t.Errorf("line 2 = %q", lines[2])
	}
	if !strings.Contains(lines[4], "retrying") {
		t.Errorf("line 4 = %q", lines[4])
	}
	// Batch layout carries the date column.
	if !strings.Contains(lines[0], "-Aug") {
		t.Errorf("batch output missing the date column: %q", lines[0])
	}
}

func TestRunPipelineMinLevel(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.MinLevel = "error"
	src := tail.NewBatchSource(strings.NewReader(sampleLog), "test")

	if err := runPipeline(context.Background(), src, &buf, true, cfg); err != nil {
		t.Fatalf("runPipeline() error = %v", err)
	}

	out := buf.String()
	if strings.Contains(out, "starting service") || strings.Contains(out, "retrying") {
		t.Errorf("INFO records not filtered out:\n%s", out)
	}
	if !strings.Contains(out, "apply failed") {
		t.Errorf("ERROR record missing:\n%s", out)
	}
}

func TestSeverityFilter(t *testing.T) {
	keep := severityFilter("warn")
	if keep == nil {
		t.Fatal("severityFilter(warn) = nil")
	}

	warn := &record.Record{Header: record.Header{Severity: record.SeverityWarn}}
	info := &record.Record{Header: record.Header{Severity: record.SeverityInfo}}
	if !keep(warn) {
		t.Error("WARN record rejected at min level warn")
	}
	if keep(info) {
		t.Error("INFO record kept at min level warn")
	}

	if severityFilter("") != nil {
		t.Error("severityFilter(\"\") should disable filtering")
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"version"})

	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.HasPrefix(buf.String(), "pylv ") {
		t.Errorf("version output = %q", buf.String())
	}
}

func TestRequireRunDir(t *testing.T) {
	if _, err := requireRunDir(&config.Config{}); err == nil {
		t.Error("requireRunDir with empty config = nil error")
	}
	dir, err := requireRunDir(&config.Config{RunDir: "/opt/ncs/run"})
	if err != nil || dir != "/opt/ncs/run" {
		t.Errorf("requireRunDir = %q, %v", dir, err)
	}
}
