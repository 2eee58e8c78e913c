package ui

import (
	"fmt"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/manpen/pace26checker/internal/driver"
)

func TestApplyEvents(t *testing.T) {
	m := NewProgressModel("batch", []string{"a.in", "b.in", "c.in"}, nil).(*progressModel)

	events := []driver.Event{
		{Job: "a.in", Stage: driver.StageStart, Status: driver.StatusWorking},
		{Job: "a.in", Stage: driver.StageVerify, Status: driver.StatusWorking},
		{Job: "b.in", Stage: driver.StageLint, Status: driver.StatusWorking},
		{Job: "a.in", Stage: driver.StageReport, Status: driver.StatusDone},
		{Job: "b.in", Stage: driver.StageReport, Status: driver.StatusFailed},
		{Job: "b.in", Stage: driver.StageVerify, Status: driver.StatusWorking}, // after the final state
		{Job: "unknown.in", Stage: driver.StageLint, Status: driver.StatusWorking},
	}
	for _, ev := range events {
		m.applyEvent(ev)
	}

	want := []string{"ok", "rejected", "queued"}
	for i, item := range m.items {
		if item.status != want[i] {
			t.Errorf("%s: status %q, want %q", item.path, item.status, want[i])
		}
	}
	if m.ok != 1 || m.rejected != 1 || m.failed != 0 {
		t.Errorf("counters = %d %d %d", m.ok, m.rejected, m.failed)
	}
	if got := m.percent(); got < 0.66 || got > 0.67 {
		t.Errorf("percent = %v", got)
	}

	view := m.View()
	if !strings.Contains(view, "batch (1 ok, 1 rejected, 0 failed)") || !strings.Contains(view, "c.in") {
		t.Errorf("view:\n%s", view)
	}
}

func TestVisibleRows(t *testing.T) {
	jobs := make([]string, 40)
	for i := range jobs {
		jobs[i] = fmt.Sprintf("job%02d.in", i)
	}
	m := NewProgressModel("batch", jobs, nil).(*progressModel)
	m.applyEvent(driver.Event{Job: "job00.in", Stage: driver.StageReport, Status: driver.StatusDone})
	m.applyEvent(driver.Event{Job: "job39.in", Stage: driver.StageReport, Status: driver.StatusFailed})

	rows, hidden := m.visible()
	if len(rows) != maxRows || hidden != len(jobs)-maxRows {
		t.Fatalf("rows %d, hidden %d", len(rows), hidden)
	}
	if rows[0].path != "job01.in" {
		t.Errorf("accepted job not hidden first: %s", rows[0].path)
	}
	if view := m.View(); !strings.Contains(view, "28 more") {
		t.Errorf("view:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short.in", 20, "short.in"},
		{"very/long/path/to/instance.in", 15, ".../instance.in"},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.width)
		if got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
		if tt.width > 0 && runewidth.StringWidth(got) > tt.width {
			t.Errorf("truncate(%q, %d) is too wide", tt.in, tt.width)
		}
	}
}
