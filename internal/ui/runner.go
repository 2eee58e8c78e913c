package ui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/manpen/pace26checker/internal/driver"
)

type batchOutcome struct {
	results []driver.BatchResult
	err     error
}

// RunBatch runs driver.CheckBatch while rendering its progress to out.
func RunBatch(ctx context.Context, title string, jobs []driver.Job, opts driver.Options, out io.Writer) ([]driver.BatchResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan batchOutcome, 1)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		batchOpts := opts
		batchOpts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.CheckBatch(ctx, jobs, batchOpts)
		outcomeCh <- batchOutcome{results: res, err: err}
		close(events)
	}()

	names := make([]string, len(jobs))
	for i, j := range jobs {
		names[i] = j.Instance
	}
	model := NewProgressModel(title, names, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	final, uiErr := program.Run()
	if pm, ok := final.(*progressModel); uiErr != nil || !ok || !pm.done {
		// UI закрылась раньше: останавливаем проверку
		cancel()
	}
	// дочитываем события, чтобы воркеры не блокировались на канале
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
