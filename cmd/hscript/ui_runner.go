package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"hscript/internal/driver"
	"hscript/internal/ui"
)

type renderDirOutcome struct {
	results []driver.RenderResult
	err     error
}

func runRenderDirWithUI(ctx context.Context, title, dir, outDir string, opts driver.Options) ([]driver.RenderResult, error) {
	files, err := driver.ListRoots(dir, opts)
	if err != nil {
		return nil, err
	}
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan renderDirOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.RenderDir(ctx, dir, outDir, optsCopy)
		outcomeCh <- renderDirOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
