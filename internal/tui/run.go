package tui

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrlokans/bookshelf/internal/library"
)

// Run starts the browser and blocks until the user quits or ctx is done.
func Run(ctx context.Context, lib *library.Library, search SearchInput) error {
	return run(ctx, lib, search, tea.WithAltScreen())
}

func run(ctx context.Context, lib *library.Library, search SearchInput, opts ...tea.ProgramOption) error {
	ctx, cancel := context.WithCancel(ctx)

	p := tea.NewProgram(New(ctx, lib, search), append(opts, tea.WithContext(ctx))...)

	relay := newChangeRelay()
	lib.OnChange(relay.notify)

	forwarded := make(chan struct{})
	go func() {
		defer close(forwarded)
		relay.forward(ctx, p.Send)
	}()
	defer func() {
		cancel()
		<-forwarded
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

// changedMsg tells the model to re-read the library.
type changedMsg struct{}

// changeRelay turns library notifications into program messages. notify
// never blocks, since the library may call it from inside Update, and a
// burst of notifications collapses into one message.
type changeRelay struct {
	wake chan struct{}
}

func newChangeRelay() changeRelay {
	return changeRelay{wake: make(chan struct{}, 1)}
}

func (r changeRelay) notify(library.Snapshot) {
	select {
	case r.wake <- struct{}{}:
	default:
	}
}

func (r changeRelay) forward(ctx context.Context, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.wake:
			send(changedMsg{})
		}
	}
}
