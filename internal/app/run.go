package app

import (
	"context"
	"errors"

	"github.com/dshills/settingskit/internal/renderer/list"
	"github.com/dshills/settingskit/internal/terminal"
	"github.com/dshills/settingskit/internal/watcher"
)

// Interrupt payloads posted to the screen from other goroutines. The
// loop handles them on its own goroutine, so the panel is only ever
// touched from one place.
type (
	reloadRequest struct{ op watcher.Op }
	stopRequest   struct{}
)

// Run shows the panel and handles screen events until the user quits or
// ctx is done. The profile is saved on return unless AutoSave already
// keeps it current.
func (a *Application) Run(ctx context.Context) (err error) {
	if a.screen == nil {
		t, err := terminal.NewTerminal()
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		a.screen = t
	}
	if err := a.screen.Init(); err != nil {
		return &InitError{Component: "terminal", Err: err}
	}
	defer a.screen.Fini()

	if err := a.panel.Show(); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			a.screen.PostEvent(terminal.Interrupt(stopRequest{}))
		case <-done:
		}
	}()

	if a.opts.Watch && a.profile != nil {
		w, err := watcher.New(a.profile.Path(),
			watcher.WithDelay(a.opts.WatchDelay),
			watcher.WithLogger(a.log),
		)
		if err != nil {
			return &InitError{Component: "watcher", Err: err}
		}
		defer func() { _ = w.Close() }()
		go a.forward(w)
	}

	defer func() {
		if a.profile == nil || a.opts.AutoSave {
			return
		}
		if saveErr := a.Save(); saveErr != nil {
			a.log.Error("save profile", "err", saveErr)
			err = errors.Join(err, saveErr)
		}
	}()

	a.log.Info("event loop started")
	for {
		ev := a.screen.PollEvent()
		switch ev.Type {
		case terminal.EventNone:
			return nil
		case terminal.EventInterrupt:
			if stop := a.interrupt(ev.Payload); stop {
				a.log.Info("event loop stopped", "reason", ctx.Err())
				return nil
			}
		default:
			if a.view == nil {
				continue
			}
			if a.view.HandleEvent(ev) == list.Quit {
				a.log.Info("quit requested")
				return nil
			}
		}
	}
}

// forward turns watcher events into loop interrupts.
func (a *Application) forward(w *watcher.Watcher) {
	for {
		select {
		case ev, ok := <-w.Events():
			if !ok {
				return
			}
			a.screen.PostEvent(terminal.Interrupt(reloadRequest{op: ev.Op}))
		case err, ok := <-w.Errors():
			if !ok {
				return
			}
			a.log.Warn("profile watch", "err", err)
		}
	}
}

// interrupt handles a posted payload. Reports whether the loop should stop.
func (a *Application) interrupt(payload any) bool {
	switch p := payload.(type) {
	case stopRequest:
		return true
	case reloadRequest:
		gone := p.op.Has(watcher.OpRemove) || p.op.Has(watcher.OpRename)
		if gone && !p.op.Has(watcher.OpCreate) {
			a.log.Warn("profile moved away, keeping current values", "path", a.profile.Path())
			return false
		}
		if err := a.Reload(); err != nil {
			a.log.Error("reload profile", "err", err)
		}
	}
	return false
}
