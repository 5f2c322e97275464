// Package app wires a settings panel to its script, profile file,
// terminal surface and file watcher, and runs the event loop that drives
// them all.
package app

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dshills/settingskit/internal/logging"
	"github.com/dshills/settingskit/internal/notify"
	"github.com/dshills/settingskit/internal/panel"
	"github.com/dshills/settingskit/internal/profile"
	"github.com/dshills/settingskit/internal/renderer/list"
	"github.com/dshills/settingskit/internal/script"
	"github.com/dshills/settingskit/internal/terminal"
)

// DefaultPanelName is used when Options.PanelName is empty.
const DefaultPanelName = "Settings"

// Options configures the application.
type Options struct {
	// Script is the Lua file declaring the panel's settings. Required.
	Script string

	// Profile is the TOML or YAML file backing the store. Empty keeps
	// values in memory only.
	Profile string

	// PanelName titles the panel.
	PanelName string

	// Watch reloads the profile when the file changes on disk.
	Watch bool

	// WatchDelay is the quiet period before a reload. Zero uses the
	// watcher default.
	WatchDelay time.Duration

	// AutoSave writes the profile after every change. Otherwise the
	// profile is written when Run returns.
	AutoSave bool

	// ScriptTimeout bounds script runs and callbacks.
	ScriptTimeout time.Duration

	// LogLevel and LogFile configure logging when Logger is nil.
	LogLevel string
	LogFile  string

	// Logger overrides LogLevel and LogFile.
	Logger *log.Logger

	// Screen is the terminal to draw on. Nil opens a tcell terminal on Run.
	Screen terminal.Screen
}

// Application is a running settings panel.
type Application struct {
	opts   Options
	log    *log.Logger
	closer io.Closer

	store   map[string]any
	hub     *panel.Hub
	panel   *panel.Panel
	profile *profile.Profile
	script  *script.Runtime
	saves   *notify.Subscription

	screen terminal.Screen
	view   *list.View
}

// New loads the profile, opens the panel and runs its script.
func New(opts Options) (*Application, error) {
	if opts.Script == "" {
		return nil, ErrNoScript
	}
	if opts.PanelName == "" {
		opts.PanelName = DefaultPanelName
	}
	a := &Application{opts: opts, store: map[string]any{}, screen: opts.Screen}

	if err := a.initLogging(); err != nil {
		return nil, &InitError{Component: "logging", Err: err}
	}
	if err := a.initProfile(); err != nil {
		a.Close()
		return nil, &InitError{Component: "profile", Err: err}
	}
	if err := a.initPanel(); err != nil {
		a.Close()
		return nil, &InitError{Component: "panel", Err: err}
	}
	if err := a.initScript(); err != nil {
		a.Close()
		return nil, &InitError{Component: "script", Err: err}
	}
	a.log.Info("panel ready", "panel", a.panel.Name(), "settings", a.panel.Registry().Len())
	return a, nil
}

func (a *Application) initLogging() error {
	if a.opts.Logger != nil {
		a.log = a.opts.Logger
		return nil
	}
	cfg := logging.DefaultConfig()
	if a.opts.LogLevel != "" {
		cfg.Level = a.opts.LogLevel
	}
	cfg.File = a.opts.LogFile
	if cfg.File == "" {
		// stderr belongs to the screen while Run is active.
		cfg.Output = io.Discard
	}
	logger, closer, err := logging.New(cfg)
	if err != nil {
		return err
	}
	a.log, a.closer = logger, closer
	return nil
}

func (a *Application) initProfile() error {
	if a.opts.Profile == "" {
		return nil
	}
	p, err := profile.Open(a.opts.Profile, profile.WithLogger(a.log))
	if err != nil {
		return err
	}
	a.profile = p
	return p.LoadInto(a.store)
}

func (a *Application) initPanel() error {
	a.hub = panel.NewHub(panel.WithLogger(a.log))
	p, err := a.hub.Open(a.opts.PanelName, a.store, panel.WithSurfaceFactory(a.newSurface))
	if err != nil {
		return err
	}
	a.panel = p
	if a.opts.AutoSave && a.profile != nil {
		a.saves = p.Notifier().Subscribe(func(ev notify.Event) {
			if ev.Type != notify.Written && ev.Type != notify.Reset {
				return
			}
			if err := a.Save(); err != nil {
				a.log.Error("autosave", "err", err)
			}
		})
	}
	return nil
}

func (a *Application) initScript() error {
	var opts []script.Option
	opts = append(opts, script.WithLogger(a.log))
	if a.opts.ScriptTimeout > 0 {
		opts = append(opts, script.WithTimeout(a.opts.ScriptTimeout))
	}
	a.script = script.New(a.panel, opts...)
	return a.script.DoFile(a.opts.Script)
}

func (a *Application) newSurface(p *panel.Panel) (panel.Surface, error) {
	if a.screen == nil {
		return nil, ErrNoScreen
	}
	a.view = list.New(a.screen,
		list.WithTitle(p.Name()),
		list.WithController(p.Engine()),
		list.WithToggle(a.toggle),
		list.WithLogger(a.log),
	)
	return a.view, nil
}

func (a *Application) toggle() {
	if err := a.panel.Toggle(); err != nil {
		a.log.Error("toggle panel", "err", err)
	}
}

// Panel returns the settings panel.
func (a *Application) Panel() *panel.Panel {
	return a.panel
}

// Store returns the backing store.
func (a *Application) Store() map[string]any {
	return a.store
}

// View returns the list surface, or nil before the panel was shown.
func (a *Application) View() *list.View {
	return a.view
}

// Save writes the store to the profile file.
func (a *Application) Save() error {
	if a.profile == nil {
		return ErrNoProfile
	}
	return a.profile.Save(a.store)
}

// Reload replaces the store with the profile file's contents and repaints
// the rows whose value changed.
func (a *Application) Reload() error {
	if a.profile == nil {
		return ErrNoProfile
	}
	if err := a.profile.LoadInto(a.store); err != nil {
		return err
	}
	a.panel.Notifier().Notify(notify.Event{
		Type:  notify.Reloaded,
		Panel: a.panel.Name(),
		Path:  a.profile.Path(),
	})
	n := a.panel.RefreshAll()
	a.log.Info("profile reloaded", "path", a.profile.Path(), "changed", n)
	return nil
}

// Close releases the script, panels and log file.
func (a *Application) Close() {
	if a.saves != nil {
		a.saves.Unsubscribe()
		a.saves = nil
	}
	if a.script != nil {
		a.script.Close()
		a.script = nil
	}
	if a.hub != nil {
		a.hub.CloseAll()
	}
	if a.closer != nil {
		_ = a.closer.Close()
		a.closer = nil
	}
}
