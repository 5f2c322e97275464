package panel

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dshills/settingskit/internal/capture"
	"github.com/dshills/settingskit/internal/display"
	"github.com/dshills/settingskit/internal/notify"
	"github.com/dshills/settingskit/internal/pathstore"
	"github.com/dshills/settingskit/internal/setting"
)

// fakeSurface is a Surface and capture.Requester that records calls.
type fakeSurface struct {
	visible  bool
	builds   int
	rebuilds int
	commits  int
	rows     []*display.Row
	prompts  []capture.TextRequest
}

func (s *fakeSurface) Build(def *setting.Definition) ([]*display.Row, error) {
	s.builds++
	return []*display.Row{{Role: display.RoleValue}}, nil
}

func (s *fakeSurface) Rebuild(_ []*setting.Definition, rows []*display.Row) {
	s.rebuilds++
	s.rows = rows
}

func (s *fakeSurface) CommitVisible()                      { s.commits++ }
func (s *fakeSurface) SurfaceVisible() bool                { return s.visible }
func (s *fakeSurface) Show()                               { s.visible = true }
func (s *fakeSurface) Hide()                               { s.visible = false }
func (s *fakeSurface) RequestText(req capture.TextRequest) { s.prompts = append(s.prompts, req) }

func (s *fakeSurface) labels() []string {
	var out []string
	for _, r := range s.rows {
		out = append(out, r.Label)
	}
	return out
}

func (s *fakeSurface) row(label string) *display.Row {
	for _, r := range s.rows {
		if r.Label == label {
			return r
		}
	}
	return nil
}

type factoryCounter struct {
	surface *fakeSurface
	calls   int
}

func (f *factoryCounter) create(*Panel) (Surface, error) {
	f.calls++
	return f.surface, nil
}

func newPanel(t *testing.T, store map[string]any, opts ...Option) (*Panel, *factoryCounter) {
	t.Helper()
	fc := &factoryCounter{surface: &fakeSurface{}}
	p, err := New("game", store, append([]Option{WithSurfaceFactory(fc.create)}, opts...)...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p, fc
}

func mustAdd(t *testing.T, p *Panel, def *setting.Definition) *Handle {
	t.Helper()
	h, err := p.AddSetting(def)
	if err != nil {
		t.Fatalf("AddSetting(%s): %v", def.Name, err)
	}
	return h
}

func equal(a, b []string) bool {
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func TestNewNilStore(t *testing.T) {
	if _, err := New("x", nil); !errors.Is(err, ErrNilStore) {
		t.Errorf("New(nil) error = %v, want ErrNilStore", err)
	}
}

func TestAddSettingConfigErrors(t *testing.T) {
	p, _ := newPanel(t, map[string]any{})

	_, err := p.AddSetting(&setting.Definition{Name: "nokind", Path: "x"})
	if !errors.Is(err, setting.ErrMissingKind) {
		t.Errorf("missing kind error = %v", err)
	}
	var cfg *setting.ConfigError
	if !errors.As(err, &cfg) || cfg.Name != "nokind" {
		t.Errorf("error %v does not carry the setting name", err)
	}

	_, err = p.AddSetting(&setting.Definition{Kind: setting.KindToggle, Name: "half", Setter: func(any) {}})
	if !errors.Is(err, setting.ErrPartialAccessor) {
		t.Errorf("partial accessor error = %v", err)
	}
}

func TestResetActionStaysLast(t *testing.T) {
	p, fc := newPanel(t, map[string]any{})
	mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "a", Path: "a"})
	mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "c", Path: "c"})
	if _, err := p.AddSettingAfter(&setting.Definition{Kind: setting.KindToggle, Name: "b", Path: "b"}, "a"); err != nil {
		t.Fatal(err)
	}
	if err := p.Show(); err != nil {
		t.Fatal(err)
	}

	want := []string{"a", "b", "c", DefaultResetLabel}
	if got := fc.surface.labels(); !equal(got, want) {
		t.Errorf("rows = %v, want %v", got, want)
	}

	q, fc2 := newPanel(t, map[string]any{}, WithAutoDefaultsAction(false))
	mustAdd(t, q, &setting.Definition{Kind: setting.KindToggle, Name: "a", Path: "a"})
	if err := q.Show(); err != nil {
		t.Fatal(err)
	}
	if got := fc2.surface.labels(); !equal(got, []string{"a"}) {
		t.Errorf("rows without reset action = %v", got)
	}
}

func TestLazySurface(t *testing.T) {
	p, fc := newPanel(t, map[string]any{})
	h := mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "a", Path: "a"})

	if fc.calls != 0 || p.Surface() != nil {
		t.Fatal("surface created before Show")
	}
	if h.Refresh() || p.RefreshAll() != 0 {
		t.Error("refresh without surface reported a change")
	}
	p.Hide()
	if p.Visible() {
		t.Error("Hide created a visible surface")
	}

	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	p.Hide()
	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	if fc.calls != 1 {
		t.Errorf("factory calls = %d, want 1", fc.calls)
	}
	if fc.surface.rebuilds != 1 {
		t.Errorf("rebuilds = %d, want 1", fc.surface.rebuilds)
	}
}

func TestShowWithoutFactory(t *testing.T) {
	p, err := New("bare", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Show(); !errors.Is(err, ErrNoSurface) {
		t.Errorf("Show error = %v, want ErrNoSurface", err)
	}
	if p.Visible() {
		t.Error("panel without surface is visible")
	}
}

func TestShowFactoryError(t *testing.T) {
	boom := errors.New("boom")
	p, err := New("x", map[string]any{}, WithSurfaceFactory(func(*Panel) (Surface, error) { return nil, boom }))
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Show(); !errors.Is(err, boom) {
		t.Errorf("Show error = %v, want boom", err)
	}
	if p.Surface() != nil {
		t.Error("failed factory left a surface")
	}
}

func TestToggle(t *testing.T) {
	p, fc := newPanel(t, map[string]any{})
	for i, want := range []bool{true, false, true} {
		if err := p.Toggle(); err != nil {
			t.Fatal(err)
		}
		if p.Visible() != want {
			t.Errorf("toggle %d: visible = %v, want %v", i, p.Visible(), want)
		}
	}
	if fc.calls != 1 {
		t.Errorf("factory calls = %d, want 1", fc.calls)
	}
}

func TestTargetedRefreshThroughPanel(t *testing.T) {
	store := map[string]any{}
	p, fc := newPanel(t, store)
	var handles []*Handle
	for i := 0; i < 5; i++ {
		handles = append(handles, mustAdd(t, p, &setting.Definition{
			Kind: setting.KindNumber, Name: fmt.Sprintf("n%d", i), Path: fmt.Sprintf("nums.n%d", i),
			Default: 1.0, Min: 0, Max: 10, Step: 1,
		}))
	}
	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	before := fc.surface.labels()
	rebuilds := fc.surface.rebuilds

	if err := pathstore.Set(store, "nums.n2", 7.0); err != nil {
		t.Fatal(err)
	}
	if !handles[2].Refresh() {
		t.Fatal("Refresh = false after external change")
	}

	if fc.surface.rebuilds != rebuilds || fc.surface.commits != 1 {
		t.Errorf("rebuilds %d -> %d, commits = %d", rebuilds, fc.surface.rebuilds, fc.surface.commits)
	}
	if got := fc.surface.labels(); !equal(got, before) {
		t.Errorf("row order changed: %v -> %v", before, got)
	}
	for i := 0; i < 5; i++ {
		want := "1"
		if i == 2 {
			want = "7"
		}
		if r := fc.surface.row(fmt.Sprintf("n%d", i)); r.Text != want {
			t.Errorf("n%d text = %q, want %q", i, r.Text, want)
		}
	}
}

func TestStructuralChangesRebuild(t *testing.T) {
	p, fc := newPanel(t, map[string]any{})
	h := mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "a", Path: "a"})
	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	start := fc.surface.rebuilds

	mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "b", Path: "b"})
	if ok, err := p.UpdateSetting(h.Ref(), setting.WithName("A")); !ok || err != nil {
		t.Fatalf("UpdateSetting = %v, %v", ok, err)
	}
	if !p.RemoveSetting(setting.ByName("b")) {
		t.Fatal("RemoveSetting(b) = false")
	}
	if got := fc.surface.rebuilds - start; got != 3 {
		t.Errorf("rebuilds = %d, want 3", got)
	}
	if got := fc.surface.labels(); !equal(got, []string{"A", DefaultResetLabel}) {
		t.Errorf("rows = %v", got)
	}

	if p.RemoveSetting(setting.ByName("missing")) {
		t.Error("removing unknown setting reported true")
	}
	if ok, _ := p.UpdateSetting(setting.ByName("missing"), setting.WithName("x")); ok {
		t.Error("updating unknown setting reported true")
	}
	if got := fc.surface.rebuilds - start; got != 3 {
		t.Errorf("unknown refs rebuilt: %d", got)
	}
}

func TestHiddenChangesRebuildOnShow(t *testing.T) {
	p, fc := newPanel(t, map[string]any{})
	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	p.Hide()
	rebuilds := fc.surface.rebuilds

	mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "late", Path: "late"})
	if fc.surface.rebuilds != rebuilds {
		t.Error("hidden surface was rebuilt")
	}
	if !p.Engine().Stale() {
		t.Error("engine not stale after hidden change")
	}

	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	if fc.surface.rebuilds != rebuilds+1 || fc.surface.row("late") == nil {
		t.Errorf("Show did not rebuild: rows = %v", fc.surface.labels())
	}
}

func TestHandle(t *testing.T) {
	p, _ := newPanel(t, map[string]any{})
	h := mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "a", Path: "a"})

	if def := h.Definition(); def == nil || def.Name != "a" {
		t.Fatalf("Definition() = %v", def)
	}
	if _, err := p.UpdateSetting(h.Ref(), setting.WithTooltip("tip")); err != nil {
		t.Fatal(err)
	}
	if def := h.Definition(); def == nil || def.Tooltip != "tip" {
		t.Errorf("handle does not see the update: %v", def)
	}
	if p.GetSetting("a") != h.Definition() {
		t.Error("GetSetting and handle disagree")
	}

	p.RemoveSetting(h.Ref())
	if h.Definition() != nil {
		t.Error("Definition() after removal should be nil")
	}
	if h.Refresh() {
		t.Error("Refresh after removal reported a change")
	}
}

func TestStaleHandleWithDuplicateNames(t *testing.T) {
	p, _ := newPanel(t, map[string]any{})
	first := mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "dup", Path: "a"})
	second := mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "dup", Path: "b"})

	if !p.RemoveSetting(first.Ref()) {
		t.Fatal("first remove failed")
	}
	tests := []struct {
		name string
		op   func() bool
	}{
		{"remove", func() bool { return p.RemoveSetting(first.Ref()) }},
		{"update", func() bool {
			ok, _ := p.UpdateSetting(first.Ref(), setting.WithTooltip("stale"))
			return ok
		}},
		{"refresh", func() bool { return p.RefreshSetting(first.Ref()) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op(); got {
				t.Errorf("%s through stale handle = %v, want false", tt.name, got)
			}
		})
	}

	if got := p.Registry().Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
	def := second.Definition()
	if def == nil || def.Tooltip != "" {
		t.Errorf("second definition = %v, want untouched", def)
	}
}

func TestHandleAfterRename(t *testing.T) {
	p, _ := newPanel(t, map[string]any{})
	h := mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "old", Path: "a"})
	mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "old", Path: "b"})

	if _, err := p.UpdateSetting(h.Ref(), setting.WithName("new")); err != nil {
		t.Fatal(err)
	}
	if ok, _ := p.UpdateSetting(h.Ref(), setting.WithTooltip("tip")); !ok {
		t.Fatal("update after rename failed")
	}
	if def := h.Definition(); def == nil || def.Name != "new" || def.Tooltip != "tip" {
		t.Errorf("Definition() = %v, want renamed with tooltip", def)
	}
	if def := p.GetSetting("old"); def == nil || def.Tooltip != "" {
		t.Errorf("other setting = %v, want untouched", def)
	}
}

func TestResetToDefaults(t *testing.T) {
	store := map[string]any{}
	p, fc := newPanel(t, store)
	mustAdd(t, p, &setting.Definition{Kind: setting.KindNumber, Name: "x", Path: "x", Default: 5.0, Min: 0, Max: 10, Step: 1})

	color := "red"
	sets := 0
	mustAdd(t, p, &setting.Definition{
		Kind:   setting.KindText,
		Name:   "accessor",
		Getter: func() any { return color },
		Setter: func(v any) { sets++; color = v.(string) },
	})
	store["x"] = 9.0

	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	rebuilds := fc.surface.rebuilds

	// Activate the auto-appended action the way a user would.
	if !p.Engine().Activate(fc.surface.row(DefaultResetLabel)) {
		t.Fatal("reset action did not activate")
	}

	if store["x"] != 5.0 {
		t.Errorf("x = %v, want 5", store["x"])
	}
	if color != "red" || sets != 0 {
		t.Errorf("accessor touched: %q, %d sets", color, sets)
	}
	if fc.surface.rebuilds != rebuilds+1 {
		t.Errorf("rebuilds = %d, want %d", fc.surface.rebuilds, rebuilds+1)
	}
	if fc.surface.row("x").Text != "5" {
		t.Errorf("x row = %q, want 5", fc.surface.row("x").Text)
	}
}

func TestSetValue(t *testing.T) {
	store := map[string]any{}
	p, fc := newPanel(t, store)
	var changed []any
	mustAdd(t, p, &setting.Definition{
		Kind: setting.KindToggle, Name: "flag", Path: "video.flag", Default: false,
		OnChange: func(v any) { changed = append(changed, v) },
	})
	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	var events []notify.Event
	p.Notifier().Subscribe(func(ev notify.Event) { events = append(events, ev) })
	fc.surface.commits = 0

	tests := []struct {
		path     string
		value    any
		wantName string
		wantOld  any
	}{
		{"video.flag", true, "flag", false},
		{"free.key", "x", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			events = nil
			if err := p.SetValue(tt.path, tt.value); err != nil {
				t.Fatalf("SetValue: %v", err)
			}
			if got, _ := pathstore.Get(store, tt.path); got != tt.value {
				t.Errorf("store %s = %v, want %v", tt.path, got, tt.value)
			}
			if len(events) != 1 {
				t.Fatalf("events = %d, want 1", len(events))
			}
			ev := events[0]
			if ev.Type != notify.Written || ev.Path != tt.path || ev.Name != tt.wantName || ev.Old != tt.wantOld {
				t.Errorf("event = %+v, want Written %s name %q old %v", ev, tt.path, tt.wantName, tt.wantOld)
			}
		})
	}

	if len(changed) != 1 || changed[0] != true {
		t.Errorf("OnChange calls = %v, want [true]", changed)
	}
	if fc.surface.commits != 1 {
		t.Errorf("commits = %d, want 1", fc.surface.commits)
	}
	if err := p.SetValue("", 1); !errors.Is(err, pathstore.ErrInvalidPath) {
		t.Errorf("SetValue(\"\") error = %v, want ErrInvalidPath", err)
	}
}

func TestWriteModes(t *testing.T) {
	for _, auto := range []bool{true, false} {
		t.Run(fmt.Sprintf("auto=%v", auto), func(t *testing.T) {
			p, fc := newPanel(t, map[string]any{}, WithAutoSyncOnWrite(auto))
			mustAdd(t, p, &setting.Definition{Kind: setting.KindToggle, Name: "flag", Path: "flag", Default: false})
			if err := p.Show(); err != nil {
				t.Fatal(err)
			}
			fc.surface.rebuilds, fc.surface.commits = 0, 0

			p.Engine().Activate(fc.surface.row("flag"))

			wantCommits, wantRebuilds := 1, 0
			if !auto {
				wantCommits, wantRebuilds = 0, 1
			}
			if fc.surface.commits != wantCommits || fc.surface.rebuilds != wantRebuilds {
				t.Errorf("commits = %d rebuilds = %d, want %d %d",
					fc.surface.commits, fc.surface.rebuilds, wantCommits, wantRebuilds)
			}
		})
	}
}

func TestSurfaceBecomesRequester(t *testing.T) {
	store := map[string]any{}
	p, fc := newPanel(t, store)
	mustAdd(t, p, &setting.Definition{Kind: setting.KindText, Name: "name", Path: "name", Default: "x", MaxLength: 3})
	if err := p.Show(); err != nil {
		t.Fatal(err)
	}

	p.Engine().Activate(fc.surface.row("name"))
	if len(fc.surface.prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(fc.surface.prompts))
	}
	fc.surface.prompts[0].Accept("abcdef")
	if store["name"] != "abc" {
		t.Errorf("name = %v, want abc", store["name"])
	}
}

func TestSharedNotifier(t *testing.T) {
	n := notify.New()
	var written []string
	n.Subscribe(func(ev notify.Event) {
		if ev.Type == notify.Written {
			written = append(written, ev.Panel+":"+ev.Name)
		}
	})

	a, fa := newPanel(t, map[string]any{}, WithNotifier(n))
	b, err := New("other", map[string]any{}, WithNotifier(n), WithSurfaceFactory((&factoryCounter{surface: &fakeSurface{}}).create))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Show(); err != nil {
		t.Fatal(err)
	}
	rebuilds := fa.surface.rebuilds

	mustAdd(t, b, &setting.Definition{Kind: setting.KindToggle, Name: "t", Path: "t"})
	if fa.surface.rebuilds != rebuilds {
		t.Error("other panel's change rebuilt this panel")
	}

	mustAdd(t, a, &setting.Definition{Kind: setting.KindToggle, Name: "mine", Path: "mine"})
	a.Engine().Activate(fa.surface.row("mine"))
	if !equal(written, []string{"game:mine"}) {
		t.Errorf("written = %v", written)
	}
}

func TestHub(t *testing.T) {
	h := NewHub()
	p, err := h.Open("audio", map[string]any{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := h.Open("audio", map[string]any{}); !errors.Is(err, ErrPanelExists) {
		t.Errorf("duplicate Open error = %v", err)
	}
	if _, err := h.Open("nil", nil); !errors.Is(err, ErrNilStore) {
		t.Errorf("nil store error = %v", err)
	}
	if h.Get("audio") != p || h.Len() != 1 {
		t.Error("hub lost the panel")
	}

	if _, err := h.Open("video", map[string]any{}); err != nil {
		t.Fatal(err)
	}
	names := []string{}
	for _, q := range h.Panels() {
		names = append(names, q.Name())
	}
	if !equal(names, []string{"audio", "video"}) {
		t.Errorf("panels = %v", names)
	}

	if !h.Close("audio") || h.Close("audio") {
		t.Error("Close should succeed once")
	}
	p.Close()
	h.CloseAll()
	if h.Len() != 0 {
		t.Errorf("Len after CloseAll = %d", h.Len())
	}
}

func TestHubConcurrentOpen(t *testing.T) {
	h := NewHub(WithAutoDefaultsAction(false))
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			name := fmt.Sprintf("p%d", i%8)
			if p, err := h.Open(name, map[string]any{}); err == nil && i%2 == 0 {
				p.Close()
			}
		}(i)
	}
	wg.Wait()
	if h.Len() > 8 {
		t.Errorf("Len = %d, want at most 8", h.Len())
	}
	for _, p := range h.Panels() {
		if p.Registry().ResetAction() != nil {
			t.Errorf("hub options not applied to %s", p.Name())
		}
	}
}
