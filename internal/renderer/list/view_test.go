package list

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/dshills/settingskit/internal/capture"
	"github.com/dshills/settingskit/internal/display"
	"github.com/dshills/settingskit/internal/panel"
	"github.com/dshills/settingskit/internal/pathstore"
	"github.com/dshills/settingskit/internal/setting"
	"github.com/dshills/settingskit/internal/terminal"
)

var (
	_ panel.Surface     = (*View)(nil)
	_ capture.Requester = (*View)(nil)
	_ Controller        = (*display.Engine)(nil)
)

type harness struct {
	store   map[string]any
	panel   *panel.Panel
	view    *View
	screen  *terminal.Memory
	applied int
	toggled int
}

func newHarness(t *testing.T, width, height int) *harness {
	t.Helper()
	h := &harness{store: map[string]any{}, screen: terminal.NewMemory(width, height)}
	p, err := panel.New("Game", h.store, panel.WithSurfaceFactory(func(p *panel.Panel) (panel.Surface, error) {
		h.view = New(h.screen,
			WithTitle(p.Name()),
			WithController(p.Engine()),
			WithToggle(func() { h.toggled++ }),
		)
		return h.view, nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	h.panel = p

	defs := []*setting.Definition{
		{Kind: setting.KindToggle, Name: "Fullscreen", Path: "video.fullscreen", Default: false},
		{Kind: setting.KindNumber, Name: "Volume", Path: "audio.volume", Default: 50.0, Min: 0, Max: 100, Step: 5, Tooltip: "Master volume"},
		{Kind: setting.KindChoice, Name: "Quality", Path: "video.quality", Default: "mid", Choices: []string{"low", "mid", "high"}},
		{Kind: setting.KindText, Name: "Player", Path: "player.name", Default: "anon", MaxLength: 5},
		{Kind: setting.KindColor, Name: "Accent", Path: "ui.accent", Default: "#ff0000"},
		{Kind: setting.KindLabel, Name: "Advanced"},
		{Kind: setting.KindSeparator, Name: "sep"},
		{Kind: setting.KindAction, Name: "Apply", OnActivate: func() { h.applied++ }},
	}
	for _, d := range defs {
		if _, err := p.AddSetting(d); err != nil {
			t.Fatalf("AddSetting(%s): %v", d.Name, err)
		}
	}
	if err := p.Show(); err != nil {
		t.Fatal(err)
	}
	return h
}

func (h *harness) key(k terminal.Key) Result {
	return h.view.HandleEvent(terminal.KeyEvent(k))
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.view.HandleEvent(terminal.RuneEvent(r))
	}
}

func (h *harness) lineWith(substr string) int {
	for y, l := range h.screen.Lines() {
		if strings.Contains(l, substr) {
			return y
		}
	}
	return -1
}

func (h *harness) footer() string {
	_, height := h.screen.Size()
	return h.screen.Line(height - 1)
}

func (h *harness) selectedName() string {
	r := h.view.Selected()
	if r == nil {
		return ""
	}
	return r.Label
}

func TestLayout(t *testing.T) {
	h := newHarness(t, 60, 14)
	lines := h.screen.Lines()

	if lines[0] != "Game" {
		t.Errorf("header = %q", lines[0])
	}
	wantOrder := []string{"Fullscreen", "Master volume", "Volume", "Quality", "Player", "Accent", "Advanced", "───", "Apply", panel.DefaultResetLabel}
	prev := 0
	for _, w := range wantOrder {
		y := h.lineWith(w)
		if y <= prev {
			t.Errorf("%q at line %d, want after line %d", w, y, prev)
		}
		prev = y
	}

	checks := map[string]string{
		"Fullscreen": "[ ]",
		"Volume":     "< 50 >",
		"Quality":    "< mid >",
		"Player":     `"anon"`,
		"Accent":     "#ff0000",
		"Apply":      "[press]",
	}
	for label, value := range checks {
		y := h.lineWith(label)
		if y < 0 {
			t.Errorf("%s not drawn", label)
			continue
		}
		if !strings.Contains(lines[y], value) {
			t.Errorf("%s line = %q, want %q", label, lines[y], value)
		}
	}
	if !strings.HasPrefix(lines[h.lineWith("Fullscreen")], "> ") {
		t.Error("first row should be selected")
	}
	if h.footer() != footerHelp[0] {
		t.Errorf("footer = %q", h.footer())
	}

	y := h.lineWith("Accent")
	swatch := h.screen.Cell(2+labelWidth+1, y)
	if swatch.Text != "█" || swatch.Style.Foreground != terminal.RGB(255, 0, 0) {
		t.Errorf("swatch cell = %+v", swatch)
	}
}

func TestBuildUnknownKind(t *testing.T) {
	v := New(terminal.NewMemory(10, 5))
	_, err := v.Build(&setting.Definition{Kind: setting.Kind(99), Name: "x"})
	if !errors.Is(err, display.ErrUnknownKind) {
		t.Errorf("Build error = %v, want ErrUnknownKind", err)
	}
	rows, err := v.Build(&setting.Definition{Kind: setting.KindNumber, Name: "n"})
	if err != nil || len(rows) != 1 {
		t.Errorf("number without tooltip rows = %d, %v", len(rows), err)
	}
}

func TestNavigationSkipsCaptions(t *testing.T) {
	h := newHarness(t, 60, 14)

	want := []string{"Volume", "Quality", "Player", "Accent", "Apply", panel.DefaultResetLabel, panel.DefaultResetLabel}
	for _, name := range want {
		h.key(terminal.KeyDown)
		if got := h.selectedName(); got != name {
			t.Fatalf("selected %q, want %q", got, name)
		}
	}
	h.key(terminal.KeyPageUp)
	if got := h.selectedName(); got != "Fullscreen" {
		t.Errorf("after page up selected %q", got)
	}
}

func TestActivateAndStep(t *testing.T) {
	h := newHarness(t, 60, 14)

	h.key(terminal.KeyEnter)
	if h.store["video"].(map[string]any)["fullscreen"] != true {
		t.Error("enter did not toggle fullscreen")
	}
	if l := h.screen.Line(h.lineWith("Fullscreen")); !strings.Contains(l, "[x]") {
		t.Errorf("fullscreen line = %q", l)
	}

	h.key(terminal.KeyDown)
	h.key(terminal.KeyRight)
	h.key(terminal.KeyRight)
	if got, _ := pathstore.Get(h.store, "audio.volume"); got != 60.0 {
		t.Errorf("volume = %v, want 60", got)
	}
	if l := h.screen.Line(h.lineWith("Volume")); !strings.Contains(l, "< 60 >") {
		t.Errorf("volume line = %q", l)
	}

	h.key(terminal.KeyDown)
	h.view.HandleEvent(terminal.RuneEvent(' '))
	if got, _ := pathstore.Get(h.store, "video.quality"); got != "high" {
		t.Errorf("quality = %v, want high", got)
	}
	h.key(terminal.KeyLeft)
	h.key(terminal.KeyLeft)
	if got, _ := pathstore.Get(h.store, "video.quality"); got != "low" {
		t.Errorf("quality = %v, want low", got)
	}
}

func TestTargetedRefreshRepaintsOneLine(t *testing.T) {
	h := newHarness(t, 60, 14)
	h.screen.ResetCounters()

	h.panel.RefreshAll()
	if h.screen.Shows() != 0 || h.screen.SetCalls() != 0 {
		t.Errorf("unchanged refresh painted: shows=%d cells=%d", h.screen.Shows(), h.screen.SetCalls())
	}

	if err := pathstore.Set(h.store, "audio.volume", 75.0); err != nil {
		t.Fatal(err)
	}
	if !h.panel.RefreshSetting(setting.ByName("Volume")) {
		t.Fatal("RefreshSetting = false")
	}
	if h.screen.Shows() != 1 {
		t.Errorf("shows = %d, want 1", h.screen.Shows())
	}
	if got := h.screen.SetCalls(); got != 60 {
		t.Errorf("cells painted = %d, want one line of 60", got)
	}
	if l := h.screen.Line(h.lineWith("Volume")); !strings.Contains(l, "< 75 >") {
		t.Errorf("volume line = %q", l)
	}
}

func TestTextPrompt(t *testing.T) {
	h := newHarness(t, 60, 14)
	for i := 0; i < 3; i++ {
		h.key(terminal.KeyDown)
	}
	if h.selectedName() != "Player" {
		t.Fatalf("selected %q", h.selectedName())
	}

	h.key(terminal.KeyEnter)
	if !h.view.Prompting() || h.footer() != "Player: anon_" {
		t.Fatalf("footer = %q", h.footer())
	}

	h.typeText("xy")
	if h.footer() != "Player: anonx_" {
		t.Errorf("max length not enforced: %q", h.footer())
	}
	h.key(terminal.KeyBackspace)
	h.typeText("!")
	if r := h.view.HandleEvent(terminal.RuneEvent('q')); r != Continue {
		t.Error("q in a prompt must not quit")
	}
	if h.footer() != "Player: anon!_" {
		t.Errorf("footer = %q", h.footer())
	}

	h.key(terminal.KeyEnter)
	if got, _ := pathstore.Get(h.store, "player.name"); got != "anon!" {
		t.Errorf("player.name = %v", got)
	}
	if h.view.Prompting() || h.footer() != footerHelp[0] {
		t.Errorf("prompt still open: %q", h.footer())
	}
	if l := h.screen.Line(h.lineWith("Player")); !strings.Contains(l, `"anon!"`) {
		t.Errorf("player line = %q", l)
	}
}

func TestTextPromptEscape(t *testing.T) {
	h := newHarness(t, 60, 14)
	for i := 0; i < 3; i++ {
		h.key(terminal.KeyDown)
	}
	h.key(terminal.KeyEnter)
	h.typeText("zz")
	h.key(terminal.KeyEscape)

	if got, _ := pathstore.Get(h.store, "player.name"); got != "anon" {
		t.Errorf("escape committed %v", got)
	}
	if h.view.Prompting() {
		t.Error("prompt still open")
	}
}

func TestColorPrompts(t *testing.T) {
	h := newHarness(t, 60, 14)
	for i := 0; i < 4; i++ {
		h.key(terminal.KeyDown)
	}
	h.key(terminal.KeyEnter)
	if h.footer() != "Accent (red 0-255): 255_" {
		t.Fatalf("footer = %q", h.footer())
	}
	h.key(terminal.KeyEnter)
	if h.footer() != "Accent (green 0-255): 0_" {
		t.Fatalf("footer = %q", h.footer())
	}
	h.key(terminal.KeyEnter)
	h.key(terminal.KeyBackspace)
	h.typeText("255")
	h.key(terminal.KeyEnter)

	got, _ := pathstore.Get(h.store, "ui.accent")
	c, ok := setting.ColorFromValue(got)
	if !ok || !c.Equal(setting.Opaque(1, 0, 1)) {
		t.Errorf("accent = %v", got)
	}
	if l := h.screen.Line(h.lineWith("Accent")); !strings.Contains(l, "#ff00ff") {
		t.Errorf("accent line = %q", l)
	}
}

func TestActionAndReset(t *testing.T) {
	h := newHarness(t, 60, 14)
	h.key(terminal.KeyEnter) // fullscreen on
	for i := 0; i < 5; i++ {
		h.key(terminal.KeyDown)
	}
	if h.selectedName() != "Apply" {
		t.Fatalf("selected %q", h.selectedName())
	}
	h.key(terminal.KeyEnter)
	if h.applied != 1 {
		t.Errorf("applied = %d", h.applied)
	}

	h.key(terminal.KeyDown)
	h.key(terminal.KeyEnter)
	if h.store["video"].(map[string]any)["fullscreen"] != false {
		t.Error("reset did not restore fullscreen")
	}
	if h.selectedName() != panel.DefaultResetLabel {
		t.Errorf("rebuild lost the selection: %q", h.selectedName())
	}
}

func TestScrolling(t *testing.T) {
	h := newHarness(t, 60, 5)
	if h.view.Scroll() != 0 {
		t.Fatalf("scroll = %d", h.view.Scroll())
	}
	for i := 0; i < 4; i++ {
		h.key(terminal.KeyDown)
	}
	if h.selectedName() != "Accent" || h.view.Scroll() == 0 {
		t.Fatalf("selected %q scroll %d", h.selectedName(), h.view.Scroll())
	}
	if h.lineWith("Accent") < 0 {
		t.Error("selected row is off screen")
	}

	scroll := h.view.Scroll()
	if err := pathstore.Set(h.store, "ui.accent", "#00ff00"); err != nil {
		t.Fatal(err)
	}
	h.panel.RefreshAll()
	if h.view.Scroll() != scroll || h.selectedName() != "Accent" {
		t.Error("targeted refresh moved scroll or selection")
	}
}

func TestVisibilityKeys(t *testing.T) {
	h := newHarness(t, 60, 14)
	h.key(terminal.KeyTab)
	if h.toggled != 1 {
		t.Errorf("toggled = %d", h.toggled)
	}

	h.panel.Hide()
	if h.view.SurfaceVisible() || h.screen.Line(0) != "" {
		t.Error("Hide did not blank the screen")
	}
	h.key(terminal.KeyEnter)
	if h.store["video"].(map[string]any)["fullscreen"] != false {
		t.Error("hidden view handled input")
	}

	if err := h.panel.Show(); err != nil {
		t.Fatal(err)
	}
	if h.screen.Line(0) != "Game" {
		t.Error("Show did not redraw")
	}
	if h.key(terminal.KeyCtrlC) != Quit || h.view.HandleEvent(terminal.RuneEvent('q')) != Quit {
		t.Error("quit keys not recognized")
	}
}

func TestResize(t *testing.T) {
	h := newHarness(t, 60, 14)
	h.screen.Resize(40, 6)
	h.view.HandleEvent(h.screen.PollEvent())
	if h.screen.Line(0) != "Game" || h.footer() == "" {
		t.Errorf("lines after resize = %q", h.screen.Lines())
	}
}

func TestFooterFitsWidth(t *testing.T) {
	tests := []struct {
		width int
		want  string
	}{
		{80, footerHelp[0]},
		{60, footerHelp[0]},
		{40, footerHelp[1]},
		{10, footerHelp[2]},
		{3, footerHelp[2]},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.width), func(t *testing.T) {
			if got := helpFor(tt.width); got != tt.want {
				t.Errorf("helpFor(%d) = %q, want %q", tt.width, got, tt.want)
			}
		})
	}

	h := newHarness(t, 40, 14)
	if !strings.HasSuffix(h.footer(), "q quit") {
		t.Errorf("footer = %q, want the quit hint", h.footer())
	}
}
