// Package list draws a panel's settings as a scrollable list on a
// terminal screen and turns key presses into setting interactions.
package list

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/rivo/uniseg"

	"github.com/dshills/settingskit/internal/capture"
	"github.com/dshills/settingskit/internal/display"
	"github.com/dshills/settingskit/internal/logging"
	"github.com/dshills/settingskit/internal/renderer/dirty"
	"github.com/dshills/settingskit/internal/setting"
	"github.com/dshills/settingskit/internal/terminal"
)

// Controller runs interactions on rows. *display.Engine implements it.
type Controller interface {
	Activate(row *display.Row) bool
	Step(row *display.Row, delta int) bool
}

// Footer key help, longest first. The first that fits the width is shown.
var footerHelp = []string{
	"up/dn select  enter change  <-/-> adjust  tab hide  q quit",
	"enter change  <-/-> adjust  q quit",
	"q quit",
}

const labelWidth = 24

// line is what one screen line shows. Lines are compared to skip
// repainting unchanged ones.
type line struct {
	text     string
	style    terminal.Style
	swatchAt int
	swatch   terminal.Color
}

// View is a settings list on a terminal screen.
type View struct {
	screen     terminal.Screen
	tracker    *dirty.Tracker
	theme      Theme
	controller Controller
	onToggle   func()
	log        *log.Logger
	title      string

	rows     []*display.Row
	selected int
	scroll   int
	visible  bool
	drawn    []line
	prompt   *prompt
}

// Option configures a View.
type Option func(*View)

// WithTitle sets the header text.
func WithTitle(title string) Option {
	return func(v *View) { v.title = title }
}

// WithTheme sets the styles.
func WithTheme(t Theme) Option {
	return func(v *View) { v.theme = t }
}

// WithController sets who handles activation and stepping.
func WithController(c Controller) Option {
	return func(v *View) { v.controller = c }
}

// WithToggle sets the handler of the visibility key.
func WithToggle(fn func()) Option {
	return func(v *View) { v.onToggle = fn }
}

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(v *View) { v.log = l }
}

// New creates a hidden view on screen.
func New(screen terminal.Screen, opts ...Option) *View {
	_, h := screen.Size()
	v := &View{
		screen:   screen,
		tracker:  dirty.NewTracker(h),
		theme:    DefaultTheme(),
		selected: -1,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.log = logging.Component(v.log, "list")
	return v
}

// SetController sets who handles activation and stepping.
func (v *View) SetController(c Controller) {
	v.controller = c
}

// Build returns the rows for def. Numbers with a tooltip get a caption
// row first; labels and separators are caption-only.
func (v *View) Build(def *setting.Definition) ([]*display.Row, error) {
	switch def.Kind {
	case setting.KindToggle, setting.KindChoice, setting.KindImageChoice,
		setting.KindColor, setting.KindText, setting.KindAction:
		return []*display.Row{{Role: display.RoleValue}}, nil
	case setting.KindNumber:
		if def.Tooltip != "" {
			return []*display.Row{
				{Role: display.RoleCaption, Label: def.Tooltip},
				{Role: display.RoleValue},
			}, nil
		}
		return []*display.Row{{Role: display.RoleValue}}, nil
	case setting.KindLabel:
		return []*display.Row{{Role: display.RoleCaption}}, nil
	case setting.KindSeparator:
		return []*display.Row{{Role: display.RoleCaption}}, nil
	default:
		return nil, fmt.Errorf("%w: %v", display.ErrUnknownKind, def.Kind)
	}
}

// Rebuild replaces the rows. The selection stays on the same setting when
// it still has a row; scroll returns to the top.
func (v *View) Rebuild(_ []*setting.Definition, rows []*display.Row) {
	keep := v.Selected()
	v.rows = rows
	v.scroll = 0
	v.selected = v.firstSelectable()
	if keep != nil {
		for i, r := range rows {
			if r.Setting == keep.Setting && selectable(r) {
				v.selected = i
				break
			}
		}
	}
	v.ensureVisible()
	v.tracker.MarkFullRedraw()
	v.draw()
}

// CommitVisible repaints the visible lines whose content changed.
func (v *View) CommitVisible() {
	v.draw()
}

// SurfaceVisible reports whether the view is on screen.
func (v *View) SurfaceVisible() bool {
	return v.visible
}

// Show draws the view.
func (v *View) Show() {
	if v.visible {
		return
	}
	v.visible = true
	v.tracker.MarkFullRedraw()
	v.draw()
}

// Hide blanks the screen. Rows are kept.
func (v *View) Hide() {
	if !v.visible {
		return
	}
	v.visible = false
	v.prompt = nil
	v.drawn = nil
	v.screen.Clear()
	v.screen.Show()
}

// Rows returns the current rows.
func (v *View) Rows() []*display.Row {
	return v.rows
}

// Selected returns the selected row, or nil.
func (v *View) Selected() *display.Row {
	if v.selected < 0 || v.selected >= len(v.rows) {
		return nil
	}
	return v.rows[v.selected]
}

// Scroll returns the index of the first visible row.
func (v *View) Scroll() int {
	return v.scroll
}

func selectable(r *display.Row) bool {
	return r.Role == display.RoleValue && r.Kind.Interactive()
}

func (v *View) firstSelectable() int {
	for i, r := range v.rows {
		if selectable(r) {
			return i
		}
	}
	return -1
}

// listHeight is the number of row lines between header and footer.
func (v *View) listHeight() int {
	_, h := v.screen.Size()
	return max(h-2, 0)
}

func (v *View) ensureVisible() {
	n := v.listHeight()
	if v.selected < 0 || n == 0 {
		v.scroll = 0
		return
	}
	if v.selected < v.scroll {
		v.scroll = v.selected
	}
	if v.selected >= v.scroll+n {
		v.scroll = v.selected - n + 1
	}
}

// move changes the selection by delta selectable rows.
func (v *View) move(delta int) {
	if v.selected < 0 {
		return
	}
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	i := v.selected
	for moved := 0; moved < delta; {
		next := i + step
		for next >= 0 && next < len(v.rows) && !selectable(v.rows[next]) {
			next += step
		}
		if next < 0 || next >= len(v.rows) {
			break
		}
		i = next
		moved++
	}
	v.selected = i
	v.ensureVisible()
	v.draw()
}

// draw paints every line whose content differs from what is on screen.
func (v *View) draw() {
	if !v.visible {
		return
	}
	w, h := v.screen.Size()
	if v.tracker.Height() != h || len(v.drawn) != h {
		v.tracker.SetHeight(h)
		v.drawn = make([]line, h)
	}

	want := v.layout(w, h)
	full := v.tracker.NeedsFullRedraw()
	for y := range want {
		if !full && want[y] != v.drawn[y] {
			v.tracker.MarkLine(y)
		}
	}
	if !v.tracker.IsDirty() {
		return
	}
	for _, y := range v.tracker.DirtyLines() {
		v.paint(y, w, want[y])
		v.drawn[y] = want[y]
	}
	v.tracker.Clear()
	v.screen.Show()
}

func (v *View) paint(y, width int, l line) {
	terminal.FillLine(v.screen, 0, y, width, l.text, l.style)
	if l.swatchAt >= 0 && l.swatchAt < width {
		v.screen.SetCell(l.swatchAt, y, terminal.Cell{
			Text:  "█",
			Width: 1,
			Style: l.style.WithForeground(l.swatch),
		})
	}
}

// layout computes every screen line.
func (v *View) layout(width, height int) []line {
	lines := make([]line, height)
	for i := range lines {
		lines[i] = line{style: v.theme.Value, swatchAt: -1}
	}
	if height == 0 {
		return lines
	}

	lines[0] = line{text: v.title, style: v.theme.Header, swatchAt: -1}
	n := v.listHeight()
	for i := 0; i < n && v.scroll+i < len(v.rows); i++ {
		idx := v.scroll + i
		lines[1+i] = v.rowLine(v.rows[idx], idx == v.selected, width)
	}
	if height > 1 {
		lines[height-1] = v.footer(width)
	}
	return lines
}

func (v *View) rowLine(r *display.Row, selected bool, width int) line {
	if r.Role == display.RoleCaption {
		if r.Kind == setting.KindSeparator {
			return line{text: strings.Repeat("─", width), style: v.theme.Separator, swatchAt: -1}
		}
		style := v.theme.Caption
		if r.Kind == setting.KindLabel {
			style = v.theme.Header
		}
		return line{text: "  " + r.Label, style: style, swatchAt: -1}
	}

	style := v.theme.Value
	marker := "  "
	if selected {
		style = v.theme.Selected
		marker = "> "
	}
	head := marker + terminal.Pad(r.Label, labelWidth) + " "
	l := line{text: head + valueField(r), style: style, swatchAt: -1}
	if r.Kind == setting.KindColor {
		l.swatchAt = terminal.StringWidth(head)
		cr, cg, cb := r.Swatch.RGB255()
		l.swatch = terminal.RGB(cr, cg, cb)
	}
	return l
}

func valueField(r *display.Row) string {
	switch r.Kind {
	case setting.KindToggle:
		if r.Text == "on" {
			return "[x]"
		}
		return "[ ]"
	case setting.KindNumber, setting.KindChoice, setting.KindImageChoice:
		return "< " + r.Text + " >"
	case setting.KindText:
		return fmt.Sprintf("%q", r.Text)
	case setting.KindColor:
		return "  " + r.Text
	case setting.KindAction:
		return "[press]"
	default:
		return r.Text
	}
}

func (v *View) footer(width int) line {
	if v.prompt != nil {
		return line{text: v.prompt.line(), style: v.theme.Prompt, swatchAt: -1}
	}
	return line{text: helpFor(width), style: v.theme.Footer, swatchAt: -1}
}

func helpFor(width int) string {
	for _, h := range footerHelp {
		if terminal.StringWidth(h) <= width {
			return h
		}
	}
	return footerHelp[len(footerHelp)-1]
}

// graphemes splits s into grapheme clusters.
func graphemes(s string) []string {
	var out []string
	g := uniseg.NewGraphemes(s)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

// prompt is a pending text request shown on the footer line.
type prompt struct {
	req  capture.TextRequest
	text []string
}

func (p *prompt) line() string {
	return p.req.Title + ": " + strings.Join(p.text, "") + "_"
}

// RequestText shows req on the footer line. A pending prompt is cancelled.
func (v *View) RequestText(req capture.TextRequest) {
	if v.prompt != nil {
		pending := v.prompt
		v.prompt = nil
		pending.req.Cancel()
	}
	text := graphemes(capture.Truncate(req.Current, req.MaxLength))
	v.prompt = &prompt{req: req, text: text}
	v.draw()
}

// Prompting reports whether a text prompt is open.
func (v *View) Prompting() bool {
	return v.prompt != nil
}
