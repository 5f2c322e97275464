package setting

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	get := func() any { return nil }
	set := func(any) {}

	tests := []struct {
		name string
		def  Definition
		want error
	}{
		{"ok path", Definition{Kind: KindToggle, Name: "a", Path: "a"}, nil},
		{"ok accessor", Definition{Kind: KindText, Getter: get, Setter: set}, nil},
		{"ok label", Definition{Kind: KindLabel, Name: "Header"}, nil},
		{"missing kind", Definition{Name: "x"}, ErrMissingKind},
		{"getter only", Definition{Kind: KindText, Getter: get}, ErrPartialAccessor},
		{"setter only", Definition{Kind: KindText, Setter: set}, ErrPartialAccessor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
			if err != nil {
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) || cfgErr.Name != tt.def.Name {
					t.Errorf("Validate() error %v should be a ConfigError naming %q", err, tt.def.Name)
				}
			}
		})
	}
}

func TestMode(t *testing.T) {
	get := func() any { return nil }
	set := func(any) {}

	if m := (&Definition{Path: "x"}).Mode(); m != ModePath {
		t.Errorf("path Mode() = %v, want path", m)
	}
	if m := (&Definition{Path: "x", Getter: get, Setter: set}).Mode(); m != ModeAccessor {
		t.Errorf("accessor Mode() = %v, want accessor", m)
	}
	if m := (&Definition{}).Mode(); m != ModeNone {
		t.Errorf("empty Mode() = %v, want none", m)
	}
}

func TestCloneOwnsSlices(t *testing.T) {
	d := &Definition{Kind: KindChoice, Choices: []string{"a", "b"}}
	c := d.Clone()
	c.Choices[0] = "z"
	if d.Choices[0] != "a" {
		t.Errorf("Clone shares Choices: %v", d.Choices)
	}
}

func TestStorageChanged(t *testing.T) {
	base := &Definition{Path: "a", Default: 1}

	cases := []struct {
		name   string
		change Change
		want   bool
	}{
		{"tooltip", WithTooltip("x"), false},
		{"path", WithPath("b"), true},
		{"default", WithDefault(2), true},
		{"accessors", WithAccessors(func() any { return nil }, func(any) {}), true},
	}
	for _, tt := range cases {
		c := base.Clone()
		c.Apply(tt.change)
		if got := StorageChanged(base, c); got != tt.want {
			t.Errorf("%s: StorageChanged = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"toggle":    KindToggle,
		"Boolean":   KindToggle,
		"number":    KindNumber,
		"slider":    KindNumber,
		"choice":    KindChoice,
		"color":     KindColor,
		"text":      KindText,
		"image":     KindImageChoice,
		"action":    KindAction,
		"label":     KindLabel,
		"separator": KindSeparator,
	}
	for in, want := range tests {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Errorf("ParseKind(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseKind("knob"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("ParseKind(knob) error = %v, want ErrUnknownKind", err)
	}
}

func TestKindPredicates(t *testing.T) {
	if KindLabel.Interactive() || KindSeparator.Interactive() {
		t.Error("labels and separators are not interactive")
	}
	if KindAction.HasValue() {
		t.Error("actions hold no value")
	}
	if !KindColor.HasValue() {
		t.Error("colors hold a value")
	}
	if Kind(200).Known() {
		t.Error("Kind(200) should be unknown")
	}
}
