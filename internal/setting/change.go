package setting

// Change mutates a definition during an update. Changes are applied to a
// copy, so a failed validation leaves the registered definition untouched.
type Change func(d *Definition)

// Apply runs changes against d in order.
func (d *Definition) Apply(changes ...Change) {
	for _, c := range changes {
		if c != nil {
			c(d)
		}
	}
}

// WithName sets the display name.
func WithName(name string) Change {
	return func(d *Definition) { d.Name = name }
}

// WithTooltip sets the tooltip.
func WithTooltip(tip string) Change {
	return func(d *Definition) { d.Tooltip = tip }
}

// WithPath sets the store path.
func WithPath(path string) Change {
	return func(d *Definition) { d.Path = path }
}

// WithDefault sets the default value. Nil clears it.
func WithDefault(v any) Change {
	return func(d *Definition) { d.Default = v }
}

// WithAccessors sets the getter/setter pair. Passing nil for both returns
// the definition to path mode.
func WithAccessors(get func() any, set func(any)) Change {
	return func(d *Definition) {
		d.Getter = get
		d.Setter = set
	}
}

// WithRange sets numeric bounds and step.
func WithRange(minimum, maximum, step float64) Change {
	return func(d *Definition) {
		d.Min, d.Max, d.Step = minimum, maximum, step
	}
}

// WithChoices replaces the choice list.
func WithChoices(choices ...string) Change {
	return func(d *Definition) { d.Choices = append([]string(nil), choices...) }
}

// WithImages replaces the image list.
func WithImages(images ...string) Change {
	return func(d *Definition) { d.Images = append([]string(nil), images...) }
}

// WithMaxLength sets the text length bound.
func WithMaxLength(n int) Change {
	return func(d *Definition) { d.MaxLength = n }
}

// WithOnChange sets the change callback.
func WithOnChange(fn func(any)) Change {
	return func(d *Definition) { d.OnChange = fn }
}

// WithOnActivate sets the action callback.
func WithOnActivate(fn func()) Change {
	return func(d *Definition) { d.OnActivate = fn }
}
