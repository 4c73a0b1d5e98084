package qmlfix

// Options configures a Qualifier.
type Options struct {
	// ID is the identifier injected into roots that lack one.
	// Defaults to "root".
	ID string

	// IDWindow bounds how many bytes past the root's opening brace are
	// searched for an existing id declaration.
	// If 0, DefaultIDWindow is used.
	IDWindow int

	// Indent is used for the injected id line when the body has no
	// indented line to copy. Defaults to four spaces.
	Indent string

	// Reserved lists names that are never harvested, in addition to
	// DefaultReserved.
	Reserved []string

	// IDsOnly injects missing ids and skips qualification.
	IDsOnly bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ID:       DefaultID,
		IDWindow: DefaultIDWindow,
		Indent:   defaultIndent,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ID == "" {
		o.ID = def.ID
	}
	if o.IDWindow <= 0 {
		o.IDWindow = def.IDWindow
	}
	if o.Indent == "" {
		o.Indent = def.Indent
	}
	return o
}
