package ingest

// options holds reader configuration.
type options struct {
	sheet string
}

// Option applies a configuration option to a table read.
type Option func(*options)

// WithSheet selects an XLSX sheet by numeric index ("0", "1", ...) or by
// name. Ignored for CSV sources.
func WithSheet(sel string) Option {
	return func(o *options) {
		o.sheet = sel
	}
}
