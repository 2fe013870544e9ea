// Package lazyargs binds a nested configuration struct from a flat argument list.
//
// A configuration is an ordinary Go struct whose leaves are bool, integer or
// string fields. The value a field holds before binding is its default and
// decides how many tokens the field consumes. Nested structs become dotted
// long flags:
//
//	type Browser struct {
//	    Headless bool
//	    SlowMo   int `short:"s" doc:"Delay in ms between operations"`
//	}
//
//	type Config struct {
//	    OutputFolder string  `doc:"The output folder for the documentation"`
//	    PW           Browser `flag:"pw"`
//	}
//
//	cfg := Config{OutputFolder: "out", PW: Browser{SlowMo: 300}}
//	rest, err := lazyargs.Bind(&cfg, []string{"--pw.headless", "-s", "500", "run.yaml"})
//	// cfg.PW.Headless == true, cfg.PW.SlowMo == 500, rest == ["run.yaml"]
//
// # Facets
//
// Metadata that is not part of the data (short name, help text, a custom
// callback, whether the long and short form may both appear) lives in a
// Registry keyed by the owning struct type and the field's flag name. Struct
// tags are copied into the registry when a schema is built; callbacks can only
// be registered programmatically.
//
// # Arity
//
// Binding is one pass, left to right over the declared fields:
//
//   - bool followed by "true" or "false" consumes two tokens and takes the literal
//   - bool otherwise is a switch: one token, value true
//   - integer and string fields require the next token and consume two
//
// A field absent from the arguments keeps its default. Supplying both the
// long and the short form of a field is an error unless the field allows
// repetition. Consumed tokens are never seen by later fields.
//
// # Help
//
// Parse checks for the reserved -h/--help tokens before binding and, when
// present, renders the option listing instead of touching the configuration.
package lazyargs
