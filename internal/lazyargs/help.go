package lazyargs

import (
	"fmt"
	"strings"
)

// Reserved help tokens.
const (
	HelpLong  = "--help"
	HelpShort = "-h"
)

// WantsHelp reports whether args contains a reserved help token.
func WantsHelp(args []string) bool {
	for _, a := range args {
		if a == HelpLong || a == HelpShort {
			return true
		}
	}
	return false
}

// Help renders the option listing for cfg without modifying it.
func (b *Binder) Help(cfg any) (string, error) {
	schema, err := Build(cfg, b.registry)
	if err != nil {
		return "", err
	}
	return RenderHelp(schema), nil
}

// RenderHelp returns one line per leaf field:
//
//	\t-s --pw.slowMo Type: number, Default: 300 Delay between operations
func RenderHelp(schema *Schema) string {
	var buf strings.Builder
	for _, f := range schema.Leaves() {
		buf.WriteString("\t")
		if sf := f.ShortFlag(); sf != "" {
			buf.WriteString(sf + " ")
		}
		fmt.Fprintf(&buf, "%s Type: %s, Default: %v", f.Flag(), f.Kind, f.Value())
		if f.Facet.Doc != "" {
			buf.WriteString(" " + f.Facet.Doc)
		}
		buf.WriteString("\n")
	}
	return buf.String()
}
