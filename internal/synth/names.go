package synth

import (
	"go/token"
	"strings"
	"unicode"

	"github.com/kenshaw/snaker"

	"github.com/roach88/cdpgen/internal/compiler"
)

// namer turns schema names into exported Go identifiers and tracks every
// top-level identifier of the artifact so flattened names cannot collide.
type namer struct {
	idents map[string]string // identifier -> entity that claimed it
}

func newNamer() *namer {
	return &namer{idents: make(map[string]string)}
}

// domain returns the identifier prefix of a domain. Protocol domain names
// are already exported identifiers ("DOM", "IndexedDB") and are kept as is.
func (n *namer) domain(s string) string {
	if token.IsIdentifier(s) && token.IsExported(s) {
		return s
	}
	return n.export(s)
}

// export splits s on anything that is not a letter or digit and camel-cases
// each part with Go initialisms: "auto_bookmark" -> "AutoBookmark",
// "nodeId" -> "NodeID", "unsafe-url" -> "UnsafeURL". A leading digit gets an
// "N" prefix so the result is always an identifier.
func (n *namer) export(s string) string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(word(p))
	}
	out := b.String()
	if out == "" {
		return "Empty"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "N" + out
	}
	return out
}

// word camel-cases one alphanumeric part. Leading digits are kept verbatim
// since the camel-caser drops them.
func word(p string) string {
	i := strings.IndexFunc(p, func(r rune) bool { return !unicode.IsDigit(r) })
	switch i {
	case -1:
		return p
	case 0:
		return snaker.ForceCamelIdentifier(p)
	}
	return p[:i] + snaker.ForceCamelIdentifier(p[i:])
}

// field returns the struct field name for a property. A name equal to one
// of reserved, the methods the struct carries, gets a trailing underscore;
// export never produces one, so the result cannot meet another property.
func (n *namer) field(s string, reserved []string) string {
	name := n.export(s)
	for _, r := range reserved {
		if name == r {
			return name + "_"
		}
	}
	return name
}

// claim registers a top-level identifier for origin.
func (n *namer) claim(ident, origin string) error {
	if prev, ok := n.idents[ident]; ok {
		return &compiler.NameCollisionError{
			Kind:   compiler.CollisionIdentifier,
			Name:   ident,
			First:  prev,
			Second: origin,
		}
	}
	n.idents[ident] = origin
	return nil
}
