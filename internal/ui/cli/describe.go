package cli

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"symtab/internal/engine/codebase"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
)

func describeSite(decl element.Declaration) string {
	if decl.Internal {
		return "internal"
	}
	if decl.Context.File == "" {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", decl.Context.File, decl.Context.Line)
}

func describeParams(params []element.Parameter) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		var b strings.Builder
		if !p.Type.IsEmpty() {
			b.WriteString(p.Type.String())
			b.WriteByte(' ')
		}
		if p.ByReference {
			b.WriteByte('&')
		}
		if p.Variadic {
			b.WriteString("...")
		}
		b.WriteString("$")
		b.WriteString(strings.TrimPrefix(p.Name, "$"))
		if p.Optional && !p.Variadic {
			b.WriteString(" = ?")
		}
		parts = append(parts, b.String())
	}
	return strings.Join(parts, ", ")
}

func modifiers(decl element.Declaration) string {
	mods := []string{decl.Visibility.String()}
	if decl.Abstract {
		mods = append(mods, "abstract")
	}
	if decl.Final {
		mods = append(mods, "final")
	}
	if decl.Static {
		mods = append(mods, "static")
	}
	return strings.Join(mods, " ")
}

func describeFunction(w io.Writer, f *element.Func) {
	fmt.Fprintf(w, "function %s(%s): %s  [%s]\n", f.FQSEN(), describeParams(f.Parameters), f.Type, describeSite(f.Declaration))
}

func describeMethod(w io.Writer, m *element.Method) {
	fmt.Fprintf(w, "%s function %s(%s): %s  [%s]", modifiers(m.Declaration), m.FQSEN(), describeParams(m.Parameters), m.Type, describeSite(m.Declaration))
	if m.IsInherited() {
		fmt.Fprintf(w, " from %s", m.DefiningFQSEN())
	}
	fmt.Fprintln(w)
}

func describeProperty(w io.Writer, p *element.Property) {
	fmt.Fprintf(w, "%s %s %s  [%s]", modifiers(p.Declaration), p.Type, p.FQSEN(), describeSite(p.Declaration))
	if p.DefiningFQSEN() != p.FQSEN() {
		fmt.Fprintf(w, " from %s", p.DefiningFQSEN())
	}
	fmt.Fprintln(w)
}

func describeClassConstant(w io.Writer, c *element.ClassConstant) {
	fmt.Fprintf(w, "%s const %s = %s  [%s]", c.Visibility, c.FQSEN(), valueOrUnknown(c.Value), describeSite(c.Declaration))
	if c.DefiningFQSEN() != c.FQSEN() {
		fmt.Fprintf(w, " from %s", c.DefiningFQSEN())
	}
	fmt.Fprintln(w)
}

func describeGlobalConstant(w io.Writer, c *element.GlobalConstant) {
	fmt.Fprintf(w, "const %s = %s  [%s]\n", c.FQSEN(), valueOrUnknown(c.Value), describeSite(c.Declaration))
}

// describeClass prints the header followed by every member currently in the
// class's map, sorted by FQSEN.
func describeClass(w io.Writer, c *element.Class, members *codebase.ClassMap) {
	fmt.Fprintf(w, "%s %s  [%s]\n", c.Kind, c.FQSEN(), describeSite(c.Declaration))
	if c.Parent != nil {
		fmt.Fprintf(w, "  extends %s\n", *c.Parent)
	}
	for _, iface := range c.Interfaces {
		fmt.Fprintf(w, "  implements %s\n", iface)
	}
	for _, trait := range c.Traits {
		fmt.Fprintf(w, "  uses %s\n", trait)
	}

	for _, k := range sortedKeys(members.ClassConstantMap()) {
		fmt.Fprint(w, "  ")
		describeClassConstant(w, members.ClassConstantMap()[k])
	}
	for _, k := range sortedKeys(members.PropertyMap()) {
		fmt.Fprint(w, "  ")
		describeProperty(w, members.PropertyMap()[k])
	}
	for _, k := range sortedKeys(members.MethodMap()) {
		fmt.Fprint(w, "  ")
		describeMethod(w, members.MethodMap()[k])
	}
}

func describeSummary(w io.Writer, s codebase.Summary) {
	fmt.Fprintf(w, "classes:          %d\n", s.Classes)
	fmt.Fprintf(w, "functions:        %d\n", s.Functions)
	fmt.Fprintf(w, "global constants: %d\n", s.GlobalConstants)
	fmt.Fprintf(w, "methods:          %d\n", s.Methods)
	fmt.Fprintf(w, "properties:       %d\n", s.Properties)
	fmt.Fprintf(w, "class constants:  %d\n", s.ClassConstants)
	fmt.Fprintf(w, "total:            %d\n", s.Total())
}

func describeFQSENs(w io.Writer, list []fqsen.FQSEN) {
	for _, fq := range list {
		fmt.Fprintf(w, "%s %s\n", fq.Kind(), fq)
	}
}

func valueOrUnknown(v string) string {
	if v == "" {
		return "?"
	}
	return v
}

func sortedKeys[V any](m map[fqsen.NameKey]V) []fqsen.NameKey {
	keys := make([]fqsen.NameKey, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, func(a, b fqsen.NameKey) int {
		return strings.Compare(a.String(), b.String())
	})
	return keys
}
