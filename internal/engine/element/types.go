package element

import (
	"slices"
	"strings"
)

// UnionType is carried by elements as an opaque value. The table never
// inspects it beyond copying it around.
type UnionType struct {
	types []string
}

func NewUnionType(types ...string) UnionType {
	out := make([]string, 0, len(types))
	for _, t := range types {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	return UnionType{types: slices.Compact(out)}
}

// ParseUnionType splits a `|`-separated type expression.
func ParseUnionType(expr string) UnionType {
	return NewUnionType(strings.Split(expr, "|")...)
}

func (u UnionType) IsEmpty() bool { return len(u.types) == 0 }

func (u UnionType) Types() []string {
	return slices.Clone(u.types)
}

func (u UnionType) Contains(t string) bool {
	_, found := slices.BinarySearch(u.types, t)
	return found
}

func (u UnionType) String() string {
	if len(u.types) == 0 {
		return "mixed"
	}
	return strings.Join(u.types, "|")
}

type Visibility int

const (
	Public Visibility = iota
	Protected
	Private
)

func (v Visibility) String() string {
	switch v {
	case Protected:
		return "protected"
	case Private:
		return "private"
	default:
		return "public"
	}
}

// ParseVisibility defaults to Public for anything unrecognised.
func ParseVisibility(s string) Visibility {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "protected":
		return Protected
	case "private":
		return Private
	default:
		return Public
	}
}

// Context is the declaration site of an element. Builtins have none.
type Context struct {
	File string
	Line int
}

type Parameter struct {
	Name        string
	Type        UnionType
	Optional    bool
	Variadic    bool
	ByReference bool
}

// Signature describes one variant of a builtin function.
type Signature struct {
	Name       string
	Parameters []Parameter
	ReturnType UnionType
}
