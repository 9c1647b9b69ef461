package fqsen

import (
	"strconv"
	"strings"

	domainerrors "symtab/internal/core/errors"
)

// ParseClass parses `\Ns\Name` (the leading backslash is optional). Classes
// have no alternate id, so a `,N` suffix is rejected.
func ParseClass(s string) (Class, error) {
	namespace, name, err := splitQualified(s)
	if err != nil {
		return Class{}, err
	}
	return NewClass(namespace, name), nil
}

// ParseFunction parses `\Ns\name` with an optional `,N` alternate id.
func ParseFunction(s string) (Function, error) {
	body, alt, err := splitAlternate(s)
	if err != nil {
		return Function{}, err
	}
	namespace, name, err := splitQualified(body)
	if err != nil {
		return Function{}, err
	}
	return NewFunction(namespace, name, alt), nil
}

func ParseMethod(s string) (Method, error) {
	class, name, alt, err := splitMember(s)
	if err != nil {
		return Method{}, err
	}
	return NewMethod(class, name, alt), nil
}

func ParseProperty(s string) (Property, error) {
	class, name, alt, err := splitMember(s)
	if err != nil {
		return Property{}, err
	}
	return NewProperty(class, name, alt), nil
}

func ParseClassConstant(s string) (ClassConstant, error) {
	class, name, alt, err := splitMember(s)
	if err != nil {
		return ClassConstant{}, err
	}
	return NewClassConstant(class, name, alt), nil
}

func ParseGlobalConstant(s string) (GlobalConstant, error) {
	namespace, name, err := splitQualified(s)
	if err != nil {
		return GlobalConstant{}, err
	}
	return NewGlobalConstant(namespace, name), nil
}

func splitMember(s string) (Class, string, int, error) {
	body, alt, err := splitAlternate(s)
	if err != nil {
		return Class{}, "", 0, err
	}
	classPart, member, ok := strings.Cut(body, "::")
	if !ok || strings.TrimSpace(member) == "" {
		return Class{}, "", 0, invalid(s, "expected Class::member")
	}
	class, err := ParseClass(classPart)
	if err != nil {
		return Class{}, "", 0, err
	}
	return class, member, alt, nil
}

func splitQualified(s string) (string, string, error) {
	trimmed := strings.Trim(strings.TrimSpace(s), `\`)
	if trimmed == "" {
		return "", "", invalid(s, "empty name")
	}
	if strings.Contains(trimmed, ",") {
		return "", "", invalid(s, "alternate id not allowed")
	}
	idx := strings.LastIndex(trimmed, `\`)
	if idx < 0 {
		return RootNamespace, trimmed, nil
	}
	name := trimmed[idx+1:]
	if name == "" {
		return "", "", invalid(s, "empty name")
	}
	return trimmed[:idx], name, nil
}

func splitAlternate(s string) (string, int, error) {
	body, altPart, ok := strings.Cut(s, ",")
	if !ok {
		return s, 0, nil
	}
	alt, err := strconv.Atoi(strings.TrimSpace(altPart))
	if err != nil || alt < 0 {
		return "", 0, invalid(s, "alternate id must be a non-negative integer")
	}
	return body, alt, nil
}

func invalid(input, reason string) error {
	return domainerrors.AddContext(
		domainerrors.New(domainerrors.CodeValidationError, "invalid fqsen: "+reason),
		domainerrors.CtxFQSEN, input,
	)
}
