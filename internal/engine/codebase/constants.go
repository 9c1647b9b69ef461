package codebase

import (
	"maps"

	domainerrors "symtab/internal/core/errors"
	"symtab/internal/engine/element"
	"symtab/internal/engine/fqsen"
)

func (cb *CodeBase) AddGlobalConstant(c *element.GlobalConstant) {
	cb.globalConstants[c.FQSEN()] = c
}

func (cb *CodeBase) HasGlobalConstantWithFQSEN(fq fqsen.GlobalConstant) bool {
	_, ok := cb.globalConstants[fq]
	return ok
}

func (cb *CodeBase) GetGlobalConstantByFQSEN(fq fqsen.GlobalConstant) (*element.GlobalConstant, error) {
	c, ok := cb.globalConstants[fq]
	observeLookup(fqsen.KindGlobalConstant, ok)
	if !ok {
		return nil, domainerrors.NotFound("GetGlobalConstantByFQSEN", fq.String())
	}
	return c, nil
}

func (cb *CodeBase) GlobalConstantMap() map[fqsen.GlobalConstant]*element.GlobalConstant {
	return maps.Clone(cb.globalConstants)
}
