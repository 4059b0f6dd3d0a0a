package types

import (
	"fmt"
	"strings"
)

// Type is a closed sum of Primitive, Vector and *PathType.
// The unexported marker method keeps the set closed to this package.
type Type interface {
	isType()
	String() string
}

// FunctionType is a closed sum of the Type variants plus FunctionPointer.
// It only appears in function argument position.
type FunctionType interface {
	isFunctionType()
	String() string
}

// Primitive represents one of the fixed WGSL scalar kinds
type Primitive uint8

const (
	Bool Primitive = iota
	Float32
	Float64
	Uint8
	Uint16
	Uint32
	Uint64
	Sint8
	Sint16
	Sint32
	Sint64
)

var primitiveKeywords = [...]string{
	Bool:    "bool",
	Float32: "f32",
	Float64: "f64",
	Uint8:   "u8",
	Uint16:  "u16",
	Uint32:  "u32",
	Uint64:  "u64",
	Sint8:   "i8",
	Sint16:  "i16",
	Sint32:  "i32",
	Sint64:  "i64",
}

// DefaultType is the placeholder type used before a real type is assigned
func DefaultType() Type {
	return Sint32
}

// ParsePrimitive maps a scalar keyword to its Primitive
func ParsePrimitive(keyword string) (Primitive, error) {
	for p, kw := range primitiveKeywords {
		if kw == keyword {
			return Primitive(p), nil
		}
	}
	return 0, &InvalidLiteralError{Kind: ErrInvalidPrimitive, Literal: keyword}
}

// IsPrimitiveKeyword reports whether keyword names a scalar kind
func IsPrimitiveKeyword(keyword string) bool {
	_, err := ParsePrimitive(keyword)
	return err == nil
}

func (p Primitive) String() string {
	if int(p) < len(primitiveKeywords) {
		return primitiveKeywords[p]
	}
	return fmt.Sprintf("Primitive(%d)", uint8(p))
}

func (Primitive) isType()         {}
func (Primitive) isFunctionType() {}

// Dimension is the component count of a vector type
type Dimension uint8

const (
	D2 Dimension = 2
	D3 Dimension = 3
	D4 Dimension = 4
)

// ParseDimension maps the digit of a vecN keyword to its Dimension
func ParseDimension(digit string) (Dimension, error) {
	switch digit {
	case "2":
		return D2, nil
	case "3":
		return D3, nil
	case "4":
		return D4, nil
	default:
		return 0, &InvalidLiteralError{Kind: ErrInvalidVector, Literal: digit}
	}
}

// Vector represents vecN<primitive>
type Vector struct {
	Dimension Dimension
	Component Primitive
}

func (v Vector) String() string {
	return fmt.Sprintf("vec%d<%s>", v.Dimension, v.Component)
}

func (Vector) isType()         {}
func (Vector) isFunctionType() {}

// OriginKind discriminates the ImportOrigin tri-state
type OriginKind uint8

const (
	OriginUndefined OriginKind = iota
	OriginNamed
	OriginThis
)

func (k OriginKind) String() string {
	switch k {
	case OriginNamed:
		return "named"
	case OriginThis:
		return "this"
	default:
		return "undefined"
	}
}

// ImportOrigin is where a path type was declared. The zero value is Undefined.
type ImportOrigin struct {
	kind  OriginKind
	alias string
}

// Named is the origin of a type reached through the import bound to alias
func Named(alias string) ImportOrigin {
	return ImportOrigin{kind: OriginNamed, alias: alias}
}

// This is the origin of a type declared in the referencing module
func This() ImportOrigin {
	return ImportOrigin{kind: OriginThis}
}

// Kind returns the discriminant
func (o ImportOrigin) Kind() OriginKind { return o.kind }

// Alias returns the import alias of a Named origin
func (o ImportOrigin) Alias() (string, bool) {
	return o.alias, o.kind == OriginNamed
}

// IsUndefined reports whether no resolution has happened yet
func (o ImportOrigin) IsUndefined() bool { return o.kind == OriginUndefined }

func (o ImportOrigin) String() string {
	if o.kind == OriginNamed {
		return "named(" + o.alias + ")"
	}
	return o.kind.String()
}

// MarshalText renders the origin as "undefined", "this" or "named(alias)"
func (o ImportOrigin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// PathType is a type referenced by name, optionally qualified by a module alias
type PathType struct {
	Module string // Qualifier before "::", empty when unqualified
	Name   string

	resolution ImportOrigin
}

// NewPathType creates an unresolved path type
func NewPathType(module, name string) *PathType {
	return &PathType{Module: module, Name: name}
}

// Resolution returns the current origin
func (p *PathType) Resolution() ImportOrigin {
	return p.resolution
}

// ResolveNamed sets the origin to Named(alias) if it is still Undefined
func (p *PathType) ResolveNamed(alias string) bool {
	if !p.resolution.IsUndefined() {
		return false
	}
	p.resolution = Named(alias)
	return true
}

// ResolveThis sets the origin to This if it is still Undefined
func (p *PathType) ResolveThis() bool {
	if !p.resolution.IsUndefined() {
		return false
	}
	p.resolution = This()
	return true
}

// Clone copies the path type including its resolution
func (p *PathType) Clone() *PathType {
	cp := *p
	return &cp
}

func (p *PathType) String() string {
	if p.Module == "" {
		return p.Name
	}
	return p.Module + "::" + p.Name
}

func (*PathType) isType()         {}
func (*PathType) isFunctionType() {}

// FunctionPointer is ptr<function, T>
type FunctionPointer struct {
	Elem Type
}

func (f FunctionPointer) String() string {
	var sb strings.Builder
	sb.WriteString("ptr<function, ")
	if f.Elem != nil {
		sb.WriteString(f.Elem.String())
	}
	sb.WriteString(">")
	return sb.String()
}

func (FunctionPointer) isFunctionType() {}

// PathOf returns the path type carried by t, or nil for primitives and vectors
func PathOf(t Type) *PathType {
	switch v := t.(type) {
	case *PathType:
		return v
	case Primitive, Vector, nil:
		return nil
	default:
		panic(fmt.Sprintf("types: unhandled Type variant %T", t))
	}
}

// FunctionPathOf returns the path type carried by t, looking through function pointers
func FunctionPathOf(t FunctionType) *PathType {
	switch v := t.(type) {
	case *PathType:
		return v
	case FunctionPointer:
		return PathOf(v.Elem)
	case Primitive, Vector, nil:
		return nil
	default:
		panic(fmt.Sprintf("types: unhandled FunctionType variant %T", t))
	}
}

// CloneType deep-copies t so that resolving the copy leaves the original untouched
func CloneType(t Type) Type {
	switch v := t.(type) {
	case *PathType:
		return v.Clone()
	case Primitive, Vector, nil:
		return v
	default:
		panic(fmt.Sprintf("types: unhandled Type variant %T", t))
	}
}

// CloneFunctionType deep-copies t
func CloneFunctionType(t FunctionType) FunctionType {
	switch v := t.(type) {
	case *PathType:
		return v.Clone()
	case FunctionPointer:
		return FunctionPointer{Elem: CloneType(v.Elem)}
	case Primitive, Vector, nil:
		return v
	default:
		panic(fmt.Sprintf("types: unhandled FunctionType variant %T", t))
	}
}
