package types

import (
	"strconv"
	"strings"
)

// Signature renders the declaration line of a function, without its body
func (f *Function) Signature() string {
	var sb strings.Builder
	if f.Stage != "" {
		sb.WriteString("@" + f.Stage + " ")
	}
	sb.WriteString("fn ")
	sb.WriteString(f.Name)
	sb.WriteByte('(')
	for i, a := range f.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(a.Name)
		sb.WriteString(": ")
		if a.Type != nil {
			sb.WriteString(a.Type.String())
		}
	}
	sb.WriteByte(')')
	if f.Return != nil {
		sb.WriteString(" -> ")
		sb.WriteString(f.Return.String())
	}
	return sb.String()
}

// Signature renders the structure with its fields on one line
func (s *Structure) Signature() string {
	var sb strings.Builder
	sb.WriteString("struct ")
	sb.WriteString(s.Name)
	sb.WriteString(" {")
	for i, f := range s.Fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte(' ')
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		sb.WriteString(f.Type.String())
	}
	if len(s.Fields) > 0 {
		sb.WriteByte(' ')
	}
	sb.WriteByte('}')
	return sb.String()
}

// Signature renders the constant declaration
func (c *Constant) Signature() string {
	s := "const " + c.Name
	if c.Type != nil {
		s += ": " + c.Type.String()
	}
	if c.Value != "" {
		s += " = " + c.Value
	}
	return s
}

// Signature renders the binding declaration with its group and binding attributes
func (b *Binding) Signature() string {
	var sb strings.Builder
	sb.WriteString("@group(")
	sb.WriteString(strconv.Itoa(int(b.AttrGroup)))
	sb.WriteString(") @binding(")
	sb.WriteString(strconv.Itoa(int(b.AttrBinding)))
	sb.WriteString(") var")
	if b.AddressSpace != "" {
		sb.WriteByte('<')
		sb.WriteString(b.AddressSpace)
		if b.AccessMode != "" {
			sb.WriteString(", ")
			sb.WriteString(b.AccessMode)
		}
		sb.WriteByte('>')
	}
	sb.WriteByte(' ')
	sb.WriteString(b.Name)
	sb.WriteString(": ")
	if b.Type != nil {
		sb.WriteString(b.Type.String())
	}
	return sb.String()
}

// Signature renders the import directive
func (i *Import) Signature() string {
	return "#import " + i.Path + " as " + i.Name
}
