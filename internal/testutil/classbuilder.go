// Package testutil provides fixture builders and assertions for tests.
package testutil

import (
	"bytes"
	"encoding/binary"
)

const (
	accPublic = 0x0001
	accModule = 0x8000
)

type methodSpec struct {
	name       string
	descriptor string
	lines      int
}

type fieldSpec struct {
	name       string
	descriptor string
}

// ClassBuilder emits classfile bytes for tests. Names are internal names
// (slash separated). Every method gets a one-instruction Code attribute;
// methods built with debug info also get a LineNumberTable.
type ClassBuilder struct {
	name       string
	super      string
	major      uint16
	minor      uint16
	access     uint16
	interfaces []string
	methods    []methodSpec
	fields     []fieldSpec
	refs       []string
	strings    []string
}

// NewClass starts a class extending java/lang/Object at major version 52.
func NewClass(internalName string) *ClassBuilder {
	return &ClassBuilder{
		name:   internalName,
		super:  "java/lang/Object",
		major:  52,
		access: accPublic,
	}
}

// NewModuleInfo starts a module descriptor class at major version 53.
func NewModuleInfo() *ClassBuilder {
	return &ClassBuilder{
		name:   "module-info",
		major:  53,
		access: accModule,
	}
}

// Version sets the classfile version.
func (b *ClassBuilder) Version(major, minor uint16) *ClassBuilder {
	b.major, b.minor = major, minor
	return b
}

// Super sets the superclass; "" writes index 0.
func (b *ClassBuilder) Super(internalName string) *ClassBuilder {
	b.super = internalName
	return b
}

// Implements adds an interface.
func (b *ClassBuilder) Implements(internalName string) *ClassBuilder {
	b.interfaces = append(b.interfaces, internalName)
	return b
}

// Method adds a method. debug controls whether a LineNumberTable is written.
func (b *ClassBuilder) Method(name, descriptor string, debug bool) *ClassBuilder {
	lines := 0
	if debug {
		lines = 1
	}
	b.methods = append(b.methods, methodSpec{name: name, descriptor: descriptor, lines: lines})
	return b
}

// MethodWithEmptyLineTable adds a method whose LineNumberTable has no entries.
func (b *ClassBuilder) MethodWithEmptyLineTable(name, descriptor string) *ClassBuilder {
	b.methods = append(b.methods, methodSpec{name: name, descriptor: descriptor, lines: -1})
	return b
}

// Field adds a field.
func (b *ClassBuilder) Field(name, descriptor string) *ClassBuilder {
	b.fields = append(b.fields, fieldSpec{name: name, descriptor: descriptor})
	return b
}

// References adds CONSTANT_Class entries (internal names or array descriptors).
func (b *ClassBuilder) References(names ...string) *ClassBuilder {
	b.refs = append(b.refs, names...)
	return b
}

// Utf8 adds raw CONSTANT_Utf8 entries, e.g. signatures or string data.
func (b *ClassBuilder) Utf8(values ...string) *ClassBuilder {
	b.strings = append(b.strings, values...)
	return b
}

// Build returns the encoded classfile.
func (b *ClassBuilder) Build() []byte {
	cp := newPoolWriter()

	thisIndex := cp.class(b.name)
	var superIndex uint16
	if b.super != "" {
		superIndex = cp.class(b.super)
	}
	ifaceIndexes := make([]uint16, 0, len(b.interfaces))
	for _, iface := range b.interfaces {
		ifaceIndexes = append(ifaceIndexes, cp.class(iface))
	}
	for _, ref := range b.refs {
		cp.class(ref)
	}
	for _, s := range b.strings {
		cp.utf8(s)
	}

	var fields bytes.Buffer
	for _, f := range b.fields {
		put16(&fields, accPublic)
		put16(&fields, cp.utf8(f.name))
		put16(&fields, cp.utf8(f.descriptor))
		put16(&fields, 0)
	}

	var methods bytes.Buffer
	for _, m := range b.methods {
		put16(&methods, accPublic)
		put16(&methods, cp.utf8(m.name))
		put16(&methods, cp.utf8(m.descriptor))
		put16(&methods, 1)
		writeCode(&methods, cp, m.lines)
	}

	var out bytes.Buffer
	put32(&out, 0xCAFEBABE)
	put16(&out, b.minor)
	put16(&out, b.major)
	put16(&out, cp.count())
	out.Write(cp.buf.Bytes())
	put16(&out, b.access)
	put16(&out, thisIndex)
	put16(&out, superIndex)
	put16(&out, uint16(len(ifaceIndexes)))
	for _, idx := range ifaceIndexes {
		put16(&out, idx)
	}
	put16(&out, uint16(len(b.fields)))
	out.Write(fields.Bytes())
	put16(&out, uint16(len(b.methods)))
	out.Write(methods.Bytes())
	put16(&out, 0)
	return out.Bytes()
}

// writeCode writes a Code attribute holding a single return instruction.
// lines > 0 adds a LineNumberTable with that many entries, lines < 0 adds an
// empty one.
func writeCode(w *bytes.Buffer, cp *poolWriter, lines int) {
	var body bytes.Buffer
	put16(&body, 1) // max_stack
	put16(&body, 1) // max_locals
	put32(&body, 1)
	body.WriteByte(0xB1) // return
	put16(&body, 0)      // exception_table_length

	if lines == 0 {
		put16(&body, 0)
	} else {
		n := lines
		if n < 0 {
			n = 0
		}
		put16(&body, 1)
		put16(&body, cp.utf8("LineNumberTable"))
		put32(&body, uint32(2+4*n))
		put16(&body, uint16(n))
		for i := 0; i < n; i++ {
			put16(&body, 0)
			put16(&body, uint16(i+1))
		}
	}

	put16(w, cp.utf8("Code"))
	put32(w, uint32(body.Len()))
	w.Write(body.Bytes())
}

type poolWriter struct {
	buf     bytes.Buffer
	next    uint16
	utf8s   map[string]uint16
	classes map[string]uint16
}

func newPoolWriter() *poolWriter {
	return &poolWriter{
		next:    1,
		utf8s:   make(map[string]uint16),
		classes: make(map[string]uint16),
	}
}

func (p *poolWriter) count() uint16 {
	return p.next
}

func (p *poolWriter) utf8(s string) uint16 {
	if idx, ok := p.utf8s[s]; ok {
		return idx
	}
	p.buf.WriteByte(1)
	put16(&p.buf, uint16(len(s)))
	p.buf.WriteString(s)
	idx := p.next
	p.next++
	p.utf8s[s] = idx
	return idx
}

func (p *poolWriter) class(name string) uint16 {
	if idx, ok := p.classes[name]; ok {
		return idx
	}
	nameIndex := p.utf8(name)
	p.buf.WriteByte(7)
	put16(&p.buf, nameIndex)
	idx := p.next
	p.next++
	p.classes[name] = idx
	return idx
}

func put16(w *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.Write(b[:])
}

func put32(w *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.Write(b[:])
}
