// Package classfile reads the header, constant pool and member tables of a
// compiled Java class and derives the structural facts archive analysis needs.
package classfile

import "github.com/jar-analysis/internal/jdk"

// Magic is the first four bytes of every classfile.
const Magic uint32 = 0xCAFEBABE

// ConstantTag identifies the kind of a constant pool entry.
type ConstantTag uint8

const (
	TagUtf8               ConstantTag = 1
	TagInteger            ConstantTag = 3
	TagFloat              ConstantTag = 4
	TagLong               ConstantTag = 5
	TagDouble             ConstantTag = 6
	TagClass              ConstantTag = 7
	TagString             ConstantTag = 8
	TagFieldref           ConstantTag = 9
	TagMethodref          ConstantTag = 10
	TagInterfaceMethodref ConstantTag = 11
	TagNameAndType        ConstantTag = 12
	TagMethodHandle       ConstantTag = 15
	TagMethodType         ConstantTag = 16
	TagDynamic            ConstantTag = 17
	TagInvokeDynamic      ConstantTag = 18
	TagModule             ConstantTag = 19
	TagPackage            ConstantTag = 20
)

// Attribute names the parser looks into.
const (
	AttrCode            = "Code"
	AttrLineNumberTable = "LineNumberTable"
)

// ModuleDescriptorName is the internal name of a module descriptor class.
const ModuleDescriptorName = "module-info"

// Constant is one slot of the constant pool. Which of the fields are
// meaningful depends on Tag; Index1/Index2 hold the u2 references of the
// entry in declaration order (class_index, name_and_type_index, ...).
type Constant struct {
	Tag    ConstantTag
	Utf8   string
	Index1 uint16
	Index2 uint16
}

// ConstantPool is indexed from 1; slot 0 and the upper half of
// long/double entries are zero-valued placeholders.
type ConstantPool []Constant

// Member is a field or method declaration.
type Member struct {
	AccessFlags uint16
	Name        string
	Descriptor  string
	// LineNumbers is the total number of LineNumberTable entries across all
	// Code attributes of a method. Always zero for fields.
	LineNumbers int
}

// ClassFile is the parsed structure of one class.
type ClassFile struct {
	Version      jdk.ClassVersion
	ConstantPool ConstantPool
	AccessFlags  uint16
	ThisClass    string
	SuperClass   string
	Interfaces   []string
	Fields       []Member
	Methods      []Member
}
