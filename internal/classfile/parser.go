package classfile

import (
	"github.com/jar-analysis/internal/jdk"
)

// Parse decodes a classfile. Any structural problem, including truncation,
// is reported as a MALFORMED_CLASS error.
func Parse(data []byte) (*ClassFile, error) {
	r := newReader(data)

	magic, err := r.ReadUint32()
	if err != nil {
		return nil, err
	}
	if magic != Magic {
		return nil, malformed("bad magic 0x%08X", magic)
	}

	minor, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	major, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	cf := &ClassFile{Version: jdk.ClassVersion{Major: major, Minor: minor}}

	if cf.ConstantPool, err = readConstantPool(r); err != nil {
		return nil, err
	}
	cp := cf.ConstantPool

	if cf.AccessFlags, err = r.ReadUint16(); err != nil {
		return nil, err
	}

	thisIndex, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if cf.ThisClass, err = cp.ClassName(thisIndex); err != nil {
		return nil, err
	}

	superIndex, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	// java/lang/Object and module-info have no superclass.
	if superIndex != 0 {
		if cf.SuperClass, err = cp.ClassName(superIndex); err != nil {
			return nil, err
		}
	}

	ifaceCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	cf.Interfaces = make([]string, 0, ifaceCount)
	for i := 0; i < int(ifaceCount); i++ {
		idx, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		name, err := cp.ClassName(idx)
		if err != nil {
			return nil, err
		}
		cf.Interfaces = append(cf.Interfaces, name)
	}

	if cf.Fields, err = readMembers(r, cp); err != nil {
		return nil, err
	}
	if cf.Methods, err = readMembers(r, cp); err != nil {
		return nil, err
	}

	attrCount, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	for i := 0; i < int(attrCount); i++ {
		if _, err := skipAttribute(r); err != nil {
			return nil, err
		}
	}

	return cf, nil
}

func readConstantPool(r *reader) (ConstantPool, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, malformed("constant pool count is zero")
	}

	cp := make(ConstantPool, count)
	for i := 1; i < int(count); i++ {
		tagByte, err := r.ReadUint8()
		if err != nil {
			return nil, err
		}
		c := Constant{Tag: ConstantTag(tagByte)}

		switch c.Tag {
		case TagUtf8:
			n, err := r.ReadUint16()
			if err != nil {
				return nil, err
			}
			raw, err := r.ReadBytes(int(n))
			if err != nil {
				return nil, err
			}
			if c.Utf8, err = decodeModifiedUTF8(raw); err != nil {
				return nil, err
			}
		case TagInteger, TagFloat:
			if err := r.Skip(4); err != nil {
				return nil, err
			}
		case TagLong, TagDouble:
			if err := r.Skip(8); err != nil {
				return nil, err
			}
		case TagClass, TagString, TagMethodType, TagModule, TagPackage:
			if c.Index1, err = r.ReadUint16(); err != nil {
				return nil, err
			}
		case TagFieldref, TagMethodref, TagInterfaceMethodref, TagNameAndType,
			TagDynamic, TagInvokeDynamic:
			if c.Index1, err = r.ReadUint16(); err != nil {
				return nil, err
			}
			if c.Index2, err = r.ReadUint16(); err != nil {
				return nil, err
			}
		case TagMethodHandle:
			kind, err := r.ReadUint8()
			if err != nil {
				return nil, err
			}
			c.Index1 = uint16(kind)
			if c.Index2, err = r.ReadUint16(); err != nil {
				return nil, err
			}
		default:
			return nil, malformed("unknown constant pool tag %d at entry %d", tagByte, i)
		}

		cp[i] = c
		if c.Tag == TagLong || c.Tag == TagDouble {
			// Eight-byte constants take two slots.
			i++
		}
	}
	return cp, nil
}

func readMembers(r *reader, cp ConstantPool) ([]Member, error) {
	count, err := r.ReadUint16()
	if err != nil {
		return nil, err
	}

	members := make([]Member, 0, count)
	for i := 0; i < int(count); i++ {
		var m Member
		if m.AccessFlags, err = r.ReadUint16(); err != nil {
			return nil, err
		}
		nameIndex, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		if m.Name, err = cp.Utf8At(nameIndex); err != nil {
			return nil, err
		}
		descIndex, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		if m.Descriptor, err = cp.Utf8At(descIndex); err != nil {
			return nil, err
		}

		attrCount, err := r.ReadUint16()
		if err != nil {
			return nil, err
		}
		for j := 0; j < int(attrCount); j++ {
			name, body, err := readAttribute(r, cp)
			if err != nil {
				return nil, err
			}
			if name == AttrCode {
				lines, err := codeLineNumbers(body, cp)
				if err != nil {
					return nil, err
				}
				m.LineNumbers += lines
			}
		}
		members = append(members, m)
	}
	return members, nil
}

func readAttribute(r *reader, cp ConstantPool) (string, []byte, error) {
	nameIndex, err := r.ReadUint16()
	if err != nil {
		return "", nil, err
	}
	name, err := cp.Utf8At(nameIndex)
	if err != nil {
		return "", nil, err
	}
	length, err := r.ReadUint32()
	if err != nil {
		return "", nil, err
	}
	if uint64(length) > uint64(len(r.data)) {
		return "", nil, malformed("attribute %s length %d exceeds classfile size", name, length)
	}
	body, err := r.ReadBytes(int(length))
	if err != nil {
		return "", nil, err
	}
	return name, body, nil
}

func skipAttribute(r *reader) (uint32, error) {
	if err := r.Skip(2); err != nil {
		return 0, err
	}
	length, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if uint64(length) > uint64(len(r.data)) {
		return 0, malformed("attribute length %d exceeds classfile size", length)
	}
	return length, r.Skip(int(length))
}

// codeLineNumbers walks a Code attribute body and sums the lengths of its
// nested LineNumberTable attributes.
func codeLineNumbers(body []byte, cp ConstantPool) (int, error) {
	r := newReader(body)

	// max_stack, max_locals
	if err := r.Skip(4); err != nil {
		return 0, err
	}
	codeLength, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	if uint64(codeLength) > uint64(len(body)) {
		return 0, malformed("code length %d exceeds attribute size", codeLength)
	}
	if err := r.Skip(int(codeLength)); err != nil {
		return 0, err
	}
	excCount, err := r.ReadUint16()
	if err != nil {
		return 0, err
	}
	if err := r.Skip(int(excCount) * 8); err != nil {
		return 0, err
	}

	attrCount, err := r.ReadUint16()
	if err != nil {
		return 0, err
	}
	lines := 0
	for i := 0; i < int(attrCount); i++ {
		name, nested, err := readAttribute(r, cp)
		if err != nil {
			return 0, err
		}
		if name != AttrLineNumberTable {
			continue
		}
		lr := newReader(nested)
		n, err := lr.ReadUint16()
		if err != nil {
			return 0, err
		}
		if err := lr.Skip(int(n) * 4); err != nil {
			return 0, err
		}
		lines += int(n)
	}
	return lines, nil
}

// Utf8At returns the string of a CONSTANT_Utf8 entry.
func (cp ConstantPool) Utf8At(index uint16) (string, error) {
	c, err := cp.entry(index, TagUtf8)
	if err != nil {
		return "", err
	}
	return c.Utf8, nil
}

// ClassName returns the internal name referenced by a CONSTANT_Class entry.
func (cp ConstantPool) ClassName(index uint16) (string, error) {
	c, err := cp.entry(index, TagClass)
	if err != nil {
		return "", err
	}
	return cp.Utf8At(c.Index1)
}

func (cp ConstantPool) entry(index uint16, tag ConstantTag) (Constant, error) {
	if index == 0 || int(index) >= len(cp) {
		return Constant{}, malformed("constant pool index %d out of range [1,%d)", index, len(cp))
	}
	c := cp[index]
	if c.Tag != tag {
		return Constant{}, malformed("constant pool entry %d has tag %d, want %d", index, c.Tag, tag)
	}
	return c, nil
}
