package classfile

import (
	"regexp"
	"sort"
	"strings"
)

var (
	// objectTypePattern finds object types inside field/method descriptors
	// and generic signatures: Lpkg/Name; or Lpkg/Name<...
	objectTypePattern = regexp.MustCompile(`L([\p{L}_$][\p{L}\p{N}_$]*(?:/[\p{L}_$][\p{L}\p{N}_$]*)+)[;<]`)

	// qualifiedNamePattern accepts package-qualified dotted class names.
	qualifiedNamePattern = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$]*(?:\.[\p{L}_$][\p{L}\p{N}_$]*)+$`)
)

// importSet collects referenced class names in dotted form.
type importSet struct {
	self  string
	names map[string]struct{}
}

func newImportSet(self string) *importSet {
	return &importSet{self: self, names: make(map[string]struct{})}
}

// addInternalName records a CONSTANT_Class name, which is either an internal
// name (java/lang/String) or an array descriptor ([Ljava/lang/String;, [[I).
func (s *importSet) addInternalName(name string) {
	if strings.HasPrefix(name, "[") {
		s.addDescriptor(name)
		return
	}
	s.add(name)
}

// addDescriptor records every object type mentioned by a descriptor or
// signature string.
func (s *importSet) addDescriptor(desc string) {
	if !strings.Contains(desc, "/") {
		return
	}
	for _, m := range objectTypePattern.FindAllStringSubmatch(desc, -1) {
		s.add(m[1])
	}
}

func (s *importSet) add(internal string) {
	name := ToDotted(internal)
	if name == s.self {
		return
	}
	if strings.ContainsAny(name, "[();") {
		return
	}
	if !qualifiedNamePattern.MatchString(name) {
		return
	}
	s.names[name] = struct{}{}
}

func (s *importSet) sorted() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// looksLikeDescriptor filters Utf8 constants down to strings shaped like
// field/method descriptors or generic signatures.
func looksLikeDescriptor(s string) bool {
	if s == "" {
		return false
	}
	switch s[0] {
	case '(', 'L', '[', '<':
		return strings.Contains(s, ";")
	}
	return false
}

// collectImports walks the constant pool and member descriptors.
func collectImports(cf *ClassFile, self string) []string {
	set := newImportSet(self)

	for _, c := range cf.ConstantPool {
		switch c.Tag {
		case TagClass:
			if name, err := cf.ConstantPool.Utf8At(c.Index1); err == nil {
				set.addInternalName(name)
			}
		case TagUtf8:
			if looksLikeDescriptor(c.Utf8) {
				set.addDescriptor(c.Utf8)
			}
		}
	}

	for _, m := range cf.Fields {
		set.addDescriptor(m.Descriptor)
	}
	for _, m := range cf.Methods {
		set.addDescriptor(m.Descriptor)
	}

	return set.sorted()
}

// ToDotted converts an internal name (a/b/C$D) to its dotted form (a.b.C$D).
// Inner class separators are left alone.
func ToDotted(internal string) string {
	return strings.ReplaceAll(internal, "/", ".")
}
