package classfile

import (
	"strings"

	"github.com/jar-analysis/internal/jdk"
)

// ClassFacts are the per-class facts archive aggregation consumes.
type ClassFacts struct {
	ClassName    string
	PackageName  string
	Methods      []string
	Imports      []string
	DebugPresent bool
	Version      jdk.ClassVersion
}

// IsModuleDescriptor reports whether the class is a module-info descriptor.
func (f *ClassFacts) IsModuleDescriptor() bool {
	return f.ClassName == ModuleDescriptorName
}

// Probe parses raw class bytes and derives the class facts.
func Probe(data []byte) (*ClassFacts, error) {
	cf, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cf.Facts(), nil
}

// Facts derives class facts from a parsed classfile.
func (cf *ClassFile) Facts() *ClassFacts {
	className := ToDotted(cf.ThisClass)

	facts := &ClassFacts{
		ClassName:   className,
		PackageName: PackageOf(cf.ThisClass),
		Methods:     make([]string, 0, len(cf.Methods)),
		Version:     cf.Version,
	}

	for _, m := range cf.Methods {
		facts.Methods = append(facts.Methods, className+"."+m.Name+m.Descriptor)
		if m.LineNumbers > 0 {
			facts.DebugPresent = true
		}
	}

	facts.Imports = collectImports(cf, className)
	return facts
}

// PackageOf returns the dotted package of an internal class name, or "" for
// the unnamed package.
func PackageOf(internal string) string {
	idx := strings.LastIndexByte(internal, '/')
	if idx < 0 {
		return ""
	}
	return ToDotted(internal[:idx])
}
