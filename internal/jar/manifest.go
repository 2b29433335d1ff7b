package jar

import (
	"bufio"
	"bytes"
	"sort"
	"strings"
)

// ManifestPath is where archives keep their manifest.
const ManifestPath = "META-INF/MANIFEST.MF"

// Well-known manifest attribute names.
const (
	AttrMultiRelease          = "Multi-Release"
	AttrSealed                = "Sealed"
	AttrImplementationTitle   = "Implementation-Title"
	AttrImplementationVersion = "Implementation-Version"
	AttrImplementationVendor  = "Implementation-Vendor"
	AttrSpecificationTitle    = "Specification-Title"
	AttrSpecificationVersion  = "Specification-Version"
	AttrSpecificationVendor   = "Specification-Vendor"
	AttrExtensionName         = "Extension-Name"
)

// Attributes holds one manifest section. Lookups ignore the case of names.
type Attributes map[string]string

// Get returns the value of name, or "".
func (a Attributes) Get(name string) string {
	return a[strings.ToLower(name)]
}

// IsTrue reports whether name is set to "true", ignoring case and padding.
func (a Attributes) IsTrue(name string) bool {
	return strings.EqualFold(strings.TrimSpace(a.Get(name)), "true")
}

// Manifest is a parsed META-INF/MANIFEST.MF.
type Manifest struct {
	Main    Attributes
	Entries map[string]Attributes
}

// ParseManifest parses manifest bytes. Parsing is lenient: malformed lines
// are ignored rather than rejected.
func ParseManifest(data []byte) *Manifest {
	m := &Manifest{Main: Attributes{}, Entries: map[string]Attributes{}}

	current := m.Main
	inMain := true
	var lastKey string

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")

		if line == "" {
			// Blank lines end a section.
			inMain = false
			current = nil
			lastKey = ""
			continue
		}

		if strings.HasPrefix(line, " ") {
			if current != nil && lastKey != "" {
				current[lastKey] += line[1:]
			}
			continue
		}

		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(line[:idx]))
		value := strings.TrimPrefix(line[idx+1:], " ")

		if current == nil {
			if inMain {
				current = m.Main
			} else {
				current = Attributes{}
			}
		}
		current[key] = value
		lastKey = key

		if !inMain && key == "name" {
			m.Entries[value] = current
		}
	}

	// Continuation lines may have extended a section's Name after it was
	// registered; re-key those sections.
	for name, attrs := range m.Entries {
		if full := attrs.Get("Name"); full != name {
			delete(m.Entries, name)
			m.Entries[full] = attrs
		}
	}
	return m
}

// MultiRelease reports the Multi-Release main attribute.
func (m *Manifest) MultiRelease() bool {
	return m != nil && m.Main.IsTrue(AttrMultiRelease)
}

// Sealed reports the Sealed main attribute.
func (m *Manifest) Sealed() bool {
	return m != nil && m.Main.IsTrue(AttrSealed)
}

// Sections returns the main section followed by the per-entry sections in
// name order.
func (m *Manifest) Sections() []Attributes {
	if m == nil {
		return nil
	}
	names := make([]string, 0, len(m.Entries))
	for n := range m.Entries {
		names = append(names, n)
	}
	sort.Strings(names)

	out := make([]Attributes, 0, len(names)+1)
	out = append(out, m.Main)
	for _, n := range names {
		out = append(out, m.Entries[n])
	}
	return out
}
