package config

import (
	"fmt"
	"sort"

	"github.com/vk/scriptui/internal/wrapgen"
	"github.com/zclconf/go-cty/cty"
)

// Model is the unified representation of all loaded binding manifests.
type Model struct {
	Types      map[string]*TypeDefinition
	Namespaces map[string]*NamespaceDefinition
}

func NewModel() *Model {
	return &Model{
		Types:      make(map[string]*TypeDefinition),
		Namespaces: make(map[string]*NamespaceDefinition),
	}
}

// TypeDefinition binds one host type.
type TypeDefinition struct {
	Name        string
	Description string
	// Namespace is the script table that holds the free functions of the
	// type. It defaults to the type name.
	Namespace string
	// Methods in declaration order. Free functions carry the namespace as
	// their receiver.
	Methods []wrapgen.Descriptor
	// Fields are read-only properties served through __index.
	Fields []wrapgen.Descriptor
	Source string
}

// NamespaceDefinition is a table of constants.
type NamespaceDefinition struct {
	Name        string
	Description string
	Constants   map[string]cty.Value
	Source      string
}

// ConstantNames returns the constant names in sorted order.
func (n *NamespaceDefinition) ConstantNames() []string {
	names := make([]string, 0, len(n.Constants))
	for name := range n.Constants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TypeNames returns the type names in sorted order.
func (m *Model) TypeNames() []string {
	names := make([]string, 0, len(m.Types))
	for name := range m.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Merge adds the definitions of other to m. A type or namespace defined
// twice is an error naming both sources.
func (m *Model) Merge(other *Model) error {
	for name, t := range other.Types {
		if prev, ok := m.Types[name]; ok {
			return fmt.Errorf("type %q is defined in both %s and %s", name, prev.Source, t.Source)
		}
		m.Types[name] = t
	}
	for name, ns := range other.Namespaces {
		if prev, ok := m.Namespaces[name]; ok {
			return fmt.Errorf("namespace %q is defined in both %s and %s", name, prev.Source, ns.Source)
		}
		m.Namespaces[name] = ns
	}
	return nil
}
