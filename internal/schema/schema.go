package schema

import "github.com/hashicorp/hcl/v2"

// --- Binding Manifest Schemas ---

// ArgBlock declares one argument of a method.
type ArgBlock struct {
	Type      hcl.Expression `hcl:"type"`
	Directive string         `hcl:"directive,optional"`
	Hook      string         `hcl:"hook,optional"`
}

// MethodBlock represents a `method` block inside a type. Returns is a tuple
// of type expressions.
type MethodBlock struct {
	Name        string         `hcl:"name,label"`
	Kind        string         `hcl:"kind"`
	Handler     string         `hcl:"handler,optional"`
	Override    string         `hcl:"override,optional"`
	Description string         `hcl:"description,optional"`
	Args        []*ArgBlock    `hcl:"arg,block"`
	Returns     hcl.Expression `hcl:"returns,optional"`
}

// FieldBlock represents a read-only `field` of a value type.
type FieldBlock struct {
	Name    string         `hcl:"name,label"`
	Handler string         `hcl:"handler,optional"`
	Type    hcl.Expression `hcl:"type"`
}

// TypeBlock represents a `type` block: one host type and its operations.
// Wrap holds descriptor lines in the compact grammar.
type TypeBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Namespace   string         `hcl:"namespace,optional"`
	Methods     []*MethodBlock `hcl:"method,block"`
	Fields      []*FieldBlock  `hcl:"field,block"`
	Wrap        []string       `hcl:"wrap,optional"`
}

// NamespaceBlock represents a `namespace` block of constants.
type NamespaceBlock struct {
	Name        string         `hcl:"name,label"`
	Description string         `hcl:"description,optional"`
	Constants   hcl.Expression `hcl:"constants,optional"`
}

// ManifestFile represents the top-level structure of a binding manifest.
type ManifestFile struct {
	Types      []*TypeBlock      `hcl:"type,block"`
	Namespaces []*NamespaceBlock `hcl:"namespace,block"`
	Body       hcl.Body          `hcl:",remain"`
}
