package wrapgen

import (
	"fmt"
	"strings"

	"github.com/vk/scriptui/internal/codec"
)

const (
	MaxArgs    = 4
	MaxReturns = 4
)

// Kind is how an operation receives its receiver.
type Kind int

const (
	KindFree Kind = iota
	KindMethod
	KindMutMethod
	KindConsume
)

func ParseKind(s string) (Kind, error) {
	switch strings.TrimSpace(s) {
	case "f":
		return KindFree, nil
	case "m":
		return KindMethod, nil
	case "mm":
		return KindMutMethod, nil
	case "ms":
		return KindConsume, nil
	}
	return 0, fmt.Errorf("unknown kind %q (want f, m, mm or ms)", s)
}

func (k Kind) String() string {
	switch k {
	case KindFree:
		return "f"
	case KindMethod:
		return "m"
	case KindMutMethod:
		return "mm"
	case KindConsume:
		return "ms"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// HasReceiver reports whether the first script argument is the receiver.
func (k Kind) HasReceiver() bool { return k != KindFree }

// Directive is how an argument is passed to the handler.
type Directive int

const (
	DirMove Directive = iota
	DirRef
	DirClone
	DirCustom
)

func (d Directive) String() string {
	switch d {
	case DirMove:
		return "move"
	case DirRef:
		return "ref"
	case DirClone:
		return "clone"
	case DirCustom:
		return "custom"
	}
	return fmt.Sprintf("directive(%d)", int(d))
}

// ParseDirective parses "move", "ref", "clone" or "custom=<hook>". An empty
// string is move.
func ParseDirective(s string) (Directive, string, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "" || s == "move":
		return DirMove, "", nil
	case s == "ref":
		return DirRef, "", nil
	case s == "clone":
		return DirClone, "", nil
	case s == "custom":
		return DirCustom, "", nil
	case strings.HasPrefix(s, "custom="):
		return DirCustom, strings.TrimSpace(strings.TrimPrefix(s, "custom=")), nil
	}
	return 0, "", fmt.Errorf("unknown directive %q", s)
}

// Arg is one declared argument.
type Arg struct {
	Type      codec.TypeRef
	Directive Directive
	// Hook names the decoder of a custom argument.
	Hook string
}

// Descriptor declares one script-visible operation.
type Descriptor struct {
	Kind Kind
	// Receiver is the receiver type for methods, or the namespace of a free
	// function.
	Receiver string
	Name     string
	// Handler is the registry name of the Go function. Empty means
	// "<receiver>.<name>".
	Handler  string
	Args     []Arg
	Returns  []codec.TypeRef
	Override string
}

// Operation is the script-facing name used in error messages.
func (d Descriptor) Operation() string {
	if d.Receiver == "" {
		return d.Name
	}
	return d.Receiver + "." + d.Name
}

// HandlerName is the registry name of the Go function bound to d.
func (d Descriptor) HandlerName() string {
	if d.Handler != "" {
		return d.Handler
	}
	return d.Operation()
}

// DescriptorError reports a descriptor that cannot be generated.
type DescriptorError struct {
	Operation string
	Reason    string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("descriptor %s: %s", e.Operation, e.Reason)
}

func (d Descriptor) errorf(format string, args ...any) *DescriptorError {
	return &DescriptorError{Operation: d.Operation(), Reason: fmt.Sprintf(format, args...)}
}

// Validate checks the shape of d without looking at any handler.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return d.errorf("missing name")
	}
	if d.Kind < KindFree || d.Kind > KindConsume {
		return d.errorf("unknown kind %d", int(d.Kind))
	}
	if d.Kind.HasReceiver() && d.Receiver == "" {
		return d.errorf("%s method needs a receiver type", d.Kind)
	}
	if len(d.Args) > MaxArgs {
		return d.errorf("%d arguments exceed the maximum of %d", len(d.Args), MaxArgs)
	}
	if len(d.Returns) > MaxReturns {
		return d.errorf("%d returns exceed the maximum of %d", len(d.Returns), MaxReturns)
	}
	for i, a := range d.Args {
		if a.Directive < DirMove || a.Directive > DirCustom {
			return d.errorf("argument %d: unknown directive %d", i+1, int(a.Directive))
		}
		if a.Directive == DirCustom && a.Hook == "" {
			return d.errorf("argument %d: custom directive needs a hook name", i+1)
		}
		if a.Directive != DirCustom && a.Hook != "" {
			return d.errorf("argument %d: hook %q given for %s directive", i+1, a.Hook, a.Directive)
		}
		if a.Type.Name == "" {
			return d.errorf("argument %d: missing type", i+1)
		}
	}
	return nil
}

func (d Descriptor) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s ; %s", d.Kind, d.Name)
	if len(d.Args) > 0 || len(d.Returns) > 0 {
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = a.Type.String()
			switch a.Directive {
			case DirCustom:
				args[i] += " custom=" + a.Hook
			case DirRef, DirClone:
				args[i] += " " + a.Directive.String()
			}
		}
		fmt.Fprintf(&b, " ; %s", strings.Join(args, ", "))
	}
	if len(d.Returns) > 0 {
		rets := make([]string, len(d.Returns))
		for i, r := range d.Returns {
			rets[i] = r.String()
		}
		fmt.Fprintf(&b, " ; %s", strings.Join(rets, ", "))
	}
	if d.Override != "" {
		fmt.Fprintf(&b, " ; override=%s", d.Override)
	}
	return b.String()
}
