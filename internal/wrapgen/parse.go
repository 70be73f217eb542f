package wrapgen

import (
	"fmt"
	"strings"

	"github.com/vk/scriptui/internal/codec"
)

// ParseLine parses one descriptor line for methods of receiver.
func ParseLine(receiver, line string) (Descriptor, error) {
	d := Descriptor{Receiver: receiver}
	fail := func(format string, args ...any) (Descriptor, error) {
		op := receiver
		if d.Name != "" {
			op = d.Operation()
		}
		return Descriptor{}, &DescriptorError{Operation: op, Reason: fmt.Sprintf(format, args...)}
	}

	parts := strings.Split(line, ";")
	if n := len(parts); n > 0 && strings.HasPrefix(strings.TrimSpace(parts[n-1]), "override=") {
		d.Override = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(parts[n-1]), "override="))
		parts = parts[:n-1]
	}
	if len(parts) < 2 || len(parts) > 4 {
		return fail("line %q: want 'kind ; name [; args [; rets]]'", line)
	}

	d.Name = strings.TrimSpace(parts[1])
	kind, err := ParseKind(parts[0])
	if err != nil {
		return fail("%v", err)
	}
	d.Kind = kind

	if len(parts) > 2 {
		for _, src := range splitTopLevel(parts[2]) {
			arg, err := parseArg(src)
			if err != nil {
				return fail("%v", err)
			}
			d.Args = append(d.Args, arg)
		}
	}
	if len(parts) > 3 {
		for _, src := range splitTopLevel(parts[3]) {
			t, err := codec.ParseType(src)
			if err != nil {
				return fail("%v", err)
			}
			d.Returns = append(d.Returns, t)
		}
	}
	if err := d.Validate(); err != nil {
		return Descriptor{}, err
	}
	return d, nil
}

// ParseLines parses a list of descriptor lines. Blank lines and lines
// starting with # are skipped.
func ParseLines(receiver string, lines []string) ([]Descriptor, error) {
	var out []Descriptor
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		d, err := ParseLine(receiver, trimmed)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

func parseArg(src string) (Arg, error) {
	src = strings.TrimSpace(src)
	typeSrc, dirSrc := src, ""
	if i := lastTopLevelSpace(src); i >= 0 {
		tail := strings.TrimSpace(src[i+1:])
		if _, _, err := ParseDirective(tail); err == nil {
			typeSrc, dirSrc = src[:i], tail
		}
	}
	t, err := codec.ParseType(typeSrc)
	if err != nil {
		return Arg{}, err
	}
	dir, hook, err := ParseDirective(dirSrc)
	if err != nil {
		return Arg{}, err
	}
	return Arg{Type: t, Directive: dir, Hook: hook}, nil
}

// splitTopLevel splits s on commas that are not inside parentheses. An
// empty or "-" section has no items.
func splitTopLevel(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" {
		return nil
	}
	var out []string
	depth, start := 0, 0
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, strings.TrimSpace(s[start:i]))
				start = i + 1
			}
		}
	}
	return append(out, strings.TrimSpace(s[start:]))
}

func lastTopLevelSpace(s string) int {
	depth := 0
	last := -1
	for i, r := range s {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		case ' ', '\t':
			if depth == 0 {
				last = i
			}
		}
	}
	return last
}
