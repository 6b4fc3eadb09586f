// Package expand substitutes $NAME and ${NAME} references in command
// arguments.
package expand

import "strings"

// Lookup returns the value of a variable and whether it is set.
type Lookup func(name string) (string, bool)

// Map returns a Lookup over env.
func Map(env map[string]string) Lookup {
	return func(name string) (string, bool) {
		value, ok := env[name]
		return value, ok
	}
}

// String replaces $NAME and ${NAME} in s with values from lookup.
// Names are made of ASCII letters, digits and underscores.
// References to unset variables are left as written, and a reference
// preceded by a backslash is not expanded (the backslash is kept).
func String(s string, lookup Lookup) string {
	if !strings.Contains(s, "$") {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))

	for i := 0; i < len(s); {
		c := s[i]
		if c != '$' || (i > 0 && s[i-1] == '\\') {
			b.WriteByte(c)
			i++
			continue
		}

		name, width, ok := reference(s[i+1:])
		if !ok {
			b.WriteByte(c)
			i++
			continue
		}

		ref := s[i : i+1+width]
		if value, set := lookup(name); set {
			b.WriteString(value)
		} else {
			b.WriteString(ref)
		}
		i += 1 + width
	}

	return b.String()
}

// Args expands every element of args.
func Args(args []string, lookup Lookup) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = String(arg, lookup)
	}
	return out
}

// reference parses the name after a '$'. width counts the consumed bytes
// including braces.
func reference(s string) (name string, width int, ok bool) {
	if strings.HasPrefix(s, "{") {
		end := strings.IndexByte(s, '}')
		if end < 2 {
			return "", 0, false
		}
		name = s[1:end]
		if nameLen(name) != len(name) {
			return "", 0, false
		}
		return name, end + 1, true
	}

	n := nameLen(s)
	if n == 0 {
		return "", 0, false
	}
	return s[:n], n, true
}

func nameLen(s string) int {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			continue
		}
		return i
	}
	return len(s)
}
