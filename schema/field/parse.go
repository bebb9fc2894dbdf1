package field

import (
	"strings"
	"unicode"
)

// deletionPolicies are the symbolic constants rewritten to their
// namespaced form by Normalize.
var deletionPolicies = map[string]bool{
	"CASCADE":     true,
	"SET_NULL":    true,
	"PROTECT":     true,
	"RESTRICT":    true,
	"DO_NOTHING":  true,
	"SET_DEFAULT": true,
}

// IsDeletionPolicy reports whether name (with or without namespace) is a
// known deletion constant.
func IsDeletionPolicy(name string) bool {
	return deletionPolicies[strings.TrimPrefix(name, Namespace)]
}

// Parse parses a constructor-style declaration. It never fails: problems
// are recorded in the Err field and as much of the declaration as possible
// is kept.
func Parse(decl string) *Descriptor {
	d := &Descriptor{Raw: decl}
	s := strings.TrimSpace(decl)
	if s == "" {
		d.Err = &DeclarationError{Decl: decl, Message: "empty declaration"}
		return d
	}
	open := strings.IndexByte(s, '(')
	if open < 0 {
		d.Name = strings.TrimPrefix(s, Namespace)
		d.Type, _ = LookupType(d.Name)
		if !isIdent(d.Name) {
			d.Err = &DeclarationError{Decl: decl, Message: "invalid type name"}
		}
		return d
	}
	d.Name = strings.TrimPrefix(strings.TrimSpace(s[:open]), Namespace)
	d.Type, _ = LookupType(d.Name)
	if !isIdent(d.Name) {
		d.Err = &DeclarationError{Decl: decl, Message: "invalid type name"}
	}
	inner := s[open+1:]
	if !strings.HasSuffix(inner, ")") {
		if d.Err == nil {
			d.Err = &DeclarationError{Decl: decl, Message: "missing closing parenthesis"}
		}
	} else {
		inner = inner[:len(inner)-1]
	}
	tokens, balanced := splitArgs(inner)
	if !balanced && d.Err == nil {
		d.Err = &DeclarationError{Decl: decl, Message: "unbalanced quotes or brackets"}
	}
	for _, tok := range tokens {
		if key, value, ok := splitKeyword(tok); ok {
			d.Options = append(d.Options, Option{Key: key, Value: value})
			continue
		}
		if len(d.Options) > 0 && d.Err == nil {
			d.Err = &DeclarationError{Decl: decl, Message: "positional argument follows keyword argument"}
		}
		d.Args = append(d.Args, tok)
	}
	if d.Type.IsRelation() {
		target, ok := d.Arg(0)
		if !ok {
			target, ok = d.Lookup("to")
		}
		if ok {
			d.Target, d.TargetQuoted = Unquote(target)
			d.Target = strings.TrimPrefix(d.Target, Namespace)
		} else if d.Err == nil {
			d.Err = &DeclarationError{Decl: decl, Message: "relation without target"}
		}
	}
	return d
}

// Normalize returns the declaration with the namespace prefix stripped from
// the type name and deletion policies rewritten to their namespaced form.
func (d *Descriptor) Normalize() string {
	if d.Name == "" {
		return strings.TrimSpace(d.Raw)
	}
	parts := make([]string, 0, len(d.Args)+len(d.Options))
	for _, a := range d.Args {
		parts = append(parts, normalizeValue(a))
	}
	for _, o := range d.Options {
		parts = append(parts, o.Key+"="+normalizeValue(o.Value))
	}
	return d.Name + "(" + strings.Join(parts, ", ") + ")"
}

func normalizeValue(v string) string {
	if v == "" || v[0] == '\'' || v[0] == '"' {
		return v
	}
	v = strings.TrimPrefix(v, Namespace)
	if deletionPolicies[v] {
		return Namespace + v
	}
	return v
}

// Unquote strips one level of single or double quotes. The second result
// reports whether v was quoted.
func Unquote(v string) (string, bool) {
	if len(v) >= 2 {
		q := v[0]
		if (q == '\'' || q == '"') && v[len(v)-1] == q {
			inner := v[1 : len(v)-1]
			return strings.ReplaceAll(inner, `\`+string(q), string(q)), true
		}
	}
	return v, false
}

// splitArgs splits s on top-level commas. Commas inside quotes or any kind
// of bracket do not split. The second result is false when quotes or
// brackets are left open.
func splitArgs(s string) ([]string, bool) {
	var (
		out      []string
		buf      []rune
		quote    rune
		escaped  bool
		depth    int
		unclosed bool
	)
	flush := func() {
		if tok := strings.TrimSpace(string(buf)); tok != "" {
			out = append(out, tok)
		}
		buf = buf[:0]
	}
	for _, r := range s {
		switch {
		case quote != 0:
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == quote:
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '(' || r == '[' || r == '{':
			depth++
		case r == ')' || r == ']' || r == '}':
			if depth == 0 {
				unclosed = true
			} else {
				depth--
			}
		case r == ',' && depth == 0:
			flush()
			continue
		}
		buf = append(buf, r)
	}
	flush()
	return out, quote == 0 && depth == 0 && !unclosed
}

// splitKeyword splits `key=value` at the first top-level '=' that is not
// part of a comparison operator.
func splitKeyword(tok string) (string, string, bool) {
	i := strings.IndexByte(tok, '=')
	if i <= 0 || (i+1 < len(tok) && tok[i+1] == '=') {
		return "", "", false
	}
	key := strings.TrimSpace(tok[:i])
	if !isIdent(key) {
		return "", "", false
	}
	return key, strings.TrimSpace(tok[i+1:]), true
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) || (i > 0 && unicode.IsDigit(r)) {
			continue
		}
		return false
	}
	return true
}
