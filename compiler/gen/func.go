package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"github.com/iancoleman/strcase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	rules    = ruleset()
	acronyms = make(map[string]struct{})
	titler   = cases.Title(language.English)
)

// Pluralize returns the route form of a model name: the lowercased name
// with "ies" for a consonant followed by "y", "es" after a trailing "s",
// and "s" otherwise.
func Pluralize(name string) string {
	return plural(strings.ToLower(name))
}

// plural applies the route pluralization rule to s, keeping its case.
//
//	Category    => Categories
//	Class       => Classes
//	GuildMember => GuildMembers
func plural(s string) string {
	switch n := len(s); {
	case n == 0:
		return s
	case n > 1 && (s[n-1] == 'y' || s[n-1] == 'Y') && !isVowel(rune(s[n-2])):
		return s[:n-1] + "ies"
	case s[n-1] == 's' || s[n-1] == 'S':
		return s + "es"
	default:
		return s + "s"
	}
}

func isVowel(r rune) bool {
	return strings.ContainsRune("aeiouAEIOU", r)
}

// DisplayName splits an identifier into title-cased words:
// "GuildMember" and "guild_member" both become "Guild Member".
func DisplayName(name string) string {
	return titler.String(strings.ReplaceAll(snake(name), "_", " "))
}

// PluralDisplayName pluralizes the last word of a display name.
func PluralDisplayName(display string) string {
	words := strings.Fields(display)
	if len(words) == 0 {
		return display
	}
	words[len(words)-1] = rules.Pluralize(words[len(words)-1])
	return strings.Join(words, " ")
}

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		acronyms[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// AddAcronym adds a new acronym to the pascal conversion rules.
func AddAcronym(word string) {
	upper := strings.ToUpper(word)
	acronyms[upper] = struct{}{}
	rules.AddAcronym(upper)
}

func pascalWords(words []string) string {
	for i, w := range words {
		upper := strings.ToUpper(w)
		if _, ok := acronyms[upper]; ok {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// pascal converts the given name into a PascalCase.
//
//	user_info 	=> UserInfo
//	full_name 	=> FullName
//	user_id   	=> UserID
//	full-admin	=> FullAdmin
func pascal(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	return pascalWords(words)
}

// Pascal converts the given name into PascalCase, the way generated member
// names are derived.
func Pascal(s string) string { return pascal(s) }

// snake converts the given identifier into snake_case.
//
//	Username    => username
//	GuildMember => guild_member
//	HTTPCode    => http_code
func snake(s string) string {
	return strcase.ToSnake(s)
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}
