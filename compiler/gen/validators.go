package gen

import (
	"strconv"

	"github.com/syssam/crudgen/schema/field"
)

// validatorTags maps declared validators to binding tag rules.
var validatorTags = map[string]func(arg string) (string, bool){
	"MinValueValidator":  numericRule("min"),
	"MaxValueValidator":  numericRule("max"),
	"MinLengthValidator": numericRule("min"),
	"MaxLengthValidator": numericRule("max"),
	"EmailValidator":     fixedRule("email"),
	"URLValidator":       fixedRule("url"),
}

func numericRule(name string) func(string) (string, bool) {
	return func(arg string) (string, bool) {
		if _, err := strconv.ParseFloat(arg, 64); err != nil {
			return "", false
		}
		return name + "=" + arg, true
	}
}

func fixedRule(name string) func(string) (string, bool) {
	return func(string) (string, bool) { return name, true }
}

// ValidatorRules returns the binding rules of the declared validators, in
// declaration order. Validators without a rule are skipped.
func (f Field) ValidatorRules() []string {
	var rules []string
	for _, v := range f.Desc.Validators {
		rule, ok := validatorRule(v)
		if ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

func validatorRule(v *field.Descriptor) (string, bool) {
	fn, ok := validatorTags[v.Name]
	if !ok {
		return "", false
	}
	arg, _ := v.Arg(0)
	if arg == "" {
		arg, _ = v.Lookup("limit_value")
	}
	return fn(arg)
}
