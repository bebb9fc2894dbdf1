package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/crudgen/schema/field"
)

func TestField_ValidatorRules(t *testing.T) {
	tests := []struct {
		name       string
		validators []string
		want       []string
	}{
		{"none", nil, nil},
		{"positional", []string{"MinValueValidator(1)", "MaxValueValidator(99)"}, []string{"min=1", "max=99"}},
		{"keyword", []string{"MaxLengthValidator(limit_value=140)"}, []string{"max=140"}},
		{"fixed", []string{"EmailValidator()", "URLValidator()"}, []string{"email", "url"}},
		{"decimal", []string{"MinValueValidator(0.5)"}, []string{"min=0.5"}},
		{"non numeric", []string{"MinValueValidator(limit)"}, nil},
		{"unsupported", []string{"RegexValidator('^a')", "MinLengthValidator(2)"}, []string{"min=2"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := field.Parse("IntegerField()")
			for _, v := range tt.validators {
				d.Validators = append(d.Validators, field.Parse(v))
			}
			f := &Field{Name: "n", Type: d.Type, Desc: d}
			assert.Equal(t, tt.want, f.ValidatorRules())
		})
	}
}
