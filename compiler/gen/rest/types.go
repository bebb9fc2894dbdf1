package rest

import (
	"strconv"
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/schema/field"
)

// baseType returns the Go type of a scalar field, without pointer.
func baseType(f *gen.Field) *jen.Statement {
	switch f.Type {
	case field.TypeInteger:
		return jen.Int()
	case field.TypeBigInteger:
		return jen.Int64()
	case field.TypeSmallInteger:
		return jen.Int16()
	case field.TypePositiveInteger, field.TypeAuto:
		return jen.Uint()
	case field.TypeBigAuto:
		return jen.Uint64()
	case field.TypeFloat, field.TypeDecimal:
		return jen.Float64()
	case field.TypeBoolean:
		return jen.Bool()
	case field.TypeDate, field.TypeDateTime, field.TypeTime:
		return jen.Qual("time", "Time")
	case field.TypeDuration:
		return jen.Qual("time", "Duration")
	case field.TypeJSON:
		return jen.Qual("encoding/json", "RawMessage")
	case field.TypeBinary:
		return jen.Index().Byte()
	default:
		return jen.String()
	}
}

// nilable reports whether the Go type of the field already has a nil value.
func nilable(f *gen.Field) bool {
	return f.Type == field.TypeJSON || f.Type == field.TypeBinary
}

// pointer reports whether the field is held by pointer.
func pointer(f *gen.Field) bool {
	return f.Nullable() && !nilable(f)
}

// goType returns the Go type of a scalar field.
func goType(f *gen.Field) *jen.Statement {
	if pointer(f) {
		return jen.Op("*").Add(baseType(f))
	}
	return baseType(f)
}

// keyType returns the Go type of the key member of a relation.
func keyType(f *gen.Field) *jen.Statement {
	switch {
	case f.IsToMany():
		return jen.Index().Uint()
	case f.Nullable():
		return jen.Op("*").Uint()
	default:
		return jen.Uint()
	}
}

// gormTag returns the gorm tag of a scalar field or of the key member of a
// to-one relation.
func gormTag(f *gen.Field) string {
	parts := []string{"column:" + f.Column()}
	if n, ok := f.MaxLength(); ok && n > 0 && baseTypeIsString(f) {
		parts = append(parts, "size:"+strconv.Itoa(n))
	}
	if f.Type == field.TypeDecimal {
		if t, ok := decimalType(f); ok {
			parts = append(parts, "type:"+t)
		}
	}
	if f.IsUnique() || f.Type == field.TypeOneToOne {
		parts = append(parts, "uniqueIndex")
	}
	if f.Desc.Indexed() {
		parts = append(parts, "index")
	}
	for _, name := range f.Indexes() {
		parts = append(parts, "index:"+name)
	}
	for _, name := range f.Uniques() {
		parts = append(parts, "uniqueIndex:"+name)
	}
	if v, ok := defaultValue(f); ok {
		parts = append(parts, "default:"+v)
	}
	if f.Type.IsAuto() {
		parts = append(parts, "autoIncrement")
	}
	if !f.Nullable() && !f.Type.IsAuto() {
		parts = append(parts, "not null")
	}
	switch {
	case f.Desc.AutoNowAdd():
		parts = append(parts, "autoCreateTime")
	case f.Desc.AutoNow():
		parts = append(parts, "autoUpdateTime")
	}
	return strings.Join(parts, ";")
}

// relationTag returns the gorm tag of the struct member holding the related
// entity of an in-schema relation.
func relationTag(f *gen.Field) string {
	if f.IsToMany() {
		return "many2many:" + f.Owner().Table() + "_" + f.Name
	}
	tag := "foreignKey:" + f.KeyField()
	if c := f.Rel.Constraint(); c != "" {
		tag += ";constraint:OnDelete:" + c
	}
	return tag
}

func baseTypeIsString(f *gen.Field) bool {
	switch f.Type {
	case field.TypeChar, field.TypeText, field.TypeEmail, field.TypeSlug, field.TypeURL,
		field.TypeUUID, field.TypeFile, field.TypeImage, field.TypeOther:
		return true
	}
	return false
}

func decimalType(f *gen.Field) (string, bool) {
	digits, ok := f.Desc.Int("max_digits")
	if !ok {
		return "", false
	}
	places, _ := f.Desc.Int("decimal_places")
	return "decimal(" + strconv.Itoa(digits) + "," + strconv.Itoa(places) + ")", true
}

// defaultValue returns the declared default in gorm tag form. Defaults that
// are not literals, such as callables, have no column default.
func defaultValue(f *gen.Field) (string, bool) {
	raw, ok := f.Desc.Default()
	if !ok {
		return "", false
	}
	v, quoted := field.Unquote(raw)
	if !quoted {
		switch v {
		case "True":
			v = "true"
		case "False":
			v = "false"
		default:
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				return "", false
			}
		}
	}
	if v == "" || strings.ContainsAny(v, ";\"`\n") {
		return "", false
	}
	return v, true
}

// comment returns the normalized declaration of the field as a single line.
func comment(f *gen.Field) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(f.Decl())
}

// tags builds a struct tag map, dropping empty values.
func tags(kv ...string) map[string]string {
	m := make(map[string]string, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if kv[i+1] != "" {
			m[kv[i]] = kv[i+1]
		}
	}
	return m
}

// embeds reports whether the relation field embeds the related entity.
func embeds(f *gen.Field) bool {
	return f.IsRelation() && !f.Rel.External()
}

// relatedName returns the related model name of a relation field.
func relatedName(f *gen.Field) string {
	return f.Rel.Type.Name
}
