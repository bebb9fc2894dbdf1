package field

import (
	"strconv"
	"strings"
)

// Type is the enumerated tag of a field declaration.
//
// The tag is decided once when a declaration is parsed, so that later
// stages switch on it instead of scanning declaration text.
type Type uint8

// Field types recognized in declarations.
const (
	TypeOther Type = iota
	TypeChar
	TypeText
	TypeEmail
	TypeSlug
	TypeURL
	TypeUUID
	TypeInteger
	TypeBigInteger
	TypeSmallInteger
	TypePositiveInteger
	TypeFloat
	TypeDecimal
	TypeBoolean
	TypeDate
	TypeDateTime
	TypeTime
	TypeDuration
	TypeJSON
	TypeBinary
	TypeFile
	TypeImage
	TypeAuto
	TypeBigAuto
	TypeForeignKey
	TypeOneToOne
	TypeManyToMany
	endTypes
)

// Namespace is the redundant prefix accepted in front of type names and constants.
const Namespace = "models."

var typeNames = [...]string{
	TypeOther:           "Other",
	TypeChar:            "CharField",
	TypeText:            "TextField",
	TypeEmail:           "EmailField",
	TypeSlug:            "SlugField",
	TypeURL:             "URLField",
	TypeUUID:            "UUIDField",
	TypeInteger:         "IntegerField",
	TypeBigInteger:      "BigIntegerField",
	TypeSmallInteger:    "SmallIntegerField",
	TypePositiveInteger: "PositiveIntegerField",
	TypeFloat:           "FloatField",
	TypeDecimal:         "DecimalField",
	TypeBoolean:         "BooleanField",
	TypeDate:            "DateField",
	TypeDateTime:        "DateTimeField",
	TypeTime:            "TimeField",
	TypeDuration:        "DurationField",
	TypeJSON:            "JSONField",
	TypeBinary:          "BinaryField",
	TypeFile:            "FileField",
	TypeImage:           "ImageField",
	TypeAuto:            "AutoField",
	TypeBigAuto:         "BigAutoField",
	TypeForeignKey:      "ForeignKey",
	TypeOneToOne:        "OneToOneField",
	TypeManyToMany:      "ManyToManyField",
}

// aliases maps additional declaration names onto an existing tag.
var aliases = map[string]Type{
	"PositiveSmallIntegerField": TypePositiveInteger,
	"PositiveBigIntegerField":   TypePositiveInteger,
	"NullBooleanField":          TypeBoolean,
	"SmallAutoField":            TypeAuto,
	"GenericIPAddressField":     TypeChar,
}

var byName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames)+len(aliases))
	for t := TypeChar; t < endTypes; t++ {
		m[typeNames[t]] = t
	}
	for name, t := range aliases {
		m[name] = t
	}
	return m
}()

// String returns the canonical declaration name of the type.
func (t Type) String() string {
	if t < endTypes {
		return typeNames[t]
	}
	return "Type(" + strconv.Itoa(int(t)) + ")"
}

// Valid reports whether the type is a known, non-Other tag.
func (t Type) Valid() bool {
	return t > TypeOther && t < endTypes
}

// LookupType resolves a declaration type name, with or without the namespace
// prefix. Unknown names resolve to TypeOther and false.
func LookupType(name string) (Type, bool) {
	t, ok := byName[strings.TrimPrefix(strings.TrimSpace(name), Namespace)]
	if !ok {
		return TypeOther, false
	}
	return t, true
}

// IsText reports whether fields of this type hold free text.
// Text fields are search targets and get text validation.
func (t Type) IsText() bool {
	return t == TypeChar || t == TypeText || t == TypeEmail
}

// IsFilterable reports whether fields of this type are natural list filters.
func (t Type) IsFilterable() bool {
	switch t {
	case TypeBoolean, TypeForeignKey, TypeDate, TypeDateTime, TypeTime:
		return true
	}
	return false
}

// IsRelation reports whether the type references another model.
func (t Type) IsRelation() bool {
	return t == TypeForeignKey || t == TypeOneToOne || t == TypeManyToMany
}

// IsToOne reports whether the type is a single-valued relation.
func (t Type) IsToOne() bool {
	return t == TypeForeignKey || t == TypeOneToOne
}

// IsAuto reports whether the type is an auto-increment key.
func (t Type) IsAuto() bool {
	return t == TypeAuto || t == TypeBigAuto
}

// IsTemporal reports whether the type stores a date, time or both.
func (t Type) IsTemporal() bool {
	return t == TypeDate || t == TypeDateTime || t == TypeTime
}

// IsNumeric reports whether the type stores a number.
func (t Type) IsNumeric() bool {
	switch t {
	case TypeInteger, TypeBigInteger, TypeSmallInteger, TypePositiveInteger,
		TypeFloat, TypeDecimal, TypeAuto, TypeBigAuto:
		return true
	}
	return false
}
