package gen

import (
	"slices"
	"strings"

	"github.com/syssam/crudgen/schema/field"
)

// displayNames are the conventional identity field names.
var displayNames = []string{"name", "title", "username", "email"}

// Owner returns the type the field belongs to.
func (f Field) Owner() *Type { return f.typ }

// helperMembers are the methods generated on entities and serializers.
var helperMembers = []string{"TableName", "String", "URLSlug", "ToRepresentation", "ApplyTo"}

// StructField returns the struct member name of the field. Names taken by
// a generated method get the "Value" suffix: a field named string is held
// by StringValue. The column and the JSON key keep the field name.
func (f Field) StructField() string {
	name := pascal(f.Name)
	if slices.Contains(helperMembers, name) {
		name += "Value"
	}
	return name
}

// Column returns the column of the field. Relations store their key in
// the "<name>_id" column.
func (f Field) Column() string {
	if f.IsToOne() {
		return f.Name + "_id"
	}
	return f.Name
}

// KeyField returns the struct member holding the key of a relation:
// "GuildID" for a to-one relation named guild, "ItemIDs" for a to-many
// relation named items.
func (f Field) KeyField() string {
	if f.IsToMany() {
		return pascal(rules.Singularize(f.Name)) + "IDs"
	}
	return pascal(f.Name) + "ID"
}

// KeyJSON returns the JSON key of the relation key member.
func (f Field) KeyJSON() string {
	if f.IsToMany() {
		return rules.Singularize(f.Name) + "_ids"
	}
	return f.Name + "_id"
}

// Decl returns the normalized declaration of the field.
func (f Field) Decl() string { return f.Desc.Normalize() }

// HelpText returns the help text of the field, if any.
func (f Field) HelpText() string { return f.Desc.HelpText() }

// IsText reports if the field holds free text (char, text or email).
func (f Field) IsText() bool { return f.Type.IsText() }

// IsFilterable reports if the field is a natural list filter (boolean,
// foreign key, date or time).
func (f Field) IsFilterable() bool { return f.Type.IsFilterable() }

// IsReadOnlyCandidate reports if the field is an auto-populated timestamp.
func (f Field) IsReadOnlyCandidate() bool { return f.Desc.AutoNow() || f.Desc.AutoNowAdd() }

// AutoPopulated reports if the field value is managed by the store.
func (f Field) AutoPopulated() bool { return f.IsReadOnlyCandidate() || f.Type.IsAuto() }

// IsRelation reports if the field references another model.
func (f Field) IsRelation() bool { return f.Rel != nil }

// IsToOne reports if the field is a foreign key or one-to-one relation.
func (f Field) IsToOne() bool { return f.Rel != nil && f.Rel.ToOne() }

// IsToMany reports if the field is a many-to-many relation.
func (f Field) IsToMany() bool { return f.Rel != nil && !f.Rel.ToOne() }

// IsRequired reports if the field must be set. Fields are required unless
// declared null=True.
func (f Field) IsRequired() bool { return !f.Desc.Null() }

// Nullable reports if the field accepts NULL.
func (f Field) Nullable() bool { return f.Desc.Null() }

// IsUnique reports if the field is declared unique.
func (f Field) IsUnique() bool { return f.Desc.Unique() }

// IsDisplayCandidate reports if the field can represent an instance: a text
// field that is unique or has a conventional identity name.
func (f Field) IsDisplayCandidate() bool {
	return f.IsText() && (f.IsUnique() || slices.Contains(displayNames, f.Name))
}

// ExpectsAt reports if the field value should contain an "@".
func (f Field) ExpectsAt() bool {
	return f.Type == field.TypeEmail || (f.IsText() && strings.Contains(f.Name, "email"))
}

// MaxLength returns the declared max length.
func (f Field) MaxLength() (int, bool) { return f.Desc.MaxLength() }

// Indexes returns the names of the composite indexes the field is part of.
func (f Field) Indexes() []string { return f.indexes }

// Uniques returns the names of the unique sets the field is part of.
func (f Field) Uniques() []string { return f.uniques }

// Validators returns the declared validators of the structured form.
func (f Field) Validators() []*field.Descriptor { return f.Desc.Validators }
