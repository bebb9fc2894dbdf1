package gen

// Relation describes the target of a relation field.
type Relation struct {
	// Target is the related model name. "self" is resolved to the owner.
	Target string
	// Type is the related type, nil for targets outside the schema.
	Type *Type
	// Many is set for many-to-many relations.
	Many bool
	// OnDelete is the deletion policy without namespace, e.g. "CASCADE".
	OnDelete string
	// Quoted reports whether the target was declared as a string literal.
	Quoted bool

	owner *Type
}

// ToOne reports whether the relation holds a single key.
func (r Relation) ToOne() bool { return !r.Many }

// External reports whether the target is not a model of the schema.
func (r Relation) External() bool { return r.Type == nil }

// Self reports whether the relation targets its own model.
func (r Relation) Self() bool { return r.owner != nil && r.Target == r.owner.Name }

// Constraint returns the GORM OnDelete constraint of the policy, or "" when
// the policy has no database-level equivalent.
func (r Relation) Constraint() string {
	switch r.OnDelete {
	case "CASCADE":
		return "CASCADE"
	case "SET_NULL":
		return "SET NULL"
	case "PROTECT", "RESTRICT":
		return "RESTRICT"
	case "SET_DEFAULT":
		return "SET DEFAULT"
	default:
		return ""
	}
}
