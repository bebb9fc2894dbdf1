package rest

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/crudgen/compiler/gen"
)

// nesting selects how a serializer embeds the serializers of related models.
type nesting uint8

const (
	// nestNone exposes relation keys only.
	nestNone nesting = iota
	// nestDepth embeds related serializers while the depth argument of the
	// builder is positive.
	nestDepth
	// nestFlat embeds related serializers built at depth 0.
	nestFlat
)

// serializer describes one generated serializer type of a model.
type serializer struct {
	t      *gen.Type
	name   string
	fields []*gen.Field
	// id exposes the primary key.
	id   bool
	nest nesting
	// input marks the create/update variant: binding tags, no primary key.
	input bool
	// rules adds the binding rules of declared validators.
	rules bool
}

func (s serializer) nests(fd *gen.Field) bool {
	switch s.nest {
	case nestDepth:
		return s.t.Nests(fd)
	case nestFlat:
		return embeds(fd)
	default:
		return false
	}
}

// genSerializers generates the serializer file (serializers.go).
func genSerializers(g *gen.Graph) *jen.File {
	f := newFile(g)
	variants := g.HasFeature(gen.FeatureVariants.Name)
	rules := g.HasFeature(gen.FeatureValidators.Name)
	for _, t := range g.Order() {
		base := serializer{t: t, name: t.SerializerName(), fields: t.SerializerFields, id: true, nest: nestDepth}
		genSerializerStruct(f, base)
		genSerializerBuild(f, base)
		genSerializerRepresentation(f, base)
		genSerializerApply(f, base, func(fd *gen.Field) bool { return !t.ReadOnly(fd) })
		genSerializerValidate(f, base)
		if variants {
			list := serializer{t: t, name: t.ListSerializerName(), fields: t.ListFields(), id: true}
			genSerializerStruct(f, list)
			genSerializerBuild(f, list)
			genSerializerRepresentation(f, list)
			if t.HasRelations() {
				nested := serializer{t: t, name: t.NestedSerializerName(), fields: t.SerializerFields, id: true, nest: nestFlat}
				genSerializerStruct(f, nested)
				genSerializerBuild(f, nested)
				genSerializerRepresentation(f, nested)
			}
			input := serializer{t: t, name: t.CreateUpdateSerializerName(), fields: t.CreateUpdateFields(), input: true, rules: rules}
			genSerializerStruct(f, input)
			genSerializerBuild(f, input)
			genSerializerApply(f, input, func(*gen.Field) bool { return true })
			genSerializerValidate(f, input)
		}
		genValidationHooks(f, t)
	}
	genRepresentations(f)
	genRequired(f)
	return f
}

// genSerializerStruct generates the serializer struct.
func genSerializerStruct(f *jen.File, s serializer) {
	t := s.t
	switch {
	case s.input:
		f.Commentf("%s is the create and update serializer of %s. Auto-populated", s.name, t.Name)
		f.Comment("and read-only fields are not part of it.")
	case s.name == t.SerializerName():
		f.Commentf("%s is the default serializer of %s.", s.name, t.Name)
	default:
		f.Commentf("%s is a serializer variant of %s.", s.name, t.Name)
	}
	f.Type().Id(s.name).StructFunc(func(group *jen.Group) {
		if s.id {
			group.Id("ID").Uint().Tag(tags("json", "id"))
		}
		for _, fd := range s.fields {
			json := fd.Name
			if t.WriteOnly(fd) {
				json += ",omitempty"
			}
			switch {
			case fd.IsRelation():
				key := fd.KeyJSON()
				binding := ""
				if s.input && fd.IsToOne() && fd.IsRequired() {
					binding = "required"
				}
				group.Id(fd.KeyField()).Add(keyType(fd)).Tag(tags("json", key, "binding", binding))
				if s.nests(fd) {
					member := group.Id(fd.StructField())
					if fd.IsToMany() {
						member.Index()
					}
					member.Op("*").Id(fd.Rel.Type.SerializerName()).Tag(tags("json", fd.Name+",omitempty"))
				}
			default:
				binding := ""
				if s.rules {
					binding = bindingRules(fd)
				}
				group.Id(fd.StructField()).Add(goType(fd)).Tag(tags("json", json, "binding", binding))
			}
		}
	})
}

// bindingRules returns the binding tag of the declared validators.
func bindingRules(fd *gen.Field) string {
	rules := fd.ValidatorRules()
	if len(rules) == 0 {
		return ""
	}
	if pointer(fd) {
		rules = append([]string{"omitempty"}, rules...)
	}
	return strings.Join(rules, ",")
}

// genSerializerBuild generates the constructors building the serializer
// from an entity.
func genSerializerBuild(f *jen.File, s serializer) {
	t := s.t
	ctor := "New" + s.name
	model := jen.Id("m").Op("*").Id(t.Name)
	if s.nest == nestDepth {
		builder := "new" + s.name
		f.Commentf("%s returns the serializer of m, nesting related models up to depth %d.", ctor, t.Depth)
		f.Func().Id(ctor).Params(model).Op("*").Id(s.name).Block(
			jen.Return(jen.Id(builder).Call(jen.Id("m"), jen.Lit(t.Depth))),
		)
		f.Commentf("%s builds the serializer of m with the given nesting depth.", builder)
		f.Func().Id(builder).Params(model.Clone(), jen.Id("depth").Int()).Op("*").Id(s.name).BlockFunc(func(b *jen.Group) {
			genBuildBody(b, s)
		})
		return
	}
	f.Commentf("%s returns the %s of m.", ctor, s.name)
	f.Func().Id(ctor).Params(model).Op("*").Id(s.name).BlockFunc(func(b *jen.Group) {
		genBuildBody(b, s)
	})
}

func genBuildBody(b *jen.Group, s serializer) {
	b.If(jen.Id("m").Op("==").Nil()).Block(jen.Return(jen.Nil()))
	b.Id("s").Op(":=").Op("&").Id(s.name).Values(jen.DictFunc(func(d jen.Dict) {
		if s.id {
			d[jen.Id("ID")] = jen.Id("m").Dot("ID")
		}
		for _, fd := range s.fields {
			switch {
			case fd.IsToOne():
				d[jen.Id(fd.KeyField())] = jen.Id("m").Dot(fd.KeyField())
			case fd.IsToMany() && !embeds(fd):
				d[jen.Id(fd.KeyField())] = jen.Id("m").Dot(fd.KeyField())
			case !fd.IsRelation():
				d[jen.Id(fd.StructField())] = jen.Id("m").Dot(fd.StructField())
			}
		}
	}))
	for _, fd := range s.fields {
		if !fd.IsRelation() {
			continue
		}
		nested := s.nests(fd)
		related := jen.Id("new" + relatedSerializer(fd))
		depth := jen.Lit(0)
		if s.nest == nestDepth {
			depth = jen.Id("depth").Op("-").Lit(1)
		}
		switch {
		case fd.IsToOne() && nested:
			cond := jen.Id("m").Dot(fd.StructField()).Op("!=").Nil()
			if s.nest == nestDepth {
				cond = jen.Id("depth").Op(">").Lit(0).Op("&&").Add(cond)
			}
			b.If(cond).Block(
				jen.Id("s").Dot(fd.StructField()).Op("=").Add(related).Call(jen.Id("m").Dot(fd.StructField()), depth),
			)
		case fd.IsToMany() && embeds(fd):
			b.For(jen.Id("i").Op(":=").Range().Id("m").Dot(fd.StructField())).BlockFunc(func(loop *jen.Group) {
				item := jen.Op("&").Id("m").Dot(fd.StructField()).Index(jen.Id("i"))
				loop.Id("s").Dot(fd.KeyField()).Op("=").Append(jen.Id("s").Dot(fd.KeyField()), jen.Id("m").Dot(fd.StructField()).Index(jen.Id("i")).Dot("ID"))
				if !nested {
					return
				}
				add := jen.Id("s").Dot(fd.StructField()).Op("=").Append(jen.Id("s").Dot(fd.StructField()), related.Call(item, depth))
				if s.nest == nestDepth {
					loop.If(jen.Id("depth").Op(">").Lit(0)).Block(add)
				} else {
					loop.Add(add)
				}
			})
		}
	}
	b.Return(jen.Id("s"))
}

func relatedSerializer(fd *gen.Field) string {
	if fd.Rel == nil || fd.Rel.Type == nil {
		return ""
	}
	return fd.Rel.Type.SerializerName()
}

// genSerializerRepresentation generates ToRepresentation. Write-only
// fields are omitted.
func genSerializerRepresentation(f *jen.File, s serializer) {
	t := s.t
	recv := jen.Id("s").Op("*").Id(s.name)
	f.Comment("ToRepresentation returns the response representation of the serializer.")
	f.Func().Params(recv).Id("ToRepresentation").Params().Map(jen.String()).Any().BlockFunc(func(b *jen.Group) {
		b.If(jen.Id("s").Op("==").Nil()).Block(jen.Return(jen.Nil()))
		b.Id("out").Op(":=").Map(jen.String()).Any().Values(jen.DictFunc(func(d jen.Dict) {
			if s.id {
				d[jen.Lit("id")] = jen.Id("s").Dot("ID")
			}
			for _, fd := range s.fields {
				if t.WriteOnly(fd) {
					continue
				}
				if fd.IsRelation() {
					d[jen.Lit(fd.KeyJSON())] = jen.Id("s").Dot(fd.KeyField())
					continue
				}
				d[jen.Lit(fd.Name)] = jen.Id("s").Dot(fd.StructField())
			}
		}))
		for _, fd := range s.fields {
			if t.WriteOnly(fd) || !fd.IsRelation() || !s.nests(fd) {
				continue
			}
			member := jen.Id("s").Dot(fd.StructField())
			value := member.Clone().Dot("ToRepresentation").Call()
			if fd.IsToMany() {
				value = jen.Id("representations").Call(member.Clone())
			}
			b.If(member.Clone().Op("!=").Nil()).Block(
				jen.Id("out").Index(jen.Lit(fd.Name)).Op("=").Add(value),
			)
		}
		b.Return(jen.Id("out"))
	})
}

// genSerializerApply generates ApplyTo, copying the writable members to an
// entity. Nested serializers are never applied.
func genSerializerApply(f *jen.File, s serializer, writable func(*gen.Field) bool) {
	t := s.t
	f.Comment("ApplyTo copies the writable members of the serializer to m.")
	f.Func().Params(jen.Id("s").Op("*").Id(s.name)).Id("ApplyTo").Params(jen.Id("m").Op("*").Id(t.Name)).BlockFunc(func(b *jen.Group) {
		for _, fd := range s.fields {
			if !writable(fd) {
				continue
			}
			switch {
			case fd.IsToOne():
				b.Id("m").Dot(fd.KeyField()).Op("=").Id("s").Dot(fd.KeyField())
				if embeds(fd) {
					b.Id("m").Dot(fd.StructField()).Op("=").Nil()
				}
			case fd.IsToMany() && embeds(fd):
				b.Id("m").Dot(fd.StructField()).Op("=").Make(jen.Index().Id(relatedName(fd)), jen.Len(jen.Id("s").Dot(fd.KeyField())))
				b.For(jen.List(jen.Id("i"), jen.Id("id")).Op(":=").Range().Id("s").Dot(fd.KeyField())).Block(
					jen.Id("m").Dot(fd.StructField()).Index(jen.Id("i")).Dot("ID").Op("=").Id("id"),
				)
			case fd.IsToMany():
				b.Id("m").Dot(fd.KeyField()).Op("=").Id("s").Dot(fd.KeyField())
			default:
				b.Id("m").Dot(fd.StructField()).Op("=").Id("s").Dot(fd.StructField())
			}
		}
	})
}

// hooked reports whether the field has a validation hook.
func hooked(fd *gen.Field) bool {
	return !fd.IsRelation() && (fd.ExpectsAt() || (fd.IsText() && fd.IsUnique()))
}

func hookName(t *gen.Type, fd *gen.Field) string {
	return "validate" + t.Name + fd.StructField()
}

// genSerializerValidate generates Validate, joining the field hooks and, for
// the create/update variant, the required relation checks.
func genSerializerValidate(f *jen.File, s serializer) {
	t := s.t
	var checks []jen.Code
	for _, fd := range s.fields {
		if hooked(fd) {
			checks = append(checks, jen.Id(hookName(t, fd)).Call(jen.Id("s").Dot(fd.StructField())))
		}
	}
	if s.input {
		for _, fd := range s.fields {
			if fd.IsToOne() && fd.IsRequired() {
				checks = append(checks, jen.Id("required").Call(jen.Lit(fd.Name), jen.Id("s").Dot(fd.KeyField()).Op("!=").Lit(0)))
			}
		}
	}
	f.Comment("Validate runs the field validators of the serializer.")
	f.Func().Params(jen.Id("s").Op("*").Id(s.name)).Id("Validate").Params().Error().BlockFunc(func(b *jen.Group) {
		if len(checks) == 0 {
			b.Return(jen.Nil())
			return
		}
		b.Return(jen.Qual("errors", "Join").CallFunc(func(args *jen.Group) {
			for _, c := range checks {
				args.Add(c)
			}
		}))
	})
}

// genValidationHooks generates one validation function per hooked field.
// The functions are shared by the serializers of the model.
func genValidationHooks(f *jen.File, t *gen.Type) {
	for _, fd := range t.SerializerFields {
		if !hooked(fd) {
			continue
		}
		name := hookName(t, fd)
		param := jen.Id("v").String()
		if pointer(fd) {
			param = jen.Id("p").Op("*").String()
		}
		f.Commentf("%s validates the %s field of %s.", name, fd.Name, t.Name)
		f.Func().Id(name).Params(param).Error().BlockFunc(func(b *jen.Group) {
			if pointer(fd) {
				b.If(jen.Id("p").Op("==").Nil()).Block(jen.Return(jen.Nil()))
				b.Id("v").Op(":=").Op("*").Id("p")
			}
			if fd.Desc.Blank() {
				b.If(jen.Id("v").Op("==").Lit("")).Block(jen.Return(jen.Nil()))
			} else if fd.IsUnique() {
				b.If(jen.Qual("strings", "TrimSpace").Call(jen.Id("v")).Op("==").Lit("")).Block(
					jen.Return(jen.Qual("errors", "New").Call(jen.Lit(fd.Name + ": this field may not be blank"))),
				)
			}
			if fd.ExpectsAt() {
				b.If(jen.Op("!").Qual("strings", "Contains").Call(jen.Id("v"), jen.Lit("@"))).Block(
					jen.Return(jen.Qual("errors", "New").Call(jen.Lit(fd.Name + ": enter a valid email address"))),
				)
			}
			b.Return(jen.Nil())
		})
	}
}

// genRepresentations generates the helper rendering nested serializer lists.
func genRepresentations(f *jen.File) {
	f.Comment("representations returns the representation of each serializer.")
	f.Func().Id("representations").Types(
		jen.Id("S").Interface(jen.Id("ToRepresentation").Params().Map(jen.String()).Any()),
	).Params(jen.Id("items").Index().Id("S")).Index().Map(jen.String()).Any().Block(
		jen.Id("out").Op(":=").Make(jen.Index().Map(jen.String()).Any(), jen.Len(jen.Id("items"))),
		jen.For(jen.List(jen.Id("i"), jen.Id("s")).Op(":=").Range().Id("items")).Block(
			jen.Id("out").Index(jen.Id("i")).Op("=").Id("s").Dot("ToRepresentation").Call(),
		),
		jen.Return(jen.Id("out")),
	)
}

// genRequired generates the required relation check.
func genRequired(f *jen.File) {
	f.Comment("required reports a missing required field.")
	f.Func().Id("required").Params(jen.Id("name").String(), jen.Id("set").Bool()).Error().Block(
		jen.If(jen.Id("set")).Block(jen.Return(jen.Nil())),
		jen.Return(jen.Qual("fmt", "Errorf").Call(jen.Lit("%s: this field is required"), jen.Id("name"))),
	)
}
