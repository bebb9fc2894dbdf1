package rest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syssam/crudgen/compiler/gen"
)

// =============================================================================
// genSerializers Tests
// =============================================================================

func TestGenSerializers_Base(t *testing.T) {
	g := newGraph(t, guildSchema)
	code := genSerializers(g).GoString()

	assert.Contains(t, code, "type PlayerSerializer struct")
	assert.Contains(t, code, "func NewPlayerSerializer(m *Player) *PlayerSerializer")
	assert.Contains(t, code, "return newPlayerSerializer(m, 1)")
	assert.Contains(t, code, "func newPlayerSerializer(m *Player, depth int) *PlayerSerializer")
	assert.Contains(t, code, "func (s *PlayerSerializer) ToRepresentation() map[string]any")
	assert.Contains(t, code, "func (s *PlayerSerializer) ApplyTo(m *Player)")
	assert.Contains(t, code, "func (s *PlayerSerializer) Validate() error")
}

func TestGenSerializers_Nesting(t *testing.T) {
	g := newGraph(t, guildSchema)
	code := genSerializers(g).GoString()

	t.Run("depth", func(t *testing.T) {
		assert.Contains(t, code, "if depth > 0 && m.Guild != nil")
		assert.Contains(t, code, "s.Guild = newGuildSerializer(m.Guild, depth-1)")
		assert.Contains(t, code, `out["guild"] = s.Guild.ToRepresentation()`)
	})
	t.Run("depth zero keeps keys", func(t *testing.T) {
		assert.Contains(t, code, "s.MemberIDs = append(s.MemberIDs, m.Members[i].ID)")
		assert.Contains(t, code, "return newGuildSerializer(m, 0)")
	})
	t.Run("nested variant", func(t *testing.T) {
		assert.Contains(t, code, "type GuildNestedSerializer struct")
		assert.Contains(t, code, "representations(s.Members)")
	})
}

func TestGenSerializers_Variants(t *testing.T) {
	g := newGraph(t, guildSchema)
	code := genSerializers(g).GoString()

	assert.Contains(t, code, "type PlayerListSerializer struct")
	assert.Contains(t, code, "type PlayerNestedSerializer struct")
	assert.Contains(t, code, "type PlayerCreateUpdateSerializer struct")
	assert.Contains(t, code, "func (s *PlayerCreateUpdateSerializer) ApplyTo(m *Player)")
	assert.Contains(t, code, `binding:"required" json:"guild_id"`)
	assert.Contains(t, code, `required("guild", s.GuildID != 0)`)
	assert.Contains(t, code, "func representations[S interface")
	assert.NotContains(t, code, "func (s *PlayerCreateUpdateSerializer) ToRepresentation")
}

func TestGenSerializers_WithoutVariants(t *testing.T) {
	g := newGraph(t, guildSchema, gen.WithoutFeatures(gen.FeatureVariants))
	code := genSerializers(g).GoString()

	assert.Contains(t, code, "type PlayerSerializer struct")
	assert.NotContains(t, code, "ListSerializer")
	assert.NotContains(t, code, "NestedSerializer")
	assert.NotContains(t, code, "CreateUpdateSerializer")
}

func TestGenSerializers_CreateUpdateExcludesReadOnly(t *testing.T) {
	g := newGraph(t, `{
	  "Post": {
	    "fields": {
	      "title": "CharField(max_length=80)",
	      "created": "DateTimeField(auto_now_add=True)",
	      "views": "IntegerField(default=0)"
	    },
	    "serializer_options": {"read_only": ["views"]}
	  }
	}`)
	post := typeOf(t, g, "Post")
	var names []string
	for _, f := range post.CreateUpdateFields() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"title"}, names)

	code := genSerializers(g).GoString()
	assert.Contains(t, code, "m.Title = s.Title")
	assert.NotContains(t, code, "m.Created = s.Created")
	assert.NotContains(t, code, "m.Views = s.Views")
}

func TestGenSerializers_Excluded(t *testing.T) {
	g := newGraph(t, `{
	  "Account": {
	    "fields": {
	      "login": "CharField(max_length=30)",
	      "secret": "CharField(max_length=64)"
	    },
	    "serializer_options": {"exclude": ["secret"], "depth": -2}
	  }
	}`)
	acct := typeOf(t, g, "Account")
	assert.Equal(t, 0, acct.Depth)
	assert.Len(t, g.Diagnostics.ByCode(gen.CodeNegativeDepth), 1)

	code := genSerializers(g).GoString()
	assert.Contains(t, code, "Login string")
	assert.NotContains(t, code, "Secret")
}

func TestGenSerializers_WriteOnly(t *testing.T) {
	g := newGraph(t, `{
	  "Account": {
	    "fields": {
	      "login": "CharField(max_length=30)",
	      "password": "CharField(max_length=64)"
	    },
	    "serializer_options": {"write_only": ["password"]}
	  }
	}`)
	code := genSerializers(g).GoString()
	assert.Contains(t, code, `json:"password,omitempty"`)
	assert.Contains(t, code, `"login": s.Login`)
	assert.NotContains(t, code, `"password": s.Password`)
}

func TestGenSerializers_ValidationHooks(t *testing.T) {
	g := newGraph(t, guildSchema)
	code := genSerializers(g).GoString()

	t.Run("email", func(t *testing.T) {
		assert.Contains(t, code, "func validatePlayerEmail(v string) error")
		assert.Contains(t, code, `strings.Contains(v, "@")`)
		assert.Contains(t, code, `errors.New("email: enter a valid email address")`)
	})
	t.Run("unique text", func(t *testing.T) {
		assert.Contains(t, code, "func validatePlayerUsername(v string) error")
		assert.Contains(t, code, `errors.New("username: this field may not be blank")`)
	})
	t.Run("joined", func(t *testing.T) {
		assert.Contains(t, code, "errors.Join(validatePlayerUsername(s.Username), validatePlayerEmail(s.Email))")
	})
	t.Run("plain fields", func(t *testing.T) {
		assert.NotContains(t, code, "validatePlayerBio")
		assert.NotContains(t, code, "validateGuildName")
	})
}

func TestGenSerializers_BlankHook(t *testing.T) {
	g := newGraph(t, `{"Contact": {"fields": {"email": "EmailField(blank=True, null=True)"}}}`)
	code := genSerializers(g).GoString()
	assert.Contains(t, code, "func validateContactEmail(p *string) error")
	assert.Contains(t, code, "if p == nil")
	assert.Contains(t, code, `if v == ""`)
}

func TestGenSerializers_ValidatorRules(t *testing.T) {
	doc := `{
	  "Item": {
	    "fields": {
	      "qty": {"type": "IntegerField()", "validators": ["MinValueValidator(1)", "MaxValueValidator(99)"]}
	    }
	  }
	}`
	t.Run("disabled", func(t *testing.T) {
		code := genSerializers(newGraph(t, doc)).GoString()
		assert.NotContains(t, code, "min=1")
	})
	t.Run("enabled", func(t *testing.T) {
		code := genSerializers(newGraph(t, doc, gen.WithFeatures(gen.FeatureValidators))).GoString()
		assert.Contains(t, code, `binding:"min=1,max=99"`)
	})
}

func TestBindingRules(t *testing.T) {
	g := newGraph(t, `{
	  "Item": {
	    "fields": {
	      "code": {"type": "CharField(max_length=8, null=True)", "validators": ["MinLengthValidator(2)"]},
	      "name": "CharField(max_length=8)"
	    }
	  }
	}`)
	item := typeOf(t, g, "Item")
	code, _ := item.Field("code")
	name, _ := item.Field("name")
	assert.Equal(t, "omitempty,min=2", bindingRules(code))
	assert.Empty(t, bindingRules(name))
}
