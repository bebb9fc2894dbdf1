package gen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/load"
	"github.com/syssam/crudgen/schema/field"
)

// newTestGraph parses doc and analyzes it with the stub generator.
func newTestGraph(t testing.TB, doc string, opts ...Option) *Graph {
	t.Helper()
	s, err := load.Parse([]byte(doc))
	require.NoError(t, err)
	c, err := NewConfig(append([]Option{WithGenerator(&stubAdminGenerator{})}, opts...)...)
	require.NoError(t, err)
	g, err := NewGraph(c, s)
	require.NoError(t, err)
	return g
}

func mustType(t *testing.T, g *Graph, name string) *Type {
	t.Helper()
	typ, ok := g.Type(name)
	require.True(t, ok, "type %s", name)
	return typ
}

func mustField(t *testing.T, typ *Type, name string) *Field {
	t.Helper()
	f, ok := typ.Field(name)
	require.True(t, ok, "field %s.%s", typ.Name, name)
	return f
}

const playerGuild = `{
  "Player": {
    "fields": {
      "username": "CharField(max_length=50, unique=True)",
      "email": "EmailField(unique=True)",
      "guild": "models.ForeignKey('Guild', on_delete=models.CASCADE, null=True)"
    }
  },
  "Guild": {
    "fields": {
      "name": "CharField(max_length=100)",
      "leader": "ForeignKey(Player)"
    }
  }
}`

func TestNewGraph(t *testing.T) {
	t.Run("requires config", func(t *testing.T) {
		_, err := NewGraph(nil, &load.Schema{})
		require.Error(t, err)
		assert.True(t, IsConfigError(err))
	})

	t.Run("nil schema", func(t *testing.T) {
		g, err := NewGraph(DefaultConfig(), nil)
		require.NoError(t, err)
		assert.Empty(t, g.Nodes)
		assert.Empty(t, g.Order())
	})

	t.Run("types in schema order", func(t *testing.T) {
		g := newTestGraph(t, playerGuild)
		require.Len(t, g.Nodes, 2)
		assert.Equal(t, "Player", g.Nodes[0].Name)
		assert.Equal(t, "Guild", g.Nodes[1].Name)
		_, ok := g.Type("Missing")
		assert.False(t, ok)
	})
}

func TestGraph_Fields(t *testing.T) {
	g := newTestGraph(t, playerGuild)
	player := mustType(t, g, "Player")

	username := mustField(t, player, "username")
	assert.Equal(t, field.TypeChar, username.Type)
	assert.True(t, username.IsUnique())
	assert.True(t, username.IsText())
	assert.Equal(t, "Username", username.StructField())
	assert.Equal(t, "username", username.Column())
	n, ok := username.MaxLength()
	assert.True(t, ok)
	assert.Equal(t, 50, n)

	guild := mustField(t, player, "guild")
	require.NotNil(t, guild.Rel)
	assert.True(t, guild.IsToOne())
	assert.True(t, guild.Nullable())
	assert.Equal(t, "Guild", guild.Rel.Target)
	assert.Same(t, mustType(t, g, "Guild"), guild.Rel.Type)
	assert.Equal(t, "CASCADE", guild.Rel.Constraint())
	assert.Equal(t, "guild_id", guild.Column())
	assert.Equal(t, "GuildID", guild.KeyField())
	assert.Equal(t, "guild_id", guild.KeyJSON())
	assert.Same(t, player, guild.Owner())

	assert.Same(t, username, player.DisplayField)
}

func TestGraph_FieldDiagnostics(t *testing.T) {
	g := newTestGraph(t, `{
	  "Item": {
	    "fields": {
	      "code": "CharField(unique=True)",
	      "owner": "ForeignKey(Player)",
	      "blob": "WeirdField()",
	      "broken": "CharField(max_length=5",
	      "qty": {"type": "IntegerField()", "validators": ["RegexValidator('x')"]}
	    }
	  }
	}`)

	missing := g.Diagnostics.ByCode(CodeMissingMaxLength)
	require.Len(t, missing, 1)
	assert.Equal(t, "Item", missing[0].Model)
	assert.Equal(t, "code", missing[0].Field)
	assert.Equal(t, FieldClassificationWarning, missing[0].Kind)

	assert.Len(t, g.Diagnostics.ByCode(CodeMissingOnDelete), 1)
	assert.Len(t, g.Diagnostics.ByCode(CodeUnquotedTarget), 1)
	assert.Len(t, g.Diagnostics.ByCode(CodeUnknownType), 1)
	assert.Len(t, g.Diagnostics.ByCode(CodeMalformedDeclaration), 1)
	assert.Len(t, g.Diagnostics.ByCode(CodeUnsupportedValidator), 1)

	unresolved := g.Diagnostics.ByKind(UnresolvedDependency)
	require.Len(t, unresolved, 1)
	assert.Equal(t, CodeUnresolvedTarget, unresolved[0].Code)

	item := mustType(t, g, "Item")
	owner := mustField(t, item, "owner")
	assert.True(t, owner.Rel.External())
	assert.Empty(t, item.Dependencies())
	assert.Len(t, item.Fields, 5)
}

func TestGraph_ReservedAndInvalidNames(t *testing.T) {
	g := newTestGraph(t, `{
	  "Tag": {
	    "fields": {
	      "id": "AutoField(primary_key=True)",
	      "ID": "IntegerField()",
	      "i_d": "IntegerField()",
	      "slug": "SlugField()",
	      "table_name": "CharField(max_length=10)",
	      "string": "CharField(max_length=10)",
	      "label": "CharField(max_length=10)",
	      "label_": "CharField(max_length=10)"
	    },
	    "methods": {"slug_text": "self.Slug", "label": "self.Label", "to_representation": "1", "9x": "1"}
	  },
	  "func": {"fields": {}}
	}`)
	_, ok := g.Type("func")
	assert.False(t, ok)

	tag := mustType(t, g, "Tag")
	var names []string
	for _, f := range tag.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"slug", "table_name", "string", "label"}, names)
	assert.Len(t, g.Diagnostics.ByCode(CodeReservedField), 2)
	assert.Len(t, g.Diagnostics.ByCode(CodeMethodConflict), 2)
	require.Len(t, tag.Methods, 1)
	assert.Equal(t, "slug_text", tag.Methods[0].Name)
	assert.NotEmpty(t, g.Diagnostics.ByCode(CodeInvalidIdentifier))
}

// namedGenerator declares fixed package-level identifiers.
type namedGenerator struct {
	stubAdminGenerator
	ids []string
}

func (n *namedGenerator) Identifiers() []string { return n.ids }

func TestGraph_NameCollisions(t *testing.T) {
	doc := `{
	  "Health": {"fields": {}},
	  "Player": {"fields": {"username": "CharField(max_length=50)"}},
	  "PlayerViewSet": {"fields": {}},
	  "RecentPlayers": {"fields": {}},
	  "Guild": {"fields": {"owner": "ForeignKey('PlayerViewSet', on_delete=CASCADE)"}}
	}`
	g := newTestGraph(t, doc, WithGenerator(&namedGenerator{ids: []string{"Health"}}))
	assert.Equal(t, []string{"Player", "Guild"}, g.OrderNames())

	diags := g.Diagnostics.ByCode(CodeNameCollision)
	require.Len(t, diags, 3)
	assert.Equal(t, "Health", diags[0].Model)
	assert.Contains(t, diags[0].Message, "generated identifier")
	assert.Equal(t, "PlayerViewSet", diags[1].Model)
	assert.Contains(t, diags[1].Message, "model Player")
	assert.Equal(t, "RecentPlayers", diags[2].Model)

	owner := mustField(t, mustType(t, g, "Guild"), "owner")
	assert.True(t, owner.Rel.External())

	// Without fixed identifiers only the model-derived names collide.
	g = newTestGraph(t, doc)
	assert.Equal(t, []string{"Health", "Player", "Guild"}, g.OrderNames())
	assert.Len(t, g.Diagnostics.ByCode(CodeNameCollision), 2)
}

func TestType_Identifiers(t *testing.T) {
	ids := Type{Name: "Category"}.Identifiers()
	assert.Equal(t, "Category", ids[0])
	for _, id := range []string{"CategoryMeta", "RecentCategories", "CategoryViewSet", "NewCategoryViewSet", "CategoryAdmin", "registerCategoryRoutes", "NewCategoryListSerializer", "newCategorySerializer"} {
		assert.Contains(t, ids, id)
	}
}

func TestField_StructField(t *testing.T) {
	g := newTestGraph(t, `{
	  "Page": {
	    "fields": {
	      "slug": "SlugField(unique=True)",
	      "string": "CharField(max_length=10)",
	      "table_name": "CharField(max_length=10)",
	      "url_slug": "CharField(max_length=10)",
	      "apply_to": "ForeignKey('Page', on_delete=CASCADE, null=True)"
	    }
	  }
	}`)
	page := mustType(t, g, "Page")
	tests := []struct {
		name   string
		member string
		column string
	}{
		{"slug", "Slug", "slug"},
		{"string", "StringValue", "string"},
		{"table_name", "TableNameValue", "table_name"},
		{"url_slug", "URLSlugValue", "url_slug"},
		{"apply_to", "ApplyToValue", "apply_to_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := mustField(t, page, tt.name)
			assert.Equal(t, tt.member, f.StructField())
			assert.Equal(t, tt.column, f.Column())
		})
	}
	assert.Equal(t, "ApplyToID", mustField(t, page, "apply_to").KeyField())
	assert.Empty(t, g.Diagnostics.ByCode(CodeReservedField))
}

func TestGraph_Permissions(t *testing.T) {
	tests := []struct {
		name  string
		perms string
		want  Permissions
		warn  int
	}{
		{"absent", ``, AllPermissions, 0},
		{"read only", `, "permissions": ["read"]`, Permissions{Read: true}, 0},
		{"mixed case", `, "permissions": ["Read", "DELETE"]`, Permissions{Read: true, Delete: true}, 0},
		{"empty", `, "permissions": []`, Permissions{}, 0},
		{"unknown", `, "permissions": ["read", "publish"]`, Permissions{Read: true}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(t, `{"Note": {"fields": {"text": "TextField()"}`+tt.perms+`}}`)
			note := mustType(t, g, "Note")
			assert.Equal(t, tt.want, note.Permissions)
			assert.Len(t, g.Diagnostics.ByCode(CodeUnknownPermission), tt.warn)
		})
	}
	assert.Equal(t, []string{"read", "delete"}, Permissions{Read: true, Delete: true}.Names())
	assert.True(t, AllPermissions.All())
}

func TestGraph_SerializerOptions(t *testing.T) {
	doc := func(opts string) string {
		return `{"Post": {"fields": {
		  "title": "CharField(max_length=80)",
		  "body": "TextField()",
		  "author": "ForeignKey('Author', on_delete=CASCADE)"
		}, "serializer_options": ` + opts + `}, "Author": {"fields": {"name": "CharField(max_length=20)"}}}`
	}
	fieldNames := func(fields []*Field) []string {
		var names []string
		for _, f := range fields {
			names = append(names, f.Name)
		}
		return names
	}

	t.Run("defaults", func(t *testing.T) {
		g := newTestGraph(t, doc(`{}`))
		post := mustType(t, g, "Post")
		assert.Equal(t, 1, post.Depth)
		assert.Equal(t, []string{"title", "body", "author"}, fieldNames(post.SerializerFields))
		assert.True(t, post.Nests(mustField(t, post, "author")))
		assert.Equal(t, []string{"author"}, fieldNames(post.Preloads()))
	})

	t.Run("include wins over exclude", func(t *testing.T) {
		g := newTestGraph(t, doc(`{"include": ["body", "title", "body"], "exclude": ["title"]}`))
		post := mustType(t, g, "Post")
		assert.Equal(t, []string{"body", "title"}, fieldNames(post.SerializerFields))
		assert.Len(t, g.Diagnostics.ByCode(CodeIncludeExcludeConflict), 1)
	})

	t.Run("exclude", func(t *testing.T) {
		g := newTestGraph(t, doc(`{"exclude": ["body", "nope"]}`))
		post := mustType(t, g, "Post")
		assert.Equal(t, []string{"title", "author"}, fieldNames(post.SerializerFields))
		assert.Len(t, g.Diagnostics.ByCode(CodeUnknownFieldReference), 1)
	})

	t.Run("depth zero", func(t *testing.T) {
		g := newTestGraph(t, doc(`{"depth": 0, "read_only": ["title"], "write_only": ["body"]}`))
		post := mustType(t, g, "Post")
		assert.False(t, post.Nests(mustField(t, post, "author")))
		assert.True(t, post.ReadOnly(mustField(t, post, "title")))
		assert.True(t, post.WriteOnly(mustField(t, post, "body")))
		assert.Equal(t, []string{"body", "author"}, fieldNames(post.CreateUpdateFields()))
	})
}

func TestGraph_Meta(t *testing.T) {
	g := newTestGraph(t, `{
	  "Score": {
	    "fields": {
	      "player": "ForeignKey('Player', on_delete=CASCADE)",
	      "season": "IntegerField()",
	      "points": "IntegerField(db_index=True)"
	    },
	    "meta": {
	      "db_table": "scores",
	      "ordering": ["-points", "id", "?", "missing"],
	      "indexes": [["season", "points"], {"name": "by_player", "fields": ["player"]}],
	      "unique_together": [["player", "season"]],
	      "verbose_name_plural": "High Scores"
	    }
	  },
	  "Player": {"fields": {"name": "CharField(max_length=20)"}}
	}`)
	score := mustType(t, g, "Score")
	assert.Equal(t, "scores", score.Table())
	assert.Equal(t, []string{"points desc", "id"}, score.Ordering)
	assert.Len(t, g.Diagnostics.ByCode(CodeUnknownFieldReference), 1)
	assert.Equal(t, "Score", score.VerboseName())
	assert.Equal(t, "High Scores", score.VerboseNamePlural())

	require.Len(t, score.Indexes, 3)
	assert.Equal(t, "idx_scores_season_points", score.Indexes[0].Name)
	assert.Equal(t, "by_player", score.Indexes[1].Name)
	assert.Equal(t, "uniq_scores_player_id_season", score.Indexes[2].Name)
	assert.True(t, score.Indexes[2].Unique)

	season := mustField(t, score, "season")
	assert.Equal(t, []string{"idx_scores_season_points"}, season.Indexes())
	assert.Equal(t, []string{"uniq_scores_player_id_season"}, season.Uniques())
}

func TestGraph_UnknownOption(t *testing.T) {
	g := newTestGraph(t, `{"Note": {"fields": {}, "widgets": {}}}`)
	diags := g.Diagnostics.ByCode(CodeUnknownOption)
	require.Len(t, diags, 1)
	assert.Equal(t, SchemaWarning, diags[0].Kind)
	assert.Contains(t, diags[0].Message, "widgets")
}
