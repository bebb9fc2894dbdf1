package rest

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/crudgen/compiler/gen"
	"github.com/syssam/crudgen/compiler/load"
)

// guildSchema is a small schema with a to-one, a to-many and an unresolved
// relation, listed out of dependency order.
const guildSchema = `{
  "Match": {
    "fields": {
      "winner": "models.ForeignKey('Player', on_delete=models.PROTECT, related_name='wins')",
      "played_at": "DateTimeField(auto_now_add=True)",
      "sponsor": "models.ForeignKey('Sponsor', on_delete=models.SET_NULL, null=True)"
    },
    "permissions": ["read"]
  },
  "Player": {
    "fields": {
      "username": "CharField(max_length=50, unique=True)",
      "email": "EmailField(unique=True)",
      "bio": "TextField(blank=True, null=True, help_text='Shown on the profile')",
      "score": "IntegerField(default=0)",
      "guild": "models.ForeignKey('Guild', on_delete=models.CASCADE)"
    },
    "meta": {"ordering": ["-score"]},
    "methods": {"label": "self.Username"}
  },
  "Guild": {
    "fields": {
      "name": "CharField(max_length=100)",
      "members": "models.ManyToManyField('Player', related_name='guilds')"
    },
    "serializer_options": {"depth": 0}
  }
}`

// newGraph parses doc and analyzes it with the REST generator.
func newGraph(t *testing.T, doc string, opts ...gen.Option) *gen.Graph {
	t.Helper()
	s, err := load.Parse([]byte(doc))
	require.NoError(t, err)
	cfg, err := gen.NewConfig(append([]gen.Option{gen.WithGenerator(New())}, opts...)...)
	require.NoError(t, err)
	g, err := gen.NewGraph(cfg, s)
	require.NoError(t, err)
	return g
}

// typeOf returns the named type of the graph.
func typeOf(t *testing.T, g *gen.Graph, name string) *gen.Type {
	t.Helper()
	typ, ok := g.Type(name)
	require.True(t, ok, "type %s", name)
	return typ
}

// assertKeyValue asserts that code holds the composite literal element
// key: value, whatever the alignment gofmt applied.
func assertKeyValue(t *testing.T, code, key, value string) {
	t.Helper()
	assert.Regexp(t, regexp.QuoteMeta(key+":")+`\s+`+regexp.QuoteMeta(value), code)
}
