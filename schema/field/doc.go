// Package field parses constructor-style field declarations used by
// crudgen schemas.
//
// A declaration names a field type followed by positional and keyword
// arguments:
//
//	CharField(max_length=50, unique=True)
//	models.ForeignKey('Player', on_delete=models.CASCADE, null=True)
//	DateTimeField(auto_now_add=True)
//
// # Field Types
//
// The type name is resolved once to an enumerated Type. The namespace
// prefix "models." is optional:
//
//	field.LookupType("CharField")        // TypeChar, true
//	field.LookupType("models.TextField") // TypeText, true
//	field.LookupType("MoneyField")       // TypeOther, false
//
// # Descriptors
//
// Parse never fails. It returns a Descriptor holding the type tag, the
// positional arguments and the keyword options in declaration order.
// Problems are recorded in Descriptor.Err:
//
//	d := field.Parse("ForeignKey(Player, on_delete=CASCADE)")
//	d.Type          // TypeForeignKey
//	d.Target        // "Player"
//	d.TargetQuoted  // false
//	d.OnDelete()    // "CASCADE", true
//	d.Normalize()   // "ForeignKey(Player, on_delete=models.CASCADE)"
//
// # Normalization
//
// Normalize strips the namespace prefix from the type name and values, and
// rewrites the deletion policies CASCADE, SET_NULL, PROTECT, RESTRICT,
// DO_NOTHING and SET_DEFAULT to their namespaced form. Quoted values are
// left untouched.
package field
