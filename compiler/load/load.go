package load

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/syssam/crudgen/schema/field"
)

// LoadFile reads and parses the schema document at path.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Cause: err}
		}
		return nil, fmt.Errorf("crudgen: read schema %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	s.Path = path
	return s, nil
}

// Parse parses an in-memory schema document. Empty input yields an empty
// schema. Only the document structure is checked here; field semantics are
// left to the analyzer.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if len(bytes.TrimSpace(data)) == 0 {
		return s, nil
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Message: "invalid document", Cause: err}
	}
	if len(doc.Content) == 0 {
		return s, nil
	}
	root := doc.Content[0]
	if isNull(root) {
		return s, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, errorf(root, "schema must map model names to model definitions")
	}
	err := eachPair(root, func(name string, n *yaml.Node) error {
		m, err := decodeModel(name, n)
		if err != nil {
			return err
		}
		s.Models = append(s.Models, m)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func decodeModel(name string, n *yaml.Node) (*Model, error) {
	m := &Model{Name: name, Line: n.Line}
	if isNull(n) {
		return m, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "model %s must be a mapping", name)
	}
	err := eachPair(n, func(key string, v *yaml.Node) (err error) {
		switch key {
		case "fields":
			m.Fields, err = decodeFields(name, v)
		case "meta":
			m.Meta, err = decodeMeta(name, v)
		case "methods":
			m.Methods, err = decodeMethods(name, v)
		case "serializer_options":
			m.Serializer, err = decodeSerializer(name, v)
		case "admin_options":
			m.Admin, err = decodeAdmin(name, v)
		case "permissions":
			m.Permissions, err = stringList(v)
			if err == nil && m.Permissions == nil {
				m.Permissions = []string{}
			}
		default:
			m.Unknown = append(m.Unknown, key)
		}
		if err != nil {
			var pe *ParseError
			if !errors.As(err, &pe) {
				err = errorf(v, "model %s: %s: %v", name, key, err)
			}
		}
		return err
	})
	return m, err
}

func decodeFields(model string, n *yaml.Node) ([]*Field, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "model %s: fields must be a mapping", model)
	}
	var fields []*Field
	err := eachPair(n, func(name string, v *yaml.Node) error {
		f := &Field{Name: name, Line: v.Line}
		switch v.Kind {
		case yaml.ScalarNode:
			f.Decl = v.Value
		case yaml.MappingNode:
			f.Structured = true
			if err := eachPair(v, func(key string, opt *yaml.Node) (err error) {
				switch key {
				case "type":
					err = opt.Decode(&f.Decl)
				case "help_text":
					err = opt.Decode(&f.HelpText)
				case "validators":
					f.Validators, err = stringList(opt)
				}
				if err != nil {
					return errorf(opt, "model %s: field %s: %s: %v", model, name, key, err)
				}
				return nil
			}); err != nil {
				return err
			}
			if f.Decl == "" {
				return errorf(v, "model %s: field %s: structured field requires a type", model, name)
			}
		default:
			return errorf(v, "model %s: field %s must be a declaration string or a mapping", model, name)
		}
		f.Descriptor = field.Parse(f.Decl)
		f.Descriptor.Help = f.HelpText
		for _, decl := range f.Validators {
			f.Descriptor.Validators = append(f.Descriptor.Validators, field.Parse(decl))
		}
		fields = append(fields, f)
		return nil
	})
	return fields, err
}

func decodeMethods(model string, n *yaml.Node) ([]*Method, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, errorf(n, "model %s: methods must be a mapping", model)
	}
	var methods []*Method
	err := eachPair(n, func(name string, v *yaml.Node) error {
		if v.Kind != yaml.ScalarNode {
			return errorf(v, "model %s: method %s must be a body expression", model, name)
		}
		methods = append(methods, &Method{Name: name, Body: v.Value})
		return nil
	})
	return methods, err
}

func decodeMeta(model string, n *yaml.Node) (Meta, error) {
	var meta Meta
	if isNull(n) {
		return meta, nil
	}
	if n.Kind != yaml.MappingNode {
		return meta, errorf(n, "model %s: meta must be a mapping", model)
	}
	err := eachPair(n, func(key string, v *yaml.Node) (err error) {
		switch key {
		case "ordering":
			meta.Ordering, err = stringList(v)
		case "indexes":
			meta.Indexes, err = decodeIndexes(v)
		case "unique_together":
			meta.UniqueTogether, err = decodeTuples(v)
		case "verbose_name":
			err = v.Decode(&meta.VerboseName)
		case "verbose_name_plural":
			err = v.Decode(&meta.VerboseNamePlural)
		case "db_table":
			err = v.Decode(&meta.DBTable)
		default:
			meta.Extra = append(meta.Extra, MetaOption{Key: key, Value: rawValue(v)})
		}
		if err != nil {
			return errorf(v, "model %s: meta %s: %v", model, key, err)
		}
		return nil
	})
	return meta, err
}

func decodeIndexes(n *yaml.Node) ([]Index, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.New("expected a list of indexes")
	}
	indexes := make([]Index, 0, len(n.Content))
	for _, item := range n.Content {
		switch item.Kind {
		case yaml.ScalarNode, yaml.SequenceNode:
			fields, err := stringList(item)
			if err != nil {
				return nil, err
			}
			indexes = append(indexes, Index{Fields: fields})
		case yaml.MappingNode:
			var raw struct {
				Name   string   `yaml:"name"`
				Fields []string `yaml:"fields"`
			}
			if err := item.Decode(&raw); err != nil {
				return nil, err
			}
			indexes = append(indexes, Index{Name: raw.Name, Fields: raw.Fields})
		default:
			return nil, errors.New("index must be a field list or a mapping")
		}
	}
	return indexes, nil
}

// decodeTuples accepts a list of field lists, or a single flat field list.
func decodeTuples(n *yaml.Node) ([][]string, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, errors.New("expected a list of field lists")
	}
	if len(n.Content) > 0 && n.Content[0].Kind == yaml.ScalarNode {
		fields, err := stringList(n)
		if err != nil {
			return nil, err
		}
		return [][]string{fields}, nil
	}
	tuples := make([][]string, 0, len(n.Content))
	for _, item := range n.Content {
		fields, err := stringList(item)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, fields)
	}
	return tuples, nil
}

func decodeSerializer(model string, n *yaml.Node) (SerializerOptions, error) {
	var opts SerializerOptions
	if isNull(n) {
		return opts, nil
	}
	if n.Kind != yaml.MappingNode {
		return opts, errorf(n, "model %s: serializer_options must be a mapping", model)
	}
	err := eachPair(n, func(key string, v *yaml.Node) (err error) {
		switch key {
		case "depth":
			var depth int
			if err = v.Decode(&depth); err == nil {
				opts.Depth = &depth
			}
		case "include":
			opts.Include, err = presentList(v)
		case "exclude":
			opts.Exclude, err = presentList(v)
		case "read_only", "read_only_fields":
			opts.ReadOnly, err = stringList(v)
		case "write_only", "write_only_fields":
			opts.WriteOnly, err = stringList(v)
		}
		if err != nil {
			return errorf(v, "model %s: serializer_options %s: %v", model, key, err)
		}
		return nil
	})
	return opts, err
}

func decodeAdmin(model string, n *yaml.Node) (AdminOptions, error) {
	var opts AdminOptions
	if isNull(n) {
		return opts, nil
	}
	if n.Kind != yaml.MappingNode {
		return opts, errorf(n, "model %s: admin_options must be a mapping", model)
	}
	err := eachPair(n, func(key string, v *yaml.Node) (err error) {
		switch key {
		case "list_display":
			opts.ListDisplay, err = stringList(v)
		case "search_fields":
			opts.SearchFields, err = stringList(v)
		case "list_filter":
			opts.ListFilter, err = stringList(v)
		case "readonly_fields":
			opts.ReadonlyFields, err = stringList(v)
		case "actions":
			opts.Actions, err = stringList(v)
		}
		if err != nil {
			return errorf(v, "model %s: admin_options %s: %v", model, key, err)
		}
		return nil
	})
	return opts, err
}

// eachPair walks a mapping node in document order. Keys must be unique
// scalars.
func eachPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	seen := make(map[string]bool, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return errorf(k, "mapping keys must be strings")
		}
		if seen[k.Value] {
			return errorf(k, "duplicate key %q", k.Value)
		}
		seen[k.Value] = true
		if err := fn(k.Value, v); err != nil {
			return err
		}
	}
	return nil
}

// stringList decodes a single string or a list of strings.
func stringList(n *yaml.Node) ([]string, error) {
	switch {
	case isNull(n):
		return nil, nil
	case n.Kind == yaml.ScalarNode:
		return []string{n.Value}, nil
	case n.Kind == yaml.SequenceNode:
		list := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, errors.New("expected a list of strings")
			}
			list = append(list, item.Value)
		}
		return list, nil
	}
	return nil, errors.New("expected string or list of strings")
}

// presentList is like stringList, but never returns nil for a present key.
func presentList(n *yaml.Node) ([]string, error) {
	list, err := stringList(n)
	if err == nil && list == nil {
		list = []string{}
	}
	return list, err
}

// rawValue renders a node as compact flow text.
func rawValue(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	c := *n
	c.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&c)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func errorf(n *yaml.Node, format string, args ...any) *ParseError {
	return &ParseError{Line: n.Line, Message: fmt.Sprintf(format, args...)}
}
