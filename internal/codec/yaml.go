package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/conformalize/conformalize/internal/document"
)

type yamlCodec struct{}

func (yamlCodec) Name() string { return "YAML" }

func (yamlCodec) Empty() *document.Map { return document.NewMap() }

func (yamlCodec) Equal(a, b *document.Map) bool { return mapEqual(a, b) }

// Decode parses a YAML document whose root is a mapping. An empty document
// is an empty mapping.
func (yamlCodec) Decode(data []byte) (*document.Map, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		m := document.NewMap()
		m.Comments = splitComment(root.HeadComment)
		return m, nil
	}

	body := root.Content[0]
	if body.Kind == yaml.ScalarNode && body.ShortTag() == "!!null" {
		return document.NewMap(), nil
	}
	if body.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing YAML: %w", &document.TypeMismatchError{Want: "mapping", Got: yamlKind(body)})
	}
	v, err := fromYAML(body)
	if err != nil {
		return nil, err
	}
	m := v.(*document.Map)
	m.Comments = append(splitComment(root.HeadComment), splitComment(body.HeadComment)...)
	m.Trailer = append(splitComment(body.FootComment), splitComment(root.FootComment)...)
	return m, nil
}

func fromYAML(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		m := document.NewMap()
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.ShortTag() == "!!merge" {
				merges = append(merges, v)
				continue
			}
			val, err := fromYAML(v)
			if err != nil {
				return nil, err
			}
			m.Set(k.Value, val)
			e := m.Entry(k.Value)
			e.Comments = splitComment(k.HeadComment)
			e.Inline = firstNonEmpty(k.LineComment, v.LineComment)
		}
		for _, merge := range merges {
			if err := mergeYAML(m, merge); err != nil {
				return nil, err
			}
		}
		return m, nil
	case yaml.SequenceNode:
		seq := document.NewSeq()
		for _, c := range n.Content {
			v, err := fromYAML(c)
			if err != nil {
				return nil, err
			}
			seq.Append(v)
		}
		return seq, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return nil, fmt.Errorf("parsing YAML: unexpected node kind %d", n.Kind)
}

// mergeYAML applies a "<<" merge key: keys already present win.
func mergeYAML(m *document.Map, src *yaml.Node) error {
	v, err := fromYAML(src)
	if err != nil {
		return err
	}
	var sources []*document.Map
	switch t := v.(type) {
	case *document.Map:
		sources = append(sources, t)
	case *document.Seq:
		for _, item := range t.Items() {
			if sm, ok := item.(*document.Map); ok {
				sources = append(sources, sm)
			}
		}
	default:
		return fmt.Errorf("parsing YAML: %w", &document.TypeMismatchError{Key: "<<", Want: "mapping", Got: document.KindOf(v)})
	}
	for _, s := range sources {
		for _, e := range s.Entries() {
			m.SetDefault(e.Key, e.Value)
		}
	}
	return nil
}

func yamlScalar(n *yaml.Node) (any, error) {
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, fmt.Errorf("parsing YAML bool at line %d: %w", n.Line, err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, fmt.Errorf("parsing YAML integer at line %d: %w", n.Line, err)
		}
		return i, nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing YAML float at line %d: %w", n.Line, err)
		}
		return f, nil
	case "!!timestamp":
		return document.DateTime(n.Value), nil
	case "!!str":
		if n.Style&yaml.LiteralStyle != 0 {
			return document.Block(n.Value), nil
		}
	}
	return n.Value, nil
}

// Encode writes the document with two-space indentation. Keys are always
// plain scalars so that keys such as "on" stay unquoted.
func (yamlCodec) Encode(doc *document.Map) ([]byte, error) {
	body, err := toYAML(doc, "")
	if err != nil {
		return nil, err
	}
	root := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: strings.Join(doc.Comments, "\n"),
		FootComment: strings.Join(doc.Trailer, "\n"),
		Content:     []*yaml.Node{body},
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding YAML: %w", err)
	}
	return buf.Bytes(), nil
}

func toYAML(v any, key string) (*yaml.Node, error) {
	switch t := v.(type) {
	case *document.Map:
		if t == nil {
			break
		}
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, e := range t.Entries() {
			val, err := toYAML(e.Value, joinKey(key, e.Key))
			if err != nil {
				return nil, err
			}
			k := &yaml.Node{
				Kind:        yaml.ScalarNode,
				Tag:         "!!str",
				Value:       e.Key,
				HeadComment: strings.Join(e.Comments, "\n"),
			}
			if e.Inline != "" {
				if val.Kind == yaml.ScalarNode {
					val.LineComment = e.Inline
				} else {
					k.LineComment = e.Inline
				}
			}
			n.Content = append(n.Content, k, val)
		}
		return n, nil
	case *document.Seq:
		if t == nil {
			break
		}
		return yamlSeq(t.Items(), key)
	case *document.TableSeq:
		if t == nil {
			break
		}
		items := make([]any, 0, t.Len())
		for _, m := range t.Tables() {
			items = append(items, m)
		}
		return yamlSeq(items, key)
	case string:
		return yamlString(t, 0), nil
	case document.Block:
		return yamlString(string(t), yaml.LiteralStyle), nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t)}, nil
	case int64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.FormatInt(t, 10)}, nil
	case float64:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: yamlFloat(t)}, nil
	case document.DateTime:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!timestamp", Value: string(t)}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return nil, &SerializationError{Format: "YAML", Key: key, Value: v}
}

func yamlSeq(items []any, key string) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for i, item := range items {
		c, err := toYAML(item, fmt.Sprintf("%s[%d]", key, i))
		if err != nil {
			return nil, err
		}
		n.Content = append(n.Content, c)
	}
	return n, nil
}

func yamlString(s string, style yaml.Style) *yaml.Node {
	if style == 0 && strings.Contains(s, "\n") {
		style = yaml.LiteralStyle
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s, Style: style}
}

func yamlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ".nan"
	case math.IsInf(f, 1):
		return ".inf"
	case math.IsInf(f, -1):
		return "-.inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func yamlKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	}
	return "node"
}

func splitComment(c string) []string {
	if c == "" {
		return nil
	}
	return strings.Split(c, "\n")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
