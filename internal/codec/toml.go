package codec

import (
	"bytes"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"

	"github.com/conformalize/conformalize/internal/document"
)

// Arrays whose one-line rendering would exceed this width are written one
// item per line.
const tomlArrayWidth = 88

var bareKey = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

type tomlCodec struct{}

func (tomlCodec) Name() string { return "TOML" }

func (tomlCodec) Empty() *document.Map { return document.NewMap() }

func (tomlCodec) Equal(a, b *document.Map) bool { return mapEqual(a, b) }

// Decode parses TOML into a tree that keeps key order and comments.
func (tomlCodec) Decode(data []byte) (*document.Map, error) {
	d := &tomlDecoder{
		root:      document.NewMap(),
		fullLines: fullLineComments(data),
	}
	d.current = d.root

	p := unstable.Parser{KeepComments: true}
	p.Reset(data)
	for p.NextExpression() {
		if err := d.expression(p.Expression()); err != nil {
			return nil, err
		}
	}
	if err := p.Error(); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	d.current.Trailer = append(d.current.Trailer, d.pending...)
	return d.root, nil
}

type tomlDecoder struct {
	root    *document.Map
	current *document.Map
	// pending full-line comments wait for the next entry or header.
	pending []string
	// lastEntry and lastTable receive a trailing inline comment.
	lastEntry *document.Entry
	lastTable *document.Map
	fullLines map[string]int
}

func (d *tomlDecoder) expression(expr *unstable.Node) error {
	switch expr.Kind {
	case unstable.Comment:
		d.comment(normComment(string(expr.Data)))
		return nil
	case unstable.KeyValue:
		entry, err := d.keyValue(d.current, expr, false)
		if err != nil {
			return err
		}
		entry.Comments = append(entry.Comments, d.pending...)
		d.pending = nil
		d.lastEntry, d.lastTable = entry, nil
	case unstable.Table:
		m, err := d.table(keyParts(expr))
		if err != nil {
			return err
		}
		d.enter(m)
	case unstable.ArrayTable:
		m, err := d.arrayTable(keyParts(expr))
		if err != nil {
			return err
		}
		d.enter(m)
	}
	if next := expr.Next(); next.Valid() && next.Kind == unstable.Comment {
		d.inline(normComment(string(next.Data)))
	}
	return nil
}

func (d *tomlDecoder) enter(m *document.Map) {
	m.Comments = append(m.Comments, d.pending...)
	d.pending = nil
	d.current = m
	d.lastEntry, d.lastTable = nil, m
}

// comment files a comment that the parser reported on its own. Comments that
// appear on a line by themselves wait for the next entry; anything else
// trailed the previous line.
func (d *tomlDecoder) comment(text string) {
	if n := d.fullLines[text]; n > 0 || (d.lastEntry == nil && d.lastTable == nil) {
		if n > 0 {
			d.fullLines[text] = n - 1
		}
		d.pending = append(d.pending, text)
		return
	}
	d.inline(text)
}

func (d *tomlDecoder) inline(text string) {
	switch {
	case d.lastEntry != nil && d.lastEntry.Inline == "":
		d.lastEntry.Inline = text
	case d.lastTable != nil && d.lastTable.Inline == "":
		d.lastTable.Inline = text
	default:
		d.pending = append(d.pending, text)
	}
}

// table resolves a [a.b.c] header.
func (d *tomlDecoder) table(keys []string) (*document.Map, error) {
	parent, err := descendPath(d.root, keys[:len(keys)-1], false)
	if err != nil {
		return nil, err
	}
	return descend(parent, keys[len(keys)-1], false)
}

// arrayTable resolves a [[a.b.c]] header by appending a new table.
func (d *tomlDecoder) arrayTable(keys []string) (*document.Map, error) {
	parent, err := descendPath(d.root, keys[:len(keys)-1], false)
	if err != nil {
		return nil, err
	}
	ts, err := document.GetOrCreateTableSeq(parent, keys[len(keys)-1])
	if err != nil {
		return nil, err
	}
	m := document.NewMap()
	ts.Append(m)
	return m, nil
}

func (d *tomlDecoder) keyValue(target *document.Map, kv *unstable.Node, inline bool) (*document.Entry, error) {
	keys := keyParts(kv)
	target, err := descendPath(target, keys[:len(keys)-1], inline)
	if err != nil {
		return nil, err
	}
	v, err := d.value(kv.Value())
	if err != nil {
		return nil, err
	}
	key := keys[len(keys)-1]
	target.Set(key, v)
	return target.Entry(key), nil
}

func (d *tomlDecoder) value(n *unstable.Node) (any, error) {
	switch n.Kind {
	case unstable.String:
		return string(n.Data), nil
	case unstable.Bool:
		return string(n.Data) == "true", nil
	case unstable.Integer:
		i, err := strconv.ParseInt(string(n.Data), 0, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing TOML integer %q: %w", n.Data, err)
		}
		return i, nil
	case unstable.Float:
		return parseTOMLFloat(string(n.Data))
	case unstable.LocalDate, unstable.LocalTime, unstable.LocalDateTime, unstable.DateTime:
		return document.DateTime(n.Data), nil
	case unstable.Array:
		return d.array(n)
	case unstable.InlineTable:
		m := document.NewMap()
		m.InlineStyle = true
		it := n.Children()
		for it.Next() {
			c := it.Node()
			if c.Kind != unstable.KeyValue {
				continue
			}
			if _, err := d.keyValue(m, c, true); err != nil {
				return nil, err
			}
		}
		return m, nil
	}
	return nil, fmt.Errorf("parsing TOML: unexpected %s node", n.Kind)
}

func parseTOMLFloat(s string) (float64, error) {
	clean := strings.ReplaceAll(s, "_", "")
	switch strings.TrimLeft(clean, "+-") {
	case "nan":
		return math.NaN(), nil
	case "inf":
		if strings.HasPrefix(clean, "-") {
			return math.Inf(-1), nil
		}
		return math.Inf(1), nil
	}
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing TOML float %q: %w", s, err)
	}
	return f, nil
}

func keyParts(n *unstable.Node) []string {
	var keys []string
	it := n.Key()
	for it.Next() {
		keys = append(keys, string(it.Node().Data))
	}
	return keys
}

func descendPath(m *document.Map, keys []string, inline bool) (*document.Map, error) {
	var err error
	for _, k := range keys {
		if m, err = descend(m, k, inline); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// descend follows key into a table, creating it when absent. An array of
// tables resolves to its last element.
func descend(m *document.Map, key string, inline bool) (*document.Map, error) {
	if v, ok := m.Get(key); ok {
		if ts, ok := v.(*document.TableSeq); ok && ts.Len() > 0 {
			return ts.Table(ts.Len() - 1), nil
		}
	}
	if inline {
		return document.GetOrCreateMap(m, key)
	}
	return document.GetOrCreateTable(m, key)
}

func fullLineComments(data []byte) map[string]int {
	out := make(map[string]int)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			out[normComment(line)]++
		}
	}
	return out
}

// array decodes an array value. A full-line comment belongs to the item
// after it; any other comment trails the item before it.
func (d *tomlDecoder) array(n *unstable.Node) (*document.Seq, error) {
	seq := document.NewSeq()
	var lead []string
	it := n.Children()
	for it.Next() {
		c := it.Node()
		if c.Kind == unstable.Comment {
			for _, text := range commentRun(c) {
				if k := d.fullLines[text]; k > 0 || seq.Len() == 0 {
					if k > 0 {
						d.fullLines[text] = k - 1
					}
					lead = append(lead, text)
					continue
				}
				last := seq.Len() - 1
				note := seq.CommentsAt(last)
				if note.Inline != "" || len(lead) > 0 {
					lead = append(lead, text)
					continue
				}
				note.Inline = text
				seq.SetCommentsAt(last, note)
			}
			continue
		}
		v, err := d.value(c)
		if err != nil {
			return nil, err
		}
		seq.Append(v)
		if len(lead) > 0 {
			seq.SetCommentsAt(seq.Len()-1, document.ItemComments{Comments: lead})
			lead = nil
		}
	}
	seq.Trailer = lead
	return seq, nil
}

// commentRun returns the text of c and of the comments the parser chained
// below it.
func commentRun(c *unstable.Node) []string {
	out := []string{normComment(string(c.Data))}
	it := c.Children()
	for it.Next() {
		out = append(out, normComment(string(it.Node().Data)))
	}
	return out
}

func normComment(s string) string {
	return "#" + strings.TrimPrefix(strings.TrimSpace(s), "#")
}

// Encode writes key/values before sub-tables, emits a [header] only for
// tables that hold key/values, are empty or carry comments, and renders
// inline-style maps and maps inside arrays as inline tables.
func (tomlCodec) Encode(doc *document.Map) ([]byte, error) {
	w := &tomlWriter{}
	if err := w.table(doc, nil, true); err != nil {
		return nil, err
	}
	return w.buf.Bytes(), nil
}

type tomlWriter struct {
	buf bytes.Buffer
}

func (w *tomlWriter) table(m *document.Map, path []string, root bool) error {
	direct, nested := splitSections(m)
	switch {
	case root:
		w.lines(m.Comments)
	case len(direct) > 0 || m.Len() == 0 || len(m.Comments) > 0 || m.Inline != "":
		w.header("["+dottedKey(path)+"]", m.Comments, m.Inline)
	}
	return w.contents(m, direct, nested, path)
}

func (w *tomlWriter) contents(m *document.Map, direct, nested []*document.Entry, path []string) error {
	if err := w.entries(direct, path); err != nil {
		return err
	}
	w.lines(m.Trailer)

	for _, e := range nested {
		sub := appendPath(path, e.Key)
		switch v := e.Value.(type) {
		case *document.Map:
			if len(e.Comments) > 0 {
				v = withComments(v, e.Comments)
			}
			if err := w.table(v, sub, false); err != nil {
				return err
			}
		case *document.TableSeq:
			for i, t := range v.Tables() {
				comments := t.Comments
				if i == 0 {
					comments = append(append([]string(nil), e.Comments...), comments...)
				}
				w.header("[["+dottedKey(sub)+"]]", comments, t.Inline)
				direct, nested := splitSections(t)
				if err := w.contents(t, direct, nested, sub); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func splitSections(m *document.Map) (direct, nested []*document.Entry) {
	for _, e := range m.Entries() {
		if isSection(e.Value) {
			nested = append(nested, e)
		} else {
			direct = append(direct, e)
		}
	}
	return direct, nested
}

func (w *tomlWriter) entries(entries []*document.Entry, path []string) error {
	for _, e := range entries {
		key := quoteKey(e.Key)
		s, err := w.value(e.Value, joinKey(dottedKey(path), e.Key), len(key)+3)
		if err != nil {
			return err
		}
		w.lines(e.Comments)
		w.buf.WriteString(key + " = " + s)
		if e.Inline != "" {
			w.buf.WriteString("  " + e.Inline)
		}
		w.buf.WriteByte('\n')
	}
	return nil
}

func (w *tomlWriter) header(h string, comments []string, inline string) {
	if w.buf.Len() > 0 {
		w.buf.WriteByte('\n')
	}
	w.lines(comments)
	w.buf.WriteString(h)
	if inline != "" {
		w.buf.WriteString("  " + inline)
	}
	w.buf.WriteByte('\n')
}

func (w *tomlWriter) lines(lines []string) {
	for _, l := range lines {
		w.buf.WriteString(l)
		w.buf.WriteByte('\n')
	}
}

// value renders v on the right-hand side of a key. indent is the column the
// value starts at, used to decide whether an array fits on one line.
func (w *tomlWriter) value(v any, key string, indent int) (string, error) {
	switch t := v.(type) {
	case string:
		return tomlString(t), nil
	case document.Block:
		return tomlString(string(t)), nil
	case bool:
		return strconv.FormatBool(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return tomlFloat(t), nil
	case document.DateTime:
		return string(t), nil
	case *document.Map:
		if t == nil {
			break
		}
		if t.Len() == 0 {
			return "{}", nil
		}
		parts := make([]string, 0, t.Len())
		for _, e := range t.Entries() {
			s, err := w.value(e.Value, joinKey(key, e.Key), 0)
			if err != nil {
				return "", err
			}
			parts = append(parts, quoteKey(e.Key)+" = "+s)
		}
		return "{ " + strings.Join(parts, ", ") + " }", nil
	case *document.Seq:
		if t == nil {
			break
		}
		return w.array(t, key, indent)
	case *document.TableSeq:
		if t == nil {
			break
		}
		seq := document.NewSeq()
		for _, m := range t.Tables() {
			seq.Append(m)
		}
		return w.array(seq, key, indent)
	}
	return "", &SerializationError{Format: "TOML", Key: key, Value: v}
}

func (w *tomlWriter) array(seq *document.Seq, key string, indent int) (string, error) {
	parts := make([]string, 0, seq.Len())
	multi := seq.HasComments()
	for i, item := range seq.Items() {
		s, err := w.value(item, fmt.Sprintf("%s[%d]", key, i), 0)
		if err != nil {
			return "", err
		}
		if strings.Contains(s, "\n") {
			multi = true
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 && len(seq.Trailer) == 0 {
		return "[]", nil
	}
	one := "[" + strings.Join(parts, ", ") + "]"
	if !multi && indent+len(one) <= tomlArrayWidth {
		return one, nil
	}
	var b strings.Builder
	b.WriteString("[\n")
	for i, p := range parts {
		note := seq.CommentsAt(i)
		for _, c := range note.Comments {
			b.WriteString("    " + c + "\n")
		}
		b.WriteString("    " + p + ",")
		if note.Inline != "" {
			b.WriteString("  " + note.Inline)
		}
		b.WriteString("\n")
	}
	for _, c := range seq.Trailer {
		b.WriteString("    " + c + "\n")
	}
	b.WriteString("]")
	return b.String(), nil
}

// isSection reports whether v is written as a [table] or [[array]] section
// rather than as a key/value.
func isSection(v any) bool {
	switch t := v.(type) {
	case *document.Map:
		return t != nil && !t.InlineStyle
	case *document.TableSeq:
		return t.Len() > 0
	}
	return false
}

func withComments(m *document.Map, comments []string) *document.Map {
	out := *m
	out.Comments = append(append([]string(nil), comments...), m.Comments...)
	return &out
}

func appendPath(path []string, key string) []string {
	out := make([]string, 0, len(path)+1)
	return append(append(out, path...), key)
}

func dottedKey(path []string) string {
	parts := make([]string, len(path))
	for i, p := range path {
		parts[i] = quoteKey(p)
	}
	return strings.Join(parts, ".")
}

func quoteKey(k string) string {
	if bareKey.MatchString(k) {
		return k
	}
	return tomlString(k)
}

func tomlFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// tomlString quotes s as a basic string, or as a multi-line basic string when
// it spans lines.
func tomlString(s string) string {
	if strings.Contains(s, "\n") {
		return tomlMultiline(s)
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			writeTOMLRune(&b, r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func tomlMultiline(s string) string {
	var b strings.Builder
	b.WriteString("\"\"\"\n")
	quotes := 0
	for _, r := range s {
		if r == '"' {
			quotes++
			if quotes == 3 {
				b.WriteString(`\"`)
				quotes = 0
				continue
			}
			b.WriteRune(r)
			continue
		}
		quotes = 0
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteByte('\n')
		default:
			writeTOMLRune(&b, r)
		}
	}
	if quotes > 0 {
		// A closing quote right before the delimiter is ambiguous.
		str := b.String()
		str = str[:len(str)-quotes] + strings.Repeat(`\"`, quotes)
		b.Reset()
		b.WriteString(str)
	}
	b.WriteString(`"""`)
	return b.String()
}

func writeTOMLRune(b *strings.Builder, r rune) {
	switch r {
	case '\b':
		b.WriteString(`\b`)
	case '\t':
		b.WriteString(`\t`)
	case '\n':
		b.WriteString(`\n`)
	case '\f':
		b.WriteString(`\f`)
	case '\r':
		b.WriteString(`\r`)
	default:
		if r < 0x20 || r == 0x7f {
			fmt.Fprintf(b, `\u%04X`, r)
			return
		}
		b.WriteRune(r)
	}
}
