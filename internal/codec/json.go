package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/conformalize/conformalize/internal/document"
)

type jsonCodec struct{}

func (jsonCodec) Name() string { return "JSON" }

func (jsonCodec) Empty() *document.Map { return document.NewMap() }

func (jsonCodec) Equal(a, b *document.Map) bool { return mapEqual(a, b) }

// Decode parses a JSON object keeping its key order. Whole numbers decode as
// integers.
func (jsonCodec) Decode(data []byte) (*document.Map, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return document.NewMap(), nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeJSON(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing JSON: unexpected data after the top-level value")
	}
	m, ok := v.(*document.Map)
	if !ok {
		return nil, fmt.Errorf("parsing JSON: %w", &document.TypeMismatchError{Want: "mapping", Got: document.KindOf(v)})
	}
	return m, nil
}

func decodeJSON(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := document.NewMap()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, _ := keyTok.(string)
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			seq := document.NewSeq()
			for dec.More() {
				v, err := decodeJSON(dec)
				if err != nil {
					return nil, err
				}
				seq.Append(v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	}
	// string, bool or nil
	return tok, nil
}

// Encode writes the document with two-space indentation, without HTML
// escaping, and with a trailing newline.
func (jsonCodec) Encode(doc *document.Map) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, doc, "", ""); err != nil {
		return nil, err
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, v any, indent, key string) error {
	inner := indent + "  "
	switch t := v.(type) {
	case *document.Map:
		if t == nil {
			break
		}
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, e := range t.Entries() {
			buf.WriteString(inner)
			writeJSONString(buf, e.Key)
			buf.WriteString(": ")
			if err := writeJSON(buf, e.Value, inner, joinKey(key, e.Key)); err != nil {
				return err
			}
			if i < t.Len()-1 {
				buf.WriteByte(',')
			}
			buf.WriteByte('\n')
		}
		buf.WriteString(indent + "}")
		return nil
	case *document.Seq:
		if t == nil {
			break
		}
		return writeJSONArray(buf, t.Items(), indent, key)
	case *document.TableSeq:
		if t == nil {
			break
		}
		items := make([]any, 0, t.Len())
		for _, m := range t.Tables() {
			items = append(items, m)
		}
		return writeJSONArray(buf, items, indent, key)
	case string:
		writeJSONString(buf, t)
		return nil
	case document.Block:
		writeJSONString(buf, string(t))
		return nil
	case document.DateTime:
		writeJSONString(buf, string(t))
		return nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			break
		}
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case int64, bool:
		b, err := json.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	case nil:
		buf.WriteString("null")
		return nil
	}
	return &SerializationError{Format: "JSON", Key: key, Value: v}
}

func writeJSONArray(buf *bytes.Buffer, items []any, indent, key string) error {
	if len(items) == 0 {
		buf.WriteString("[]")
		return nil
	}
	inner := indent + "  "
	buf.WriteString("[\n")
	for i, item := range items {
		buf.WriteString(inner)
		if err := writeJSON(buf, item, inner, fmt.Sprintf("%s[%d]", key, i)); err != nil {
			return err
		}
		if i < len(items)-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(indent + "]")
	return nil
}

func writeJSONString(buf *bytes.Buffer, s string) {
	var b bytes.Buffer
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	// Encoding a string cannot fail.
	_ = enc.Encode(s)
	buf.WriteString(strings.TrimSuffix(b.String(), "\n"))
}
