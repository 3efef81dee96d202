package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Format renders v on one line for logs and error messages, e.g.
// {"repo": "local", "hooks": [{"id": "prettier"}]}.
func Format(v any) string {
	var sb strings.Builder
	writeFormat(&sb, v)
	return sb.String()
}

func writeFormat(sb *strings.Builder, v any) {
	switch t := v.(type) {
	case *Map:
		if t == nil {
			sb.WriteString("null")
			return
		}
		sb.WriteByte('{')
		for i, e := range t.Entries() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(e.Key))
			sb.WriteString(": ")
			writeFormat(sb, e.Value)
		}
		sb.WriteByte('}')
	case *Seq:
		if t == nil {
			sb.WriteString("null")
			return
		}
		sb.WriteByte('[')
		for i, item := range t.Items() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeFormat(sb, item)
		}
		sb.WriteByte(']')
	case *TableSeq:
		if t == nil {
			sb.WriteString("null")
			return
		}
		sb.WriteByte('[')
		for i, m := range t.Tables() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeFormat(sb, m)
		}
		sb.WriteByte(']')
	case string:
		sb.WriteString(strconv.Quote(t))
	case Block:
		sb.WriteString(strconv.Quote(string(t)))
	case DateTime:
		sb.WriteString(string(t))
	case nil:
		sb.WriteString("null")
	default:
		fmt.Fprintf(sb, "%v", t)
	}
}
