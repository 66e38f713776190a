package portable

import (
	"strconv"
	"strings"
)

// String renders t as a compact one-line description.
func (t *Type) String() string {
	var sb strings.Builder
	t.format(&sb)
	return sb.String()
}

func (t *Type) format(sb *strings.Builder) {
	switch t.class {
	case ClassInteger, ClassReal:
		if t.readType == ReadNotAvailable {
			sb.WriteString(t.class.String())
		} else {
			sb.WriteString(t.readType.String())
		}
	case ClassText:
		sb.WriteString("text")
	case ClassArray:
		sb.WriteString("array[")
		for i, d := range t.dims {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.FormatInt(d, 10))
		}
		sb.WriteString("] of ")
		if t.base == nil {
			sb.WriteByte('?')
		} else {
			t.base.format(sb)
		}
	case ClassRecord:
		formatFields(sb, "record", t.fields)
	}

	if t.attributes != nil && len(t.attributes.fields) > 0 {
		sb.WriteString(" with ")
		formatFields(sb, "attributes", t.attributes.fields)
	}
}

func formatFields(sb *strings.Builder, keyword string, fields []Field) {
	sb.WriteString(keyword)
	if len(fields) == 0 {
		sb.WriteString("{}")
		return
	}
	sb.WriteString("{ ")
	for i, f := range fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.Name)
		sb.WriteString(": ")
		f.Type.format(sb)
	}
	sb.WriteString(" }")
}
