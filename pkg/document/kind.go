package document

// Kind classifies a content value.
type Kind int

const (
	KindUnknown Kind = iota
	KindText
	KindElement
	KindSequence
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindElement:
		return "element"
	case KindSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// KindOf returns the content kind of a normalized value.
func KindOf(v any) Kind {
	switch v.(type) {
	case string:
		return KindText
	case Table:
		return KindElement
	case []any:
		return KindSequence
	default:
		return KindUnknown
	}
}

// TypeName returns the TOML name of a normalized value's type.
func TypeName(v any) string {
	switch v.(type) {
	case string:
		return "string"
	case Table:
		return "table"
	case []any:
		return "array"
	case int64, int, uint64:
		return "integer"
	case float64:
		return "float"
	case bool:
		return "boolean"
	case nil:
		return "nothing"
	default:
		return "datetime"
	}
}
