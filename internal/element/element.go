package element

import (
	"fmt"
)

// Reserved top-level keys that never get copied into a normalized
// metadata record.
const (
	keyText       = "text"
	keyMetadata   = "metadata"
	keyEmbeddings = "embeddings"
	keyType       = "type"
	keyPageNumber = "page_number"
	keyPage       = "page"
)

// tableType is the element type whose text is eligible for table-text
// substitution.
const tableType = "Table"

// Element is one unit of a partitioned document as emitted by the
// ingest tool. It stays a plain map so unknown top-level keys survive
// the read-mutate-rewrite cycle untouched.
type Element map[string]any

// Text returns the element's text. Absence or a non-string value is a
// structural fault in the tool's output.
func (e Element) Text() (string, bool) {
	text, ok := e[keyText].(string)
	return text, ok
}

// Metadata returns the element's metadata mapping.
func (e Element) Metadata() (map[string]any, bool) {
	meta, ok := e[keyMetadata].(map[string]any)
	return meta, ok
}

// Type returns the element type, or "" when absent.
func (e Element) Type() string {
	t, _ := e[keyType].(string)
	return t
}

// StructuralError reports a malformed element in the ingest tool's
// output. It is unrecoverable: the file is not partially processed.
type StructuralError struct {
	Path  string
	Index int
	Key   string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("element %d in %s: missing or invalid required key %q", e.Index, e.Path, e.Key)
}
