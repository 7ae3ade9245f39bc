// pkg/types/value.go
package types

// ValueType identifies the representation a caller wants a column read as.
// Every QueryResult and MergedResult read is keyed by one of these tags.
type ValueType int

const (
	// TypeObject returns the raw driver value without coercion.
	TypeObject ValueType = iota
	TypeBool
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeDecimal
	TypeString
	TypeBytes
	TypeDate
	TypeTime
	TypeTimestamp
	TypeURL
	TypeBlob
	TypeClob
	TypeXML
	// TypeReader reads the column as a character stream.
	TypeReader
)

var valueTypeNames = map[ValueType]string{
	TypeObject:    "OBJECT",
	TypeBool:      "BOOL",
	TypeInt8:      "INT8",
	TypeInt16:     "INT16",
	TypeInt32:     "INT32",
	TypeInt64:     "INT64",
	TypeFloat32:   "FLOAT32",
	TypeFloat64:   "FLOAT64",
	TypeDecimal:   "DECIMAL",
	TypeString:    "STRING",
	TypeBytes:     "BYTES",
	TypeDate:      "DATE",
	TypeTime:      "TIME",
	TypeTimestamp: "TIMESTAMP",
	TypeURL:       "URL",
	TypeBlob:      "BLOB",
	TypeClob:      "CLOB",
	TypeXML:       "XML",
	TypeReader:    "READER",
}

// String returns the string representation of the value type
func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return "UNKNOWN"
}

// IsTemporal reports whether the type accepts a calendar (time zone) qualifier.
func (t ValueType) IsTemporal() bool {
	return t == TypeDate || t == TypeTime || t == TypeTimestamp
}

// StreamKind names the encoding of a column read as an input stream.
type StreamKind string

const (
	StreamASCII   StreamKind = "Ascii"
	StreamUnicode StreamKind = "Unicode"
	StreamBinary  StreamKind = "Binary"
)

// Blob is a binary large object column value.
type Blob []byte

// Clob is a character large object column value.
type Clob string

// XML is an XML document column value.
type XML string
