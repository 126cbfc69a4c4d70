package schema

//go:generate go run github.com/dmarkham/enumer -type FieldType -trimprefix Type -transform lower -json -text -yaml -output fieldtype.gen.go

// FieldType is the closed set of column types a field may declare.
type FieldType int

const (
	TypeString FieldType = iota
	TypeNumber
	TypeBoolean
	TypeDate
	TypeJSON
)
