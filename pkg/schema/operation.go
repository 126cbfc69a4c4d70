package schema

//go:generate go run github.com/dmarkham/enumer -type Operation -trimprefix Op -transform lower -json -text -yaml -output operation.gen.go

// Operation is a grantable access token. OpAll is only ever granted, never
// requested; the permission evaluator expands it.
type Operation int

const (
	OpAll Operation = iota
	OpCreate
	OpRead
	OpUpdate
	OpDelete
)
