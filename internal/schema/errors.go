package schema

import "errors"

// Domain errors for the schema package.
//
// These errors can be checked using errors.Is() for error handling:
//
//	if errors.Is(err, schema.ErrUnknownType) {
//	    // schema is malformed; programming/configuration error
//	}
var (
	// ErrNilNode is returned when an operation is given a nil schema node.
	ErrNilNode = errors.New("schema: nil node")

	// ErrUnknownType is returned when a node declares neither a recognised
	// type nor a default value. This indicates a malformed schema, not a
	// user-facing failure.
	ErrUnknownType = errors.New("schema: unknown type")

	// ErrMalformedSchema is returned when schema JSON cannot be parsed.
	ErrMalformedSchema = errors.New("schema: malformed document")
)
