package cli

import (
	"errors"

	"smeta/internal/estimate"
	"smeta/internal/mutate"
	"smeta/internal/store"
)

// Exit codes returned by the smeta binary.
const (
	ExitFailure    = 1
	ExitConnection = 2
	ExitLoad       = 3
	ExitNotFound   = 4
)

// ExitCode classifies an error returned by Execute.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ce *store.ConnectionError
	var qe *store.QueryError
	var oe *estimate.OrphanError
	var nf mutate.NotFoundError
	switch {
	case errors.As(err, &ce):
		return ExitConnection
	case errors.As(err, &qe), errors.As(err, &oe):
		return ExitLoad
	case errors.As(err, &nf):
		return ExitNotFound
	default:
		return ExitFailure
	}
}

func errNotFound(ref string, kind string) error {
	return mutate.NotFoundError{Kind: kind, ID: ref}
}
