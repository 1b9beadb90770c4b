package mutate

import (
	"errors"
	"fmt"
)

var ErrInvalidKind = errors.New("invalid node type")

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
