package follow

import "errors"

var (
	ErrSelfFollow    = errors.New("cannot follow yourself")
	ErrDuplicateEdge = errors.New("follow edge already exists")
)
