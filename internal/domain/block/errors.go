package block

import "errors"

var (
	ErrSelfBlock     = errors.New("cannot block yourself")
	ErrDuplicateEdge = errors.New("block edge already exists")
)
