package alias

import "errors"

var (
	ErrLoadTable  = errors.New("alias table load failed")
	ErrEmptyEntry = errors.New("empty alias entry")
	ErrCollision  = errors.New("alias collision")
)
