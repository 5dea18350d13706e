package vectorstore

import "errors"

var ErrLengthMismatch = errors.New("docs, ids and metadata lengths differ")
