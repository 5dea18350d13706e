package query

import (
	"github.com/okian/medals/internal/domain/alias"
	"github.com/okian/medals/pkg/logger"
)

// Option configures a Resolver.
type Option func(*Resolver)

// WithAliases replaces the embedded alias table.
func WithAliases(t *alias.Table) Option {
	return func(r *Resolver) {
		if t != nil {
			r.aliases = t
		}
	}
}

// WithLogger sets the logger used for debug traces of parsed questions.
func WithLogger(l logger.Logger) Option {
	return func(r *Resolver) {
		if l != nil {
			r.log = l
		}
	}
}
