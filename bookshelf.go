// Package bookshelf provides the schema and resolvers for a small catalogue of authors and books.
package bookshelf

import (
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
	"go.uber.org/zap"

	"github.com/graph-gophers/bookshelf/internal/dataset"
)

// Schema is the GraphQL schema served by the bookshelf.
//
//go:embed schema.graphql
var Schema string

// Resolver is the root resolver for both queries and mutations.
type Resolver struct {
	ds     *dataset.Dataset
	logger *zap.Logger
}

// NewResolver returns a root resolver backed by ds. A nil logger discards output.
func NewResolver(ds *dataset.Dataset, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{ds: ds, logger: logger}
}

// NewSchema parses Schema against r.
func NewSchema(r *Resolver, opts ...graphql.SchemaOpt) (*graphql.Schema, error) {
	return graphql.ParseSchema(Schema, r, opts...)
}

// MustNewSchema is like NewSchema but panics on error.
func MustNewSchema(r *Resolver, opts ...graphql.SchemaOpt) *graphql.Schema {
	return graphql.MustParseSchema(Schema, r, opts...)
}
