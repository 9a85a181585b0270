// Package db hosts the database adapters consumed by the caching engine
// and the literal-rendering helpers they share.
//
// Each adapter owns quoting for its dialect: the query compiler delegates
// all escaping to the adapter's Quote method and never inspects SQL
// itself. Subpackages sqlite and postgres provide working adapters; any
// type satisfying engine.Database can be used instead.
package db
