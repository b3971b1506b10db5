// Package catalog is the SQLite-backed ingredient catalog: it resolves
// fragrance material names to canonical records carrying the CAS
// number, olfactive family, volatility note class, and logP used by the
// formula profiler and the compliance API.
//
// The catalog seeds itself from an embedded material set the first time
// it opens an empty database. Subsequent opens leave the database
// untouched, so records added or edited by operators persist. Lookups
// are case-insensitive and fall back to bidirectional substring
// matching, which resolves trade spellings like "bergamot oil
// expressed" to the cataloged "Bergamot Oil".
package catalog
