// Package store persists teaching records.
//
// PostgresSink writes to PostgreSQL with INSERT ... ON CONFLICT DO NOTHING,
// one transaction per record, and creates the schema through an embedded
// goose migration. MemorySink provides the same insert-if-absent contract in
// memory for dry runs and tests.
package store
