// Package jsondb implements the single-file JSON document store backing the
// portal.
//
// The whole database lives in one database.json file: a fixed set of named
// collections, each an ordered list of records. The file is loaded as a unit,
// cached in memory with a short TTL, and rewritten as a unit on every
// mutation. Reads are expressed as structured Query values (filter clauses,
// optional join shape, ordering, limit) bound against a positional parameter
// list; writes go through Insert and Update which assign integer identities,
// stamp timestamps and persist synchronously.
//
// The store is strictly single-process: there is no file locking and a second
// writer process will lose updates. Records are never physically removed in
// the normal flow; deletion sets deleted_at and read queries skip such
// records.
package jsondb
