// Package pipeline turns loaded export tables into persisted teaching records.
//
// A run has four stages, executed strictly in order:
//
//  1. Merge concatenates the tables in input order and keeps the ICAR/17 rows.
//  2. Extract derives the eight entity collections, first row per key winning.
//  3. CheckReferences reports foreign keys the extracted set cannot satisfy.
//  4. Each record is handed to a teachload.Sink, one unit of work per key.
//
// Extraction finishes before the first write, so a coercion failure leaves
// the database untouched.
package pipeline
