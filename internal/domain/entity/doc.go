// Package entity defines the record types managed by the portal store.
//
// Records are plain data shapes: integer ids unique within a kind, typed
// status enums, and server-assigned timestamps. Foreign ids between kinds
// (StudentID, TeacherID, CompanyID, ...) are soft references - the store
// never enforces referential integrity, so a dangling reference is a caller
// error, not a store fault.
//
// Each mutable kind has a companion Patch type with all-pointer fields.
// A nil field means "leave unchanged"; updates are shallow merges, never
// whole-record replacements.
package entity
