// Package portable provides the small closed type system that native
// container schemas are narrowed into.
//
// A portable [Type] is one of:
//
//	Class         | Description
//	--------------|------------------------------------------------
//	ClassInteger  | fixed-width integer, read as int8..int64/uint8..uint64
//	ClassReal     | floating-point number, read as float or double
//	ClassText     | text
//	ClassArray    | array with fixed dimensions of a base type
//	ClassRecord   | ordered named fields
//
// Any type may carry an attribute record ([Type.SetAttributes]).
//
// # Reference counting
//
// Types are shared: a record field, an array base type and an attribute
// record each hold a reference to the type they point at. A constructor
// returns a type holding one reference owned by the caller. [Type.Retain]
// adds a reference and [Type.Release] drops one; the last release drops the
// references the type holds on its children.
//
// # Rendering
//
// [Type.String] renders a compact description, for example:
//
//	record{ temperature: array[10,5] of int32, meta: record{ flag: array[] of uint8 } }
package portable
