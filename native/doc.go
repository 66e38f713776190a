// Package native describes the HDF5-style container backend that the schema
// builder introspects.
//
// The backend is handle based: every open group, dataset, attribute,
// dataspace and datatype is identified by a [Handle] that must be released
// exactly once with [Backend.Close]. Handles are plain integers so that a
// backend can be a thin layer over a C library, a pure Go reader or the
// in-memory test double used by this module.
//
// # Datatype classes
//
// Datatypes are classified the way the HDF5 file format classifies them:
//
//	Class          | Meaning
//	---------------|------------------------------------------
//	ClassInteger   | fixed-point numbers (signed or unsigned)
//	ClassFloat     | floating-point numbers
//	ClassTime      | time values (obsolete in HDF5)
//	ClassString    | fixed or variable length strings
//	ClassBitfield  | bit fields
//	ClassOpaque    | uninterpreted bytes
//	ClassCompound  | records of named members
//	ClassReference | object or region references
//	ClassEnum      | named integer values
//	ClassVarLen    | variable-length sequences
//	ClassArray     | fixed-size arrays of a base type
//
// # Identity
//
// Two paths can reach the same physical object through hard links. An
// [IdentityKey] names the physical object regardless of the path used to
// reach it, and is what the schema builder uses to visit each object once.
package native
