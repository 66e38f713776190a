// Package schema translates the structure of a hierarchical native container
// into portable type definitions.
//
// Open walks a container through a native.Backend and builds a tree of
// runtime nodes, one per group, dataset, attribute and datatype that can be
// represented. Every node carries a portable definition (see package
// portable) and the native handles a reader needs to fetch the data later.
//
//	f := memfile.New()
//	// ... populate f ...
//	loc := f.Open()
//	defer f.Close(loc)
//
//	s, err := schema.Open(f, loc, "/")
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//	fmt.Println(s.Root().Definition())
//
// # What is kept
//
// Integers of up to eight bytes, enumerations (as their integer base type),
// IEEE single and double precision floats, strings and compound records of
// those are mapped. Everything else is skipped: the object, member or
// attribute is left out of the tree and the skip is logged at debug level.
// Skipping is never an error.
//
// Hard links make a container a graph. Each physical object is materialized
// once, under the first path that reaches it, and every later path to it is
// dropped. A group is registered before its children are visited, so a link
// back to an ancestor is dropped as well.
//
// # Ownership
//
// Every native handle is owned by exactly one node and closed exactly once
// by Release, including on every error path during construction.
// Session.Close releases the whole tree.
package schema
