// Package memfile is an in-memory native container that implements
// native.Backend.
//
// A File is built with the same vocabulary as an HDF5 writer: groups,
// datasets with a datatype and a dataspace, attributes, hard links, soft
// links and committed datatypes.
//
//	f := memfile.New()
//	root := f.Root()
//	ds, _ := root.CreateDataset("temperature", memfile.Int(4, true), []uint64{10, 5},
//	    memfile.WithAttribute("units", memfile.FixedString(8)))
//	meta, _ := root.CreateGroup("meta")
//	_ = meta.Link("alias", ds) // second hard link to the same dataset
//
// # Handle accounting
//
// Every handle the backend hands out is recorded. [File.Stats] reports how
// many were opened and closed, [File.OpenHandles] lists the ones still open
// and closing a handle twice is counted and reported as an error. This makes
// the file usable as a leak detector for code that owns native handles.
//
// # Fault injection
//
// [File.FailAfter] makes the n-th backend call fail and [File.FailOn] makes
// every call of one operation fail. Close is never counted and never fails
// by injection.
//
// A File is not safe for concurrent use.
package memfile
