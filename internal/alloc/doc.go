// Package alloc accounts for the memory a schema build allocates.
//
// Go does not report allocation failure, so the schema builder charges every
// node, slice and type definition it creates to an [Allocator] before
// creating it. The allocator turns two conditions into an allocation failure
// ([Error]) that carries the requested size and the call site:
//
//   - Budget: the total charged to the allocator would exceed its limit.
//     This bounds the memory a build over an untrusted container may use.
//   - Fault injection: the n-th allocation is forced to fail ([Allocator.FailAt]),
//     which lets tests exercise every allocation site.
//
// # Usage
//
//	a := alloc.New(64 << 20) // 64 MiB budget, 0 means unlimited
//	if err := a.Alloc(128, alloc.Site(1)); err != nil {
//	    return err // *alloc.Error
//	}
//
// Charges are tracked per call site for reporting ([Allocator.Sites]).
package alloc
