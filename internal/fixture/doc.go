// Package fixture loads container layouts written in YAML into in-memory
// files.
//
// A layout is the root group:
//
//	attributes:
//	  - {name: title, type: string(16)}
//	children:
//	  - name: temperature
//	    dataset:
//	      type: int32
//	      shape: [10, 5]
//	      attributes:
//	        - {name: units, type: string(8)}
//	  - name: meta
//	    group:
//	      children:
//	        - name: flag
//	          dataset: {type: {enum: uint8}}
//	  - {name: alias, link: /temperature}
//	  - {name: shortcut, softlink: /meta}
//	  - {name: flag_t, datatype: {enum: uint8}}
//
// Types are written as a name (int8 ... int64, uint8 ... uint64, int(N) and
// uint(N) for N bytes, float32, float64, float(size,precision), string for
// variable length, string(N), time, bitfield, opaque, reference, none) or as
// a mapping with one of the keys enum, compound, array (with dims) or vlen.
//
// A dataset or attribute without a shape is scalar; nullspace: true gives it a
// null dataspace. Hard links are resolved after every object was created,
// so they may point forward.
package fixture
