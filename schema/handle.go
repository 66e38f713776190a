package schema

import "github.com/robert-malhotra/go-hdf5-schema/native"

// OwnedHandle is a native handle together with the backend that closes it.
// The zero value holds no handle.
type OwnedHandle struct {
	backend native.Backend
	id      native.Handle
}

func own(backend native.Backend, id native.Handle) OwnedHandle {
	return OwnedHandle{backend: backend, id: id}
}

// ID returns the native handle, or native.InvalidHandle.
func (h OwnedHandle) ID() native.Handle { return h.id }

// Valid reports whether h holds an open handle.
func (h OwnedHandle) Valid() bool {
	return h.backend != nil && h.id.Valid()
}

// Close closes the handle. Closing an empty or already closed OwnedHandle is
// a no-op.
func (h *OwnedHandle) Close() error {
	if !h.Valid() {
		return nil
	}
	id := h.id
	h.id = native.InvalidHandle
	if err := h.backend.Close(id); err != nil {
		return backendErr("Close", err)
	}
	return nil
}
