package gcb

import (
	"bytes"
	"encoding/binary"
	"io"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// Stream caters for a generic reader type so callers can hand either a
// stream backed by a file on disk/object store, or an in-memory byte
// stream, to the same code path. Dictionary loading deals with either a
// *tiledb.VFSfh or a *bytes.Reader, and all that's needed of either is
// Read and Seek.
type Stream interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
}

// GenericStream optionally slurps a VFS handle into memory up front, so
// that random-access Seek works uniformly regardless of the underlying
// backend (some object-store VFS backends do not support seeking).
func GenericStream(stream *tiledb.VFSfh, size uint64, inmem bool) (Stream, error) {
	if !inmem {
		return stream, nil
	}

	buffer := make([]byte, size)
	if err := binary.Read(stream, binary.BigEndian, &buffer); err != nil {
		return nil, err
	}
	return bytes.NewReader(buffer), nil
}

// readVFSFile opens uri through a TileDB VFS and reads it fully into
// memory via GenericStream(inmem=true), so a dictionary URI backed by an
// object-store VFS that doesn't support Seek still reads uniformly.
func readVFSFile(ctx *tiledb.Context, vfs *tiledb.VFS, uri string) ([]byte, error) {
	handle, err := vfs.Open(uri, tiledb.TILEDB_VFS_READ)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	size, err := vfs.FileSize(uri)
	if err != nil {
		return nil, err
	}

	stream, err := GenericStream(handle, size, true)
	if err != nil {
		return nil, err
	}

	buffer := make([]byte, size)
	if _, err := io.ReadFull(stream, buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}
