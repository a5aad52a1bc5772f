// Package encode prepares parser output for the overlay-rendering
// orchestrator (§6): it marshals []gcb.FrameResult and writes the raw
// bytes wherever the caller points it, local disk or object store, via
// TileDB's VFS.
package encode

import (
	"encoding/json"

	tiledb "github.com/TileDB-Inc/TileDB-Go"

	"github.com/ajiponzu/gcb-parser"
)

// MarshalResults serialises a frame/instance result list to indented
// JSON, matching the §6 output contract.
func MarshalResults(results []gcb.FrameResult) ([]byte, error) {
	return json.MarshalIndent(results, "", "    ")
}

// WriteJSON writes pre-marshaled bytes to fileURI. configURI, if
// non-empty, names a TileDB config file for object-store credentials.
func WriteJSON(fileURI string, configURI string, data []byte) (int, error) {
	var config *tiledb.Config
	var err error

	if configURI == "" {
		config, err = tiledb.NewConfig()
		if err != nil {
			panic(err)
		}
	} else {
		config, err = tiledb.LoadConfig(configURI)
		if err != nil {
			panic(err)
		}
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		panic(err)
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		panic(err)
	}
	defer vfs.Free()

	stream, err := vfs.Open(fileURI, tiledb.TILEDB_VFS_WRITE)
	if err != nil {
		panic(err)
	}
	defer stream.Close()

	bytesWritten, err := stream.Write(data)
	if err != nil {
		return 0, err
	}

	return bytesWritten, nil
}
