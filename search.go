package gcb

import (
	"path/filepath"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
)

// trawl is an internal general-purpose directory walk. The basename is
// matched against pattern, e.g. ("*.json", "cl_dict.json").
func trawl(vfs *tiledb.VFS, pattern string, uri string, items []string) []string {
	dirs, files, err := vfs.List(uri)
	if err != nil {
		panic(err)
	}

	for _, file := range files {
		match, err := filepath.Match(pattern, filepath.Base(file))
		if err != nil {
			panic(err)
		}
		if match {
			items = append(items, file)
		}
	}

	for _, dir := range dirs {
		items = trawl(vfs, pattern, dir, items)
	}

	return items
}

// FindDictionaries recursively searches for files matching pattern (e.g.
// "*.json") under uri, using the TileDB Go bindings so the search works
// uniformly across local filesystems and object stores such as S3.
// configURI, if non-empty, names a TileDB config file carrying credentials
// for the latter. Despite the name this is used to trawl both dictionary
// files and recognizer-result files; the pattern argument distinguishes.
func FindDictionaries(uri string, configURI string, pattern string) []string {
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

	items := make([]string, 0)
	items = trawl(vfs, pattern, uri, items)

	return items
}
