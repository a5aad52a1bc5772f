package gcb

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	tiledb "github.com/TileDB-Inc/TileDB-Go"
	"github.com/samber/lo"
)

// dictionaryFile mirrors the on-disk JSON shape of §6: "pat" maps a pattern
// id to its canonical pattern string; "dTexp" maps a duration-ms key to an
// offset-ms table, each entry a list whose head is the pattern id.
type dictionaryFile struct {
	Pat   map[string]string            `json:"pat"`
	DTexp map[string]map[string][]any `json:"dTexp"`
}

// Dictionary is one beacon type's immutable pattern dictionary (C1). It is
// read-only after LoadDictionary returns, so it is safe to share by reference across
// however the per-frame loop (C8) parallelizes.
type Dictionary struct {
	beaconType BeaconType
	patterns   map[string]string
	dTexp      map[string]map[string][]any
	durations  []float64 // dTexp keys parsed to ms, ascending, index-aligned with durationKeys
	durationKeys []string
}

// LoadDictionary reads one beacon type's dictionary JSON from uri (via a
// TileDB VFS, so local paths and object-store URIs both work) and indexes
// it for lookup. Failure here is a ConfigError (§7): callers should treat
// it as fatal at startup.
func LoadDictionary(beaconType BeaconType, uri string, configURI string) (*Dictionary, error) {
	var config *tiledb.Config
	var err error

	if configURI == "" {
		config, err = tiledb.NewConfig()
	} else {
		config, err = tiledb.LoadConfig(configURI)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDictionaryLoad, uri, err)
	}
	defer config.Free()

	ctx, err := tiledb.NewContext(config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDictionaryLoad, uri, err)
	}
	defer ctx.Free()

	vfs, err := tiledb.NewVFS(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDictionaryLoad, uri, err)
	}
	defer vfs.Free()

	raw, err := readVFSFile(ctx, vfs, uri)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDictionaryLoad, uri, err)
	}

	return parseDictionary(beaconType, raw)
}

func parseDictionary(beaconType BeaconType, raw []byte) (*Dictionary, error) {
	var file dictionaryFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDictionaryLoad, err)
	}

	keys := lo.Keys(file.DTexp)
	durations := make([]float64, len(keys))
	for i, k := range keys {
		v, err := strconv.ParseFloat(k, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad dTexp key %q: %v", ErrDictionaryLoad, k, err)
		}
		durations[i] = v
	}

	// sort keys/durations together, ascending, so Lookup's linear scan meets
	// the smaller key first on a tie.
	for i := 1; i < len(durations); i++ {
		for j := i; j > 0 && durations[j] < durations[j-1]; j-- {
			durations[j], durations[j-1] = durations[j-1], durations[j]
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}

	return &Dictionary{
		beaconType:   beaconType,
		patterns:     file.Pat,
		dTexp:        file.DTexp,
		durations:    durations,
		durationKeys: keys,
	}, nil
}

// Lookup returns the dTexp key nearest to dTexpMs (ties broken toward the
// smaller key) and its offset table (§4.1 I4). ok is false if the
// dictionary has no duration keys at all.
func (d *Dictionary) Lookup(dTexpMs float64) (chosenKey string, table map[string][]any, ok bool) {
	if len(d.durations) == 0 {
		return "", nil, false
	}

	best := 0
	bestDist := math.Abs(d.durations[0] - dTexpMs)
	for i := 1; i < len(d.durations); i++ {
		dist := math.Abs(d.durations[i] - dTexpMs)
		if dist < bestDist {
			best, bestDist = i, dist
		}
		// tie broken toward the smaller key: durations is ascending, so the
		// first equal-distance candidate encountered is already the
		// smaller one and later ties are skipped by the strict "<" above.
	}

	key := d.durationKeys[best]
	return key, d.dTexp[key], true
}

// Pattern returns the canonical pattern string for a pattern id, or "" if
// the id is unknown to this dictionary.
func (d *Dictionary) Pattern(id string) (string, bool) {
	p, ok := d.patterns[id]
	return p, ok
}
