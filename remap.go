package gcb

import (
	"fmt"

	"github.com/samber/lo"
)

// idTables holds the bidirectional IDn<->canonical-label map for one beacon
// type, built once at package init the same way decode.go builds
// InvSubRecordNames = lo.Invert(SubRecordNames).
type idTables struct {
	id2bid map[string]string
	bid2id map[string]string
}

// buildIDTables generates the IDn -> label bijection deterministically from
// the canonical index (SPEC_FULL.md §7), rather than hand-coding the literal
// per-revision wiring table original_source embeds: for canonical positive
// label k (1-indexed), ID(2k-1) is the positive label and ID(2k) is its
// complement. CL-Beacon's reserved R1..R11 positions get no ID.
func buildIDTables(idx *CanonicalIndex) idTables {
	id2bid := make(map[string]string, 2*idx.Cardinality())
	for k, label := range idx.Labels() {
		if idx.beaconType == CLBeacon && k >= clMeaningfulCount {
			break
		}
		id2bid[fmt.Sprintf("ID%d", 2*k+1)] = label
		id2bid[fmt.Sprintf("ID%d", 2*k+2)] = "n" + label
	}
	return idTables{
		id2bid: id2bid,
		bid2id: lo.Invert(id2bid),
	}
}

var (
	clIDTables = buildIDTables(clIndex)
	cmIDTables = buildIDTables(cmIndex)
)

func tablesFor(beaconType BeaconType) (idTables, bool) {
	switch beaconType {
	case CLBeacon:
		return clIDTables, true
	case CMBeacon:
		return cmIDTables, true
	default:
		return idTables{}, false
	}
}

// ConvertID2BID translates raw recognizer LED labels (IDn) into canonical bit
// labels (B0..B9, PPS, and complements nB0..nB9, nPPS), per §4.2. It walks
// the canonical index once, copying positive and complement entries where
// present in idResult; missing entries stay absent (no error on partial
// maps). Returns false if beaconType is not recognised.
func ConvertID2BID(beaconType BeaconType, idResult map[string]LedReading) (map[string]LedReading, bool) {
	idx := Index(beaconType)
	tables, ok := tablesFor(beaconType)
	if idx == nil || !ok {
		return nil, false
	}

	bidResult := make(map[string]LedReading, 2*idx.Cardinality())
	for _, label := range idx.Labels() {
		if id0, ok := tables.bid2id[label]; ok {
			if val, ok := idResult[id0]; ok {
				bidResult[label] = val
			}
		}

		nLabel := "n" + label
		if id1, ok := tables.bid2id[nLabel]; ok {
			if val, ok := idResult[id1]; ok {
				bidResult[nLabel] = val
			}
		}
	}

	return bidResult, true
}
