package gcb

import "fmt"

// CanonicalIndex is the fixed, per-beacon-type LED traversal order of §3,
// used by ID remapping (C2), histogram initialisation and pass 1 (C3), the
// bit binarizer (C5) and the analytical decoder (C6). It is built once (see
// clIndex/cmIndex below) and is read-only thereafter, matching the §9 note
// that the dictionary/index tables are handles shared by reference, never
// caller-mutated state.
type CanonicalIndex struct {
	beaconType BeaconType
	labels     []string       // positive labels, in traversal order
	ordinal    map[string]int // label -> position
}

// Labels returns the canonical positive-label traversal order.
func (idx *CanonicalIndex) Labels() []string { return idx.labels }

// Cardinality is the number of canonical positions (§8 invariant I5: pattern
// length equals this value).
func (idx *CanonicalIndex) Cardinality() int { return len(idx.labels) }

// Ordinal returns the traversal position of a positive label, or -1 if the
// label is not part of this index.
func (idx *CanonicalIndex) Ordinal(label string) int {
	if pos, ok := idx.ordinal[label]; ok {
		return pos
	}
	return -1
}

// clLabels builds the 11 meaningful CL-Beacon positions (PPS, B9..B0) per
// §3's documented order.
func clLabels() []string {
	labels := make([]string, 0, 11)
	labels = append(labels, "PPS")
	for col := 9; col >= 0; col-- {
		labels = append(labels, fmt.Sprintf("B%d", col))
	}
	return labels
}

// clReservedLabels are the 11 padding positions resolving the CL
// length-22-vs-11 discrepancy documented in SPEC_FULL.md §6(1): they carry no
// backing LED reading (never present in any recognizer map or dictionary
// ID table) and so always binarize to BitUnknown, giving CLID a fixed
// 22-character length while leaving the analytical decoder's first-11
// semantics untouched.
func clReservedLabels() []string {
	labels := make([]string, 0, 11)
	for i := 1; i <= 11; i++ {
		labels = append(labels, fmt.Sprintf("R%d", i))
	}
	return labels
}

// cmLabels builds the 56 CM-Beacon positions: PPS followed by every Bij
// with 0<=i<=j<=9 (diagonal rendered Bi), in the exact order §3 spells
// out: "PPS, B9, B89, B8, B79, B78, B7, …, B0" -- for each i descending
// from 9 to 0, every Bij pairing it with a larger j (descending), then the
// diagonal Bi itself.
func cmLabels() []string {
	labels := make([]string, 0, 56)
	labels = append(labels, "PPS")
	for i := 9; i >= 0; i-- {
		for j := 9; j > i; j-- {
			labels = append(labels, fmt.Sprintf("B%d%d", i, j))
		}
		labels = append(labels, fmt.Sprintf("B%d", i))
	}
	return labels
}

func newIndex(beaconType BeaconType, labels []string) *CanonicalIndex {
	ordinal := make(map[string]int, len(labels))
	for i, label := range labels {
		ordinal[label] = i
	}
	return &CanonicalIndex{beaconType: beaconType, labels: labels, ordinal: ordinal}
}

var (
	clIndex = newIndex(CLBeacon, append(clLabels(), clReservedLabels()...))
	cmIndex = newIndex(CMBeacon, cmLabels())
)

// Index returns the canonical index for a beacon type, or nil for an
// unrecognised type (§7 ShapeMismatch territory; callers check for nil).
func Index(beaconType BeaconType) *CanonicalIndex {
	switch beaconType {
	case CLBeacon:
		return clIndex
	case CMBeacon:
		return cmIndex
	default:
		return nil
	}
}

// CLIDCardinality and CMIDCardinality are the fixed pattern lengths used
// throughout C5-C7 and invariant I5.
func CLIDCardinality() int { return clIndex.Cardinality() }
func CMIDCardinality() int { return cmIndex.Cardinality() }

// clMeaningfulCount is how many leading CLID characters the analytical
// decoder (C6) actually consumes: PPS + B9..B0.
const clMeaningfulCount = 11
