package gcb

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// pdisTbl is the 5x5 pattern-distance score table of §4.7, indexed by Bit
// ordinal per the §9 design note (row = pat0 symbol, column = pat1 symbol).
var pdisTbl = [5][5]int{
	BitOff:        {BitOff: 4, BitZero: 2, BitOne: 2, BitTransition: -4, BitUnknown: 0},
	BitZero:       {BitOff: 2, BitZero: 4, BitOne: -4, BitTransition: 2, BitUnknown: 0},
	BitOne:        {BitOff: 2, BitZero: -4, BitOne: 4, BitTransition: 2, BitUnknown: 0},
	BitTransition: {BitOff: -4, BitZero: 2, BitOne: 2, BitTransition: 4, BitUnknown: 0},
	BitUnknown:    {BitOff: 0, BitZero: 0, BitOne: 0, BitTransition: 0, BitUnknown: 0},
}

// getPatDist is the normalized pattern distance of §4.7: the sum of
// per-position scores from pdisTbl, divided by len*4, so identical patterns
// score 1.0 and fully-reversed polarity scores -1.0. ok is false on a
// length mismatch.
func getPatDist(pat0, pat1 string) (ratio float64, ok bool) {
	if len(pat0) != len(pat1) || len(pat0) == 0 {
		return 0, false
	}

	sum := 0
	for i := 0; i < len(pat0); i++ {
		b0 := BitFromByte(pat0[i])
		b1 := BitFromByte(pat1[i])
		sum += pdisTbl[b0][b1]
	}

	return float64(sum) / float64(len(pat0)*4), true
}

// MatchCandidate is one surviving dictionary entry from parseExposureTime:
// the offset (ms) at which this entry's pattern is anchored, its pattern
// id, and the normalized distance that earned it a place in the winning
// bucket.
type MatchCandidate struct {
	OffsetMs float64
	PatternID string
	Ratio     float64
}

// ratioBucketDigits is the rounding precision (§4.7: "ratio rounded to 3
// decimals") used to group tying candidates together.
const ratioBucketDigits = 3

func roundRatio(r float64) float64 {
	scale := math.Pow(10, ratioBucketDigits)
	return math.Round(r*scale) / scale
}

// parseExposureTime fuzzy-matches pat against dict's entries for the
// duration key nearest dTexpMs, restricted to offsets within tRange
// (inclusive), and returns the highest-scoring bucket of candidates in
// ascending offset order (§4.7, §8 scenario 6). The key order of the
// dictionary file is not preserved: tying candidates come out sorted by
// offset, not in the order the file lists them.
func parseExposureTime(pat string, dTexpMs float64, dict *Dictionary, tRange [2]float64) (ratio float64, candidates []MatchCandidate, err error) {
	if dict == nil {
		return 0, nil, ErrDictionaryLookup
	}

	_, table, ok := dict.Lookup(dTexpMs)
	if !ok {
		return 0, nil, ErrDictionaryLookup
	}

	offsetKeys := lo.Keys(table)
	sort.Slice(offsetKeys, func(i, j int) bool {
		oi, _ := strconv.ParseFloat(offsetKeys[i], 64)
		oj, _ := strconv.ParseFloat(offsetKeys[j], 64)
		return oi < oj
	})

	type scored struct {
		candidate MatchCandidate
		bucket    float64
	}
	var all []scored

	for _, offsetKey := range offsetKeys {
		offsetMs, parseErr := strconv.ParseFloat(offsetKey, 64)
		if parseErr != nil {
			continue
		}
		if offsetMs < tRange[0] || offsetMs > tRange[1] {
			continue
		}

		entries := table[offsetKey]
		if len(entries) == 0 {
			continue
		}
		patID := fmt.Sprintf("%v", entries[0])

		candidatePat, ok := dict.Pattern(patID)
		if !ok {
			continue
		}
		if len(candidatePat) != len(pat) {
			continue
		}

		dist, ok := getPatDist(pat, candidatePat)
		if !ok {
			continue
		}

		all = append(all, scored{
			candidate: MatchCandidate{OffsetMs: offsetMs, PatternID: patID, Ratio: dist},
			bucket:    roundRatio(dist),
		})
	}

	if len(all) == 0 {
		return 0, nil, ErrNoCandidates
	}

	best := all[0].bucket
	for _, s := range all[1:] {
		if s.bucket > best {
			best = s.bucket
		}
	}

	for _, s := range all {
		if s.bucket == best {
			candidates = append(candidates, s.candidate)
		}
	}

	return best, candidates, nil
}
