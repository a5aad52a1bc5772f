package gcb

import "math"

// round2 rounds to 2 decimal places, matching the fixed-point rounding the
// §9 design note calls out as needing to match exactly to reproduce fixture
// outputs.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// DecodeCLAnalytical is the closed-form CL decoder (C6, §4.6): given a CLID
// pattern (the full 22-character string; only the first 11 characters,
// PPS then B9..B0, participate) and the exposure time in seconds, compute
// [fromMs, durMs, accMs].
func DecodeCLAnalytical(pattern string, expTimeSec float64) (Section, bool) {
	if len(pattern) < clMeaningfulCount {
		return Section{}, false
	}

	const pw0 = 0.512
	pw := pw0
	t0 := 0.0
	lastIdc := pattern[0]

	var fromT, toT float64
	transitioned := false

	for bid := 1; bid < clMeaningfulCount; bid++ {
		idc := pattern[bid]

		switch idc {
		case '0':
			// Still in the current half: no new information narrows pw, so
			// a run of '0's all resolve to the same [fromT, toT) as the
			// first one.
			fromT = t0
			toT = t0 + pw - expTimeSec
		case '1':
			fromT = t0 + pw
			toT = t0 + 2*pw - expTimeSec
			t0 += pw
			pw /= 2
		default:
			if lastIdc == 'X' {
				fromT = t0 + 2*pw - expTimeSec
				toT = t0 + 2*pw
			} else {
				fromT = t0 + pw - expTimeSec
				toT = t0 + pw
			}
			transitioned = true
		}

		lastIdc = idc

		if transitioned {
			break
		}
	}

	durMs := round2((toT - fromT) * 1000)
	fromMs := round2(math.Mod(fromT, 1) * 1000)
	if fromMs < 0 {
		fromMs += 1000
	}

	return Section{fromMs, durMs, durMs}, true
}
