package gcb

import "strconv"

// RunSummary is a post-hoc consistency report over a parsed frame sequence
// (SPEC_FULL.md §8, not one of the nine spec components): per-instance
// success rate, which dTexp keys were actually chosen, and how often a
// dictionary match overrode the analytical decode, grounded on the
// teacher's QInfo/QualityInfo aggregate-consistency shape.
type RunSummary struct {
	TotalFrames int

	// FramesSeen/FramesParsed are per beacon instance: how many frames
	// carried this instance at all, versus how many produced a non-nil
	// ParseResult.
	FramesSeen   map[string]int
	FramesParsed map[string]int

	// DTexpKeysUsed counts how many results carried each distinct dTexp
	// value actually present in ParseResult.DTexp (seconds), formatted to 3
	// decimals.
	DTexpKeysUsed map[string]int

	// DictionaryOverrides is the count of results where a C7 dictionary
	// match (TimeCL or TimeCM) won over C6's analytical TimeACL, per the
	// §6 resolved open question 3 ("dictionary beats analytical").
	DictionaryOverrides int
}

// Summarize walks RunPipeline's per-frame output and builds a RunSummary.
func Summarize(results [][]FrameResult) RunSummary {
	summary := RunSummary{
		TotalFrames:   len(results),
		FramesSeen:    map[string]int{},
		FramesParsed:  map[string]int{},
		DTexpKeysUsed: map[string]int{},
	}

	for _, frameResults := range results {
		for _, fr := range frameResults {
			summary.FramesSeen[fr.DevID]++

			if fr.Result == nil {
				continue
			}
			summary.FramesParsed[fr.DevID]++

			key := strconv.FormatFloat(fr.Result.DTexp, 'f', 3, 64)
			summary.DTexpKeysUsed[key]++

			if fr.Result.TimeACL != nil && fr.Result.Time != nil && *fr.Result.Time != *fr.Result.TimeACL {
				summary.DictionaryOverrides++
			}
		}
	}

	return summary
}
