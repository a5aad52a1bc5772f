package gcb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeCountsSeenParsedAndOverrides(t *testing.T) {
	acl := Section{0, 10, 10}
	dictSec := Section{77, 10, 10}

	results := [][]FrameResult{
		{
			{DevID: "cam0", Type: CLBeacon, Result: &ParseResult{DTexp: 0.01, Time: &acl, TimeACL: &acl}},
		},
		{
			{DevID: "cam0", Type: CLBeacon, Result: &ParseResult{DTexp: 0.01, Time: &dictSec, TimeACL: &acl, TimeCL: &dictSec}},
			{DevID: "cam1", Type: CLBeacon, Result: nil},
		},
	}

	summary := Summarize(results)

	assert.Equal(t, 2, summary.TotalFrames)
	assert.Equal(t, 2, summary.FramesSeen["cam0"])
	assert.Equal(t, 2, summary.FramesParsed["cam0"])
	assert.Equal(t, 1, summary.FramesSeen["cam1"])
	assert.Equal(t, 0, summary.FramesParsed["cam1"])
	assert.Equal(t, 2, summary.DTexpKeysUsed["0.010"])
	assert.Equal(t, 1, summary.DictionaryOverrides)
}
