package gcb

import (
	"encoding/json"
	"testing"

	"github.com/ajiponzu/gcb-parser/recognize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preprocessSampleJSON = `{
	"frame_num": 2,
	"frame1": {
		"cam0": {
			"device_name": "CL-Beacon",
			"beacon": {"ID1": 5, "ID2": 20, "ID3": 5, "ID4": 20},
			"position": {}
		}
	},
	"frame2": {
		"cam0": {
			"device_name": "CL-Beacon",
			"beacon": {"ID1": 20, "ID2": 5, "ID3": 20, "ID4": 5},
			"position": {}
		}
	}
}`

func loadSampleResult(t *testing.T) *recognize.Result {
	t.Helper()
	var result recognize.Result
	require.NoError(t, json.Unmarshal([]byte(preprocessSampleJSON), &result))
	return &result
}

func TestReshapeProducesFrameOrderedByFrameNumber(t *testing.T) {
	frames := reshape(loadSampleResult(t))
	require.Len(t, frames, 2)

	require.Contains(t, frames[0], "cam0")
	assert.Equal(t, CLBeacon, frames[0]["cam0"].BeaconType)
	assert.Equal(t, 5, frames[0]["cam0"].Beacon["PPS"])
	assert.Equal(t, 20, frames[0]["cam0"].Beacon["nPPS"])
}

func TestReshapeDropsUnrecognisedBeaconType(t *testing.T) {
	var result recognize.Result
	require.NoError(t, json.Unmarshal([]byte(`{
		"frame_num": 1,
		"frame1": {
			"cam0": {"device_name": "Unknown-Beacon", "beacon": {}, "position": {}}
		}
	}`), &result))

	frames := reshape(&result)
	require.Len(t, frames, 1)
	assert.Empty(t, frames[0])
}

// TestPreprocessIsIdempotent is §8's testable property: running Preprocess
// twice on identical input yields identical stats and dTexp.
func TestPreprocessIsIdempotent(t *testing.T) {
	first := Preprocess(loadSampleResult(t), 0.01, 30.0, false)
	second := Preprocess(loadSampleResult(t), 0.01, 30.0, false)

	assert.Equal(t, first.DTexp, second.DTexp)
	assert.Equal(t, first.Frames, second.Frames)
	assert.Equal(t, first.Stats, second.Stats)
}

func TestPreprocessEstimatesDurationWhenZero(t *testing.T) {
	input := Preprocess(loadSampleResult(t), 0, 30.0, false)
	assert.Greater(t, input.DTexp, 0.0)
}
