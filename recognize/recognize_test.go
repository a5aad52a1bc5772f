package recognize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResultJSON = `{
	"frame_num": 2,
	"frame1": {
		"cam0": {
			"device_name": "CL-Beacon",
			"beacon": {"ID1": 20, "ID2": 5},
			"position": {"x": 1.0, "y": 2.0}
		},
		"device_keys": ["cam0"]
	},
	"frame2": {
		"cam0": {
			"device_name": "CL-Beacon",
			"beacon": {"ID1": 5, "ID2": 20},
			"position": {"x": 1.0, "y": 2.0}
		}
	}
}`

func TestResultUnmarshalSeparatesFrameNumFromFrames(t *testing.T) {
	var result Result
	require.NoError(t, json.Unmarshal([]byte(sampleResultJSON), &result))

	assert.Equal(t, 2, result.FrameNum)
	require.Len(t, result.Frames, 2)
	require.Contains(t, result.Frames, "frame1")
	require.Contains(t, result.Frames, "frame2")
}

func TestFrameUnmarshalDropsDeviceKeys(t *testing.T) {
	var result Result
	require.NoError(t, json.Unmarshal([]byte(sampleResultJSON), &result))

	frame1 := result.Frames["frame1"]
	assert.NotContains(t, frame1, "device_keys")
	require.Contains(t, frame1, "cam0")
	assert.Equal(t, "CL-Beacon", frame1["cam0"].DeviceName)
	assert.Equal(t, 20, frame1["cam0"].Beacon["ID1"])
}

func TestOrderedKeysSortsNumerically(t *testing.T) {
	var result Result
	require.NoError(t, json.Unmarshal([]byte(`{
		"frame_num": 3,
		"frame10": {},
		"frame2": {},
		"frame1": {}
	}`), &result))

	assert.Equal(t, []string{"frame1", "frame2", "frame10"}, result.OrderedKeys())
}
