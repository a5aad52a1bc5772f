package gcb

import (
	"io"
	"os"

	"github.com/ajiponzu/gcb-parser/recognize"
)

// ParserInput is what C9 hands to the per-frame pipeline (C8): the
// reshaped frame sequence, the once-built statistics table, and the
// exposure duration every frame will be decoded against.
type ParserInput struct {
	Frames []Frame
	Stats  Stats
	DTexp  float64
}

// reshape runs C2 + the reshape half of C9 step 1: walk the recognizer
// result in frame order, remap each instance's raw IDn readings to
// canonical bit labels, and drop instances of unrecognised beacon type
// (ShapeMismatch, §7).
func reshape(result *recognize.Result) []Frame {
	keys := result.OrderedKeys()
	frames := make([]Frame, 0, len(keys))

	for _, key := range keys {
		raw := result.Frames[key]
		frame := make(Frame, len(raw))

		for instance, reading := range raw {
			beaconType := BeaconType(reading.DeviceName)
			bidReadings, ok := ConvertID2BID(beaconType, reading.Beacon)
			if !ok {
				continue // unknown device_name: skip (§7 ShapeMismatch)
			}

			frame[instance] = FrameRecord{
				BeaconType: beaconType,
				Beacon:     bidReadings,
				Position:   reading.Position,
			}
		}

		frames = append(frames, frame)
	}

	return frames
}

// Preprocess is C9's entry point: convert raw recognizer output into the
// parser's internal frame sequence, run C3 passes 1-2, estimate the
// exposure duration (C4) if the caller didn't supply one, then run C3
// pass 3 with the final duration (§4.9). expDuration is seconds, 0
// meaning "estimate"; exifFps is the frame rate used for the clamp and
// (if no duration could be estimated) the fallback. debug toggles the
// verbose histogram dump to stderr.
func Preprocess(result *recognize.Result, expDuration float64, exifFps float64, debug bool) *ParserInput {
	var debugOut io.Writer
	if debug {
		debugOut = os.Stderr
	}

	frames := reshape(result)
	stats := AggregateLuminanceStat(frames)

	if expDuration == 0 {
		estimated := EstimateExposureDuration(frames, debugOut)
		expDuration = ClampExposureDuration(estimated, exifFps)
	}

	AggregateLuminanceStatPass3(stats, expDuration, debugOut)

	return &ParserInput{Frames: frames, Stats: stats, DTexp: expDuration}
}
