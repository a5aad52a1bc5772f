package gcb

import (
	"sort"
	"sync"

	"github.com/alitto/pond"
	"github.com/samber/lo"
)

// matchRange is the fixed candidate-offset window of §4.7's parseExposureTime
// signature (Trange=[0,1000]): the dictionary's whole one-second cycle.
var matchRange = [2]float64{0, 1000}

// sectionFromCandidate turns a dictionary match into a Section. The offset
// the matcher picked becomes fromMs; duration/accuracy use the run's common
// exposure duration, since that was already fixed as the dictionary lookup
// key before the matcher ever ran.
func sectionFromCandidate(c MatchCandidate, dTexpMs float64) Section {
	return Section{c.OffsetMs, dTexpMs, dTexpMs}
}

// parseFrame runs C5 -> C6/C7 for every beacon instance present in one
// frame (§4.8). It is pure: given the same frame, stats and dTexp it always
// returns the same result, which is what lets RunPipeline parallelize
// across frames.
func parseFrame(frame Frame, stats Stats, dTexpSec float64, dicts map[BeaconType]*Dictionary) []FrameResult {
	dTexpMs := dTexpSec * 1000

	instances := lo.Keys(frame)
	sort.Strings(instances) // deterministic output order

	var out []FrameResult
	for _, instance := range instances {
		record := frame[instance]
		if record.BeaconType != CLBeacon && record.BeaconType != CMBeacon {
			continue // ShapeMismatch (§7): unknown beacon type, skip
		}

		inst := stats[instance]
		if inst == nil {
			continue // never seen a successful reading in pass 1 (§4.3)
		}

		clid, cmid := BuildIDS(inst, record)
		result := &ParseResult{DTexp: dTexpSec, CLID: clid, CMID: cmid}

		switch record.BeaconType {
		case CLBeacon:
			if acl, ok := DecodeCLAnalytical(clid, dTexpSec); ok {
				result.TimeACL = &acl
				result.Time = &acl
			}

			if dict, ok := dicts[CLBeacon]; ok {
				if _, candidates, err := parseExposureTime(clid, dTexpMs, dict, matchRange); err == nil && len(candidates) > 0 {
					sec := sectionFromCandidate(candidates[0], dTexpMs)
					result.TimeCL = &sec
					result.Time = &sec
				}
			}

		case CMBeacon:
			if dict, ok := dicts[CLBeacon]; ok {
				if _, candidates, err := parseExposureTime(clid, dTexpMs, dict, matchRange); err == nil && len(candidates) > 0 {
					sec := sectionFromCandidate(candidates[0], dTexpMs)
					result.TimeCL = &sec
					result.Time = &sec
				}
			}

			if cmid != "" {
				if dict, ok := dicts[CMBeacon]; ok {
					if _, candidates, err := parseExposureTime(cmid, dTexpMs, dict, matchRange); err == nil && len(candidates) > 0 {
						sec := sectionFromCandidate(candidates[0], dTexpMs)
						result.TimeCM = &sec
						result.Time = &sec
					}
				}
			}
		}

		if result.Time == nil {
			// total failure (§7 PerFrameFailure): the instance is reported
			// with no result for this frame.
			out = append(out, FrameResult{Type: record.BeaconType, DevID: instance})
			continue
		}

		out = append(out, FrameResult{Type: record.BeaconType, DevID: instance, Result: result})
	}

	return out
}

// InstanceState is one beacon instance's position in the §4.8 state
// machine: virgin until a first successful parse, tracking thereafter.
type InstanceState struct {
	Tracking bool
	LastExpT Section
}

// Tracker carries lastExpT across frames for every beacon instance. It
// must only ever be advanced in increasing frame order (§5): RunPipeline
// does this for the caller once its worker pool has drained.
type Tracker struct {
	mu     sync.Mutex
	states map[string]*InstanceState
}

func NewTracker() *Tracker {
	return &Tracker{states: map[string]*InstanceState{}}
}

// State returns the instance's last known section, or ok=false if it is
// still virgin.
func (t *Tracker) State(instance string) (Section, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[instance]
	if !ok || !st.Tracking {
		return Section{}, false
	}
	return st.LastExpT, true
}

func (t *Tracker) advance(instance string, section Section) {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.states[instance]
	if !ok {
		st = &InstanceState{}
		t.states[instance] = st
	}
	st.Tracking = true
	st.LastExpT = section
}

// RunPipeline is C8's entry point: it parses every frame, parallelizing
// across frames with a fixed pond worker pool since each parseFrame call is
// independent (§5), then sequentially folds the per-frame results into
// tracker in frame order so lastExpT carry state is never raced. workers
// <= 0 defaults to a single worker (no parallelism).
func RunPipeline(frames []Frame, stats Stats, dTexpSec float64, dicts map[BeaconType]*Dictionary, tracker *Tracker, workers int) [][]FrameResult {
	if workers <= 0 {
		workers = 1
	}

	results := make([][]FrameResult, len(frames))

	pool := pond.New(workers, 0, pond.MinWorkers(workers))
	for i, frame := range frames {
		i, frame := i, frame
		pool.Submit(func() {
			results[i] = parseFrame(frame, stats, dTexpSec, dicts)
		})
	}
	pool.StopAndWait()

	if tracker != nil {
		for _, frameResults := range results {
			for _, fr := range frameResults {
				if fr.Result != nil && fr.Result.Time != nil {
					tracker.advance(fr.DevID, *fr.Result.Time)
				}
			}
		}
	}

	return results
}
