package gcb

import (
	"fmt"
	"io"
	"math"
	"strings"
)

const lumRange = 32

// PerLedStat is the 32-bin luminance histogram and derived percentile tuple
// for one LED label of one beacon instance (§3). On is a discriminated
// "always-on" flag, not a dynamically bolted-on attribute, per the §9 design
// note.
type PerLedStat struct {
	Hist  [lumRange]int
	Total int

	Tile0, Tile90, Tile99 int
	Th                    int
	On                    bool
}

// computed reports whether pass 2 derived percentiles for this stat (total
// histogram count nonzero); a zero-total stat keeps Tile*/Th at their
// zero-value and must never be consulted by C5/C6/C7.
func (s *PerLedStat) computed() bool { return s.Total > 0 }

// InstanceStats is the full per-LED statistics table for one beacon
// instance: every canonical label plus its complement, and an "all"
// aggregate spanning every non-PPS LED (§3).
type InstanceStats struct {
	BeaconType BeaconType
	Leds       map[string]*PerLedStat
	All        *PerLedStat
}

// Stats is the immutable, once-built table handed to every frame of the
// per-frame pipeline (§5): built during passes 1-3, read-only after.
type Stats map[string]*InstanceStats

func newInstanceStats(beaconType BeaconType) *InstanceStats {
	idx := Index(beaconType)
	leds := make(map[string]*PerLedStat, 2*idx.Cardinality())
	for _, label := range idx.Labels() {
		leds[label] = &PerLedStat{}
		leds["n"+label] = &PerLedStat{}
	}
	return &InstanceStats{BeaconType: beaconType, Leds: leds, All: &PerLedStat{}}
}

// Frame is the per-instance payload of a single video frame, keyed by beacon
// instance identifier, after C2 remapping and C9 reshaping.
type Frame map[string]FrameRecord

// AggregateLuminanceStat runs §4.3 pass 1 (histogram accumulation) and
// pass 2 (percentile/threshold derivation) over every frame. A beacon
// instance with no successful reading in any frame never appears in the
// returned table.
func AggregateLuminanceStat(frames []Frame) Stats {
	stats := Stats{}

	// Pass 1.
	for _, frame := range frames {
		for instance, record := range frame {
			if len(record.Beacon) == 0 {
				continue // image recognition failed for this instance; ignore (§4.3)
			}

			inst, ok := stats[instance]
			if !ok {
				inst = newInstanceStats(record.BeaconType)
				stats[instance] = inst
			}

			idx := Index(record.BeaconType)
			if idx == nil {
				continue
			}

			for _, label := range idx.Labels() {
				for _, id := range [2]string{label, "n" + label} {
					val, ok := record.Beacon[id]
					if !ok {
						continue
					}
					inst.Leds[id].Hist[val]++
					if label != "PPS" {
						inst.All.Hist[val]++
					}
				}
			}
		}
	}

	// Pass 2.
	for _, inst := range stats {
		derivePercentiles(inst.All)
		for _, stat := range inst.Leds {
			derivePercentiles(stat)
		}
	}

	return stats
}

// derivePercentiles computes tile0/tile90/tile99/th for one histogram, per
// §4.3 pass 2: tile0 is the first bin with count>0, tile90/tile99 are the
// first bins whose cumulative fraction exceeds 0.9/0.99, and
// th = tile0 + floor((tile90-tile0)/2).
func derivePercentiles(stat *PerLedStat) {
	total := 0
	for _, c := range stat.Hist {
		total += c
	}
	stat.Total = total
	if total == 0 {
		return
	}

	tile0, tile90, tile99 := -1, -1, -1
	sum := 0
	for idx, count := range stat.Hist {
		if tile0 < 0 && count > 0 {
			tile0 = idx
		}
		sum += count
		if tile90 < 0 && float64(sum)/float64(total) > 0.9 {
			tile90 = idx
		}
		if tile99 < 0 && float64(sum)/float64(total) > 0.99 {
			tile99 = idx
		}
	}

	stat.Tile0, stat.Tile90, stat.Tile99 = tile0, tile90, tile99
	stat.Th = tile0 + (tile90-tile0)/2
}

// excIDFor computes the set of decimal digits that can plausibly flicker at
// the given exposure duration (§4.3 pass 3): excBit = max(0,
// floor(log2(dTexp*1000))+2), excID = "0123456789"[excBit:].
func excIDFor(dTexpSec float64) string {
	digits := "0123456789"
	if dTexpSec <= 0 {
		return digits
	}
	excBit := int(math.Floor(math.Log2(dTexpSec*1000))) + 2
	if excBit < 0 {
		excBit = 0
	}
	if excBit >= len(digits) {
		return ""
	}
	return digits[excBit:]
}

// AggregateLuminanceStatPass3 runs §4.3 pass 3 (always-on detection) over an
// already pass-1/2-built table, mutating each qualifying PerLedStat's Th/On
// in place. It is the only pass that depends on the estimated/supplied
// exposure duration, which is why it is split from AggregateLuminanceStat
// (C9 runs it only once expDuration is finalised). debugOut, when non-nil,
// receives the same bar-chart diagnostic original_source's verbose branch
// prints (SPEC_FULL.md §8).
func AggregateLuminanceStatPass3(stats Stats, expDurationSec float64, debugOut io.Writer) {
	excID := excIDFor(expDurationSec)
	if debugOut != nil {
		fmt.Fprintf(debugOut, "expDur=%.3fms excID=%s\n", expDurationSec*1000, excID)
	}

	for instance, inst := range stats {
		all := inst.All
		dTileA := all.Tile99 - all.Tile0

		if debugOut != nil {
			fmt.Fprintf(debugOut, "----<%s>------\n", instance)
		}

		for label, stat := range inst.Leds {
			if !stat.computed() {
				continue
			}

			last := label[len(label)-1]
			var prev byte
			if len(label) >= 2 {
				prev = label[len(label)-2]
			}
			intersectsExc := strings.IndexByte(excID, last) >= 0 || (prev != 0 && strings.IndexByte(excID, prev) >= 0)

			if !intersectsExc {
				dTile := stat.Tile99 - stat.Tile0
				if float64(stat.Tile0) > float64(all.Tile0)+float64(dTileA)/4 || float64(dTile) < float64(dTileA)*0.6 {
					stat.Th = stat.Tile0
					stat.On = true
				}
			}

			if debugOut != nil {
				dumpHistogram(debugOut, instance, label, stat)
			}
		}
	}
}

// dumpHistogram reproduces original_source's verbose per-LED bar chart.
func dumpHistogram(w io.Writer, instance, label string, stat *PerLedStat) {
	fmt.Fprintf(w, "=======<%s(%s)>=============================================\n", instance, label)
	fmt.Fprintf(w, "\t{total:%d th:%d tile0:%d tile90:%d tile99:%d on:%v}\n\n", stat.Total, stat.Th, stat.Tile0, stat.Tile90, stat.Tile99, stat.On)

	sum := 0
	for idx, val := range stat.Hist {
		if idx == stat.Tile0 {
			fmt.Fprintln(w, "\t---<0%>-----")
		}
		if idx == stat.Th {
			fmt.Fprintln(w, "\t---<THRESHOLD>-----")
		}
		sum += val
		fmt.Fprintf(w, "\t%02d [%3d/%3d]\n", idx, val, sum)
		if idx == stat.Tile90 {
			fmt.Fprintln(w, "\t---<90%>-----")
		}
		if idx == stat.Tile99 {
			fmt.Fprintln(w, "\t---<99%>-----")
		}
	}
}
