package gcb

// binarizeLed turns a single LED's luminance into on/off given its threshold
// stat (§4.5): on iff value > th. An always-on LED (On set by pass 3)
// binarizes to on as soon as any reading was seen, whatever its value.
func binarizeLed(stat *PerLedStat, value LedReading, present bool) (on bool, ok bool) {
	if !present || stat == nil || !stat.computed() {
		return false, false
	}
	return stat.On || value > stat.Th, true
}

// bitFor combines a positive/complement reading pair into one alphabet
// character per §3: both present and differ -> '1'/'0'; both on -> 'X';
// both off -> '-'; either missing -> '?'.
func bitFor(inst *InstanceStats, label string, record FrameRecord) Bit {
	posVal, posPresent := record.Beacon[label]
	negVal, negPresent := record.Beacon["n"+label]

	posOn, posOK := binarizeLed(inst.Leds[label], posVal, posPresent)
	negOn, negOK := binarizeLed(inst.Leds["n"+label], negVal, negPresent)

	if !posOK || !negOK {
		return BitUnknown
	}

	switch {
	case posOn && negOn:
		return BitTransition
	case !posOn && !negOn:
		return BitOff
	case posOn && !negOn:
		return BitOne
	default: // !posOn && negOn
		return BitZero
	}
}

// BuildIDS builds the CLID (always) and, for CM-Beacon, also the CMID, by
// walking the canonical index and emitting one alphabet character per
// position via bitFor (§4.5 "buildIDS"). cmid is empty for CL-Beacon.
func BuildIDS(inst *InstanceStats, record FrameRecord) (clid, cmid string) {
	clBuf := make([]byte, 0, clIndex.Cardinality())
	for _, label := range clIndex.Labels() {
		clBuf = append(clBuf, bitFor(inst, label, record).Byte())
	}
	clid = string(clBuf)

	if inst.BeaconType != CMBeacon {
		return clid, ""
	}

	cmBuf := make([]byte, 0, cmIndex.Cardinality())
	for _, label := range cmIndex.Labels() {
		cmBuf = append(cmBuf, bitFor(inst, label, record).Byte())
	}
	return clid, string(cmBuf)
}
