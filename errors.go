package gcb

import "errors"

// Sentinel errors for the §7 failure categories (estimation failure has none:
// the estimator returns 0). ConfigError is fatal at
// dictionary-store initialisation; the rest are returned to the per-frame
// caller, which degrades (skips the instance, falls back to 1/fps) rather
// than retrying.
var ErrDictionaryLoad = errors.New("gcb: dictionary file missing or unparseable")
var ErrDictionaryLookup = errors.New("gcb: dictionary has no bracketing dTexp key")
var ErrPatternLength = errors.New("gcb: pattern length does not match dictionary entry")
var ErrUnknownBeacon = errors.New("gcb: unrecognised beacon type")
var ErrNoCandidates = errors.New("gcb: no dictionary candidates in requested range")
