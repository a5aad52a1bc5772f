// Package gcb parses Gray-Code Beacon video-frame timing. Given an
// external image-recognition service's per-frame LED luminance readings,
// it recovers, per frame and per beacon instance, a decoded beacon
// identification string, an estimated exposure-start time within the
// one-second PPS cycle, an estimated exposure duration, and an accuracy
// bound.
//
// The parser is purely computational: Preprocess builds the luminance
// statistics and (if needed) estimates the exposure duration, then
// RunPipeline decodes each frame against those statistics and a pair of
// per-beacon-type pattern dictionaries.
package gcb
