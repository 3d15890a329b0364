package flacparse

import "time"

// ChannelMode identifies the channel-decorrelation layout of a frame, per
// spec.md §3/§4.C.
type ChannelMode int

const (
	// ChannelIndependent covers 1..8 independently coded channels.
	ChannelIndependent ChannelMode = iota
	// ChannelLeftSide is left + side(difference) stereo decorrelation.
	ChannelLeftSide
	// ChannelRightSide is side(difference) + right stereo decorrelation.
	ChannelRightSide
	// ChannelMidSide is mid(average) + side(difference) stereo decorrelation.
	ChannelMidSide
)

func (m ChannelMode) String() string {
	switch m {
	case ChannelIndependent:
		return "independent"
	case ChannelLeftSide:
		return "left_side"
	case ChannelRightSide:
		return "right_side"
	case ChannelMidSide:
		return "mid_side"
	default:
		return "unknown"
	}
}

// StreamFormat carries the stream-wide parameters decoded from STREAMINFO,
// or synthesized from the first validated frame in streaming mode. Zero
// value fields other than Channels/SampleSize mean "unknown", per spec.md §3.
type StreamFormat struct {
	MinBlockSize  uint16 // samples; 0 = unknown
	MaxBlockSize  uint16 // samples; 0 = unknown
	MinFrameSize  uint32 // bytes; 0 = unknown
	MaxFrameSize  uint32 // bytes; 0 = unknown
	SampleRate    uint32 // Hz
	Channels      uint8  // 1..8
	SampleSize    uint8  // bits per sample, 4..32
	TotalSamples  uint64 // inter-channel samples; 0 = unknown
	MD5Signature  [16]byte
	HasMD5        bool // false if MD5Signature is all-zero (unknown)
}

// FrameMetadata is attached to every emitted FrameBuffer record.
type FrameMetadata struct {
	StartingSampleNumber uint64
	Samples              uint32 // block size of this frame, in samples
	SampleRate           uint32
	SampleSize           uint8
	Channels             uint8
	ChannelMode          ChannelMode
}

// PresentationTime derives a presentation timestamp for this frame from
// StartingSampleNumber / sampleRate, matching spec.md §6's note that the
// parser itself never computes timestamps — this is a convenience the
// caller may use, not a parser responsibility. It returns false if the
// sample rate is unknown (0).
func (m FrameMetadata) PresentationTime() (time.Duration, bool) {
	if m.SampleRate == 0 {
		return 0, false
	}
	seconds := float64(m.StartingSampleNumber) / float64(m.SampleRate)
	return time.Duration(seconds * float64(time.Second)), true
}

// RecordKind tags the variant held by a Record.
type RecordKind int

const (
	// RecordStreamFormat carries a *StreamFormat.
	RecordStreamFormat RecordKind = iota
	// RecordOpaqueBuffer carries raw passthrough bytes (stream marker or a
	// full metadata block header+body).
	RecordOpaqueBuffer
	// RecordFrameBuffer carries raw frame bytes plus FrameMetadata.
	RecordFrameBuffer
)

// Record is the tagged union emitted by Parse/Flush: StreamFormat |
// OpaqueBuffer | FrameBuffer, per spec.md §3/§9. Exactly one of Format,
// Payload(+Metadata for FrameBuffer) is meaningful, selected by Kind.
type Record struct {
	Kind RecordKind

	// Valid when Kind == RecordStreamFormat.
	Format StreamFormat

	// Valid when Kind == RecordOpaqueBuffer or RecordFrameBuffer: the raw
	// source bytes for this record. Concatenating every OpaqueBuffer and
	// FrameBuffer payload, in emission order, reproduces the input stream
	// byte-for-byte (spec.md §3 invariant 2, §8 round-trip property).
	Payload []byte

	// Valid when Kind == RecordFrameBuffer.
	Metadata FrameMetadata
}
