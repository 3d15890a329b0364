package flacparse

import (
	"bytes"

	"github.com/gammazero/deque"
)

// Phase is one of the parser's top-level dispatch states, per spec.md §3/§4.E.
type Phase int

const (
	// PhaseStream is the initial phase: looking for the stream marker or,
	// in streaming mode, falling straight through to PhaseFrame.
	PhaseStream Phase = iota
	// PhaseMetadataBlock parses metadata blocks until the last one.
	PhaseMetadataBlock
	// PhaseFrame parses and bounds audio frames until end of stream.
	PhaseFrame
)

// BlockingStrategy is fixed, variable, or not-yet-observed, per spec.md §3.
// Once set from BlockingUnset, a State's blocking strategy never changes.
type BlockingStrategy int

const (
	// BlockingUnset means no frame header has been observed yet.
	BlockingUnset BlockingStrategy = iota
	// BlockingFixed means the UTF-8 number in every frame header is a
	// frame index.
	BlockingFixed
	// BlockingVariable means the UTF-8 number in every frame header is a
	// sample index.
	BlockingVariable
)

// State is the parser's single-owner, single-threaded state, per spec.md §3.
// It is created by Init, mutated only by Parse, and terminated by Flush.
// There is no shared or global state: each State belongs to exactly one
// caller and one stream.
type State struct {
	queue            []byte
	phase            Phase
	pos              int64
	format           *StreamFormat
	blockingStrategy BlockingStrategy
	currentMetadata  *FrameMetadata
	streamingMode    bool
}

// Init creates a new parser State. When streamingMode is true, input that
// does not begin with the stream marker is accepted as a bare sequence of
// frames (spec.md §6's "Configuration: one flag, streaming_mode").
func Init(streamingMode bool) *State {
	return &State{
		phase:         PhaseStream,
		streamingMode: streamingMode,
	}
}

// Pos reports the non-decreasing absolute byte offset the parser has
// consumed through so far. It is diagnostic only — it appears in error
// reports and in the flush byte-accounting invariant of spec.md §3/§8.
func (s *State) Pos() int64 {
	return s.pos
}

// Format reports the stream's StreamFormat once known, or nil before then.
// Per spec.md §3 invariant 3, once non-nil it never changes.
func (s *State) Format() *StreamFormat {
	return s.format
}

// BlockingStrategy reports the stream's locked-in blocking strategy, or
// BlockingUnset if no frame header has been observed yet.
func (s *State) BlockingStrategy() BlockingStrategy {
	return s.blockingStrategy
}

// Parse feeds chunk (of any length, including zero) into the parser,
// appending it to any bytes buffered from prior calls, and returns every
// record that could be produced from the data consumed so far, in source
// byte order. On a fatal error the returned records (if any) are still
// valid prefix output, but the State should not be Parsed further — see
// spec.md §7.
func (s *State) Parse(chunk []byte) ([]Record, error) {
	if len(chunk) > 0 {
		s.queue = append(s.queue, chunk...)
	}

	out := deque.New[Record]()

	for {
		var (
			recs     []Record
			advance  int
			needMore bool
			err      error
		)

		switch s.phase {
		case PhaseStream:
			recs, advance, needMore, err = s.tryStream()
		case PhaseMetadataBlock:
			recs, advance, needMore, err = s.tryMetadataBlock()
		case PhaseFrame:
			recs, advance, needMore, err = s.tryFrame()
		}

		if err != nil {
			return drainRecords(out), err
		}

		for _, r := range recs {
			out.PushBack(r)
		}

		if needMore {
			break
		}

		s.queue = s.queue[advance:]
	}

	return drainRecords(out), nil
}

// Flush drains the final pending frame: the entire remaining queue, tagged
// with whatever frame metadata was last established. It is the only way to
// emit the final frame of a stream, since the boundary finder can never
// terminate a frame without locating the next one's sync. Flush does not
// validate queue contents — the caller must only call it after the complete
// stream has been ingested (spec.md §4.E).
func (s *State) Flush() Record {
	payload := s.queue
	s.queue = nil

	var meta FrameMetadata
	if s.currentMetadata != nil {
		meta = *s.currentMetadata
	}

	s.pos += int64(len(payload))

	return Record{
		Kind:     RecordFrameBuffer,
		Payload:  payload,
		Metadata: meta,
	}
}

func drainRecords(d *deque.Deque[Record]) []Record {
	out := make([]Record, 0, d.Len())
	for d.Len() > 0 {
		out = append(out, d.PopFront())
	}
	return out
}

// streamMarker is the literal FLAC stream marker, per spec.md §6.
var streamMarker = []byte("fLaC")

// minStreamPhaseBytes is the minimum queue length before the Stream phase
// will make a decision: stream marker (4) + minimal metadata block header
// (4) + STREAMINFO body (34), per spec.md §4.E.
const minStreamPhaseBytes = 4 + metadataHeaderSize + streamInfoBodySize

func (s *State) tryStream() (recs []Record, advance int, needMore bool, err error) {
	if len(s.queue) < minStreamPhaseBytes {
		return nil, 0, true, nil
	}

	if bytes.HasPrefix(s.queue, streamMarker) {
		rec := Record{
			Kind:    RecordOpaqueBuffer,
			Payload: append([]byte(nil), s.queue[:4]...),
		}
		s.pos += 4
		s.phase = PhaseMetadataBlock
		return []Record{rec}, 4, false, nil
	}

	if s.streamingMode {
		s.phase = PhaseFrame
		return nil, 0, false, nil
	}

	return nil, 0, false, newParseError(KindNotStream, s.pos, "input does not begin with the FLAC stream marker")
}

func (s *State) tryMetadataBlock() (recs []Record, advance int, needMore bool, err error) {
	if len(s.queue) < metadataHeaderSize {
		return nil, 0, true, nil
	}

	hdr := decodeMetadataBlockHeader(s.queue)
	total := metadataHeaderSize + int(hdr.length)
	if len(s.queue) < total {
		return nil, 0, true, nil
	}

	payload := append([]byte(nil), s.queue[:total]...)
	recs = []Record{{Kind: RecordOpaqueBuffer, Payload: payload}}

	if hdr.typ == metadataTypeStreamInfo && int(hdr.length) >= streamInfoBodySize {
		body := s.queue[metadataHeaderSize : metadataHeaderSize+streamInfoBodySize]
		format := decodeStreamInfo(body)
		s.format = &format
		recs = append(recs, Record{Kind: RecordStreamFormat, Format: format})
	}

	s.pos += int64(total)

	if hdr.isLast {
		s.phase = PhaseFrame
	}

	return recs, total, false, nil
}

func (s *State) tryFrame() (recs []Record, advance int, needMore bool, err error) {
	var prelude []Record

	if s.currentMetadata == nil {
		meta, _, strategy, outcome, kind := decodeFrameHeader(s.queue, s.blockingStrategy, s.format, nil)

		switch outcome {
		case outcomeNeedsMore:
			return nil, 0, true, nil
		case outcomeInvalid:
			return nil, 0, false, newParseError(kind, s.pos, "invalid frame header")
		}

		if s.blockingStrategy == BlockingUnset {
			s.blockingStrategy = strategy
		}

		if s.streamingMode && s.format == nil {
			synthesized := synthesizeStreamFormat(meta, strategy)
			s.format = &synthesized
			prelude = []Record{{Kind: RecordStreamFormat, Format: synthesized}}
		}

		metaCopy := meta
		s.currentMetadata = &metaCopy
	}

	outcome, frameLen, next, kind := findFrameBoundary(s.queue, s.blockingStrategy, s.format, s.currentMetadata)

	switch outcome {
	case boundaryNeedsMore:
		if len(prelude) > 0 {
			return prelude, 0, false, nil
		}
		return nil, 0, true, nil
	case boundaryFatal:
		return nil, 0, false, newParseError(kind, s.pos, "no valid next frame sync within max_frame_size window")
	}

	frameRecord := Record{
		Kind:     RecordFrameBuffer,
		Payload:  append([]byte(nil), s.queue[:frameLen]...),
		Metadata: *s.currentMetadata,
	}

	s.pos += int64(frameLen)
	nextCopy := next
	s.currentMetadata = &nextCopy

	recs = append(prelude, frameRecord)
	return recs, frameLen, false, nil
}

// synthesizeStreamFormat builds the StreamFormat that streaming mode
// synthesizes from the first validated frame header, per spec.md §4.C. Per
// SPEC_FULL.md §9's resolution of the block-size-bounds open question,
// block-size bounds are only set under fixed blocking; variable blocking
// leaves them unknown.
func synthesizeStreamFormat(meta FrameMetadata, strategy BlockingStrategy) StreamFormat {
	sf := StreamFormat{
		SampleRate: meta.SampleRate,
		Channels:   meta.Channels,
		SampleSize: meta.SampleSize,
	}

	if strategy == BlockingFixed {
		blockSize := uint16(meta.Samples)
		sf.MinBlockSize = blockSize
		sf.MaxBlockSize = blockSize
	}

	return sf
}
