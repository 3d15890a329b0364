package flacparse

// Frame boundary finder — spec.md §4.D. No teacher/pack file implements this
// speculative, keep-on-NeedsMore resync search (every pack decoder trusts
// byte-exact reads from a blocking io.Reader instead), so this is new
// engineering built on the consistency-check building blocks ported from
// other_examples/442ebf11_mewkiz-flac__frame-header.go.go.

type boundaryOutcome int

const (
	boundaryFound boundaryOutcome = iota
	boundaryNeedsMore
	boundaryFatal
)

// findFrameBoundary searches data, which starts at an already-validated
// frame header, for the next sync occurrence whose candidate header both
// decodes and passes the consistency check. On boundaryFound, frameLen is
// the byte length of the current frame (data[:frameLen]) and next is the
// metadata of the frame starting at data[frameLen:]. On boundaryFatal, kind
// is always KindInvalidFrame.
func findFrameBoundary(data []byte, strategy BlockingStrategy, format *StreamFormat, prev *FrameMetadata) (outcome boundaryOutcome, frameLen int, next FrameMetadata, kind Kind) {
	syncWord := uint16(fixedSyncWord)
	if strategy == BlockingVariable {
		syncWord = variableSyncWord
	}

	start := frameSyncLengthBytes
	if format != nil && int(format.MinFrameSize) > start {
		start = int(format.MinFrameSize)
	}

	end := len(data)
	boundByMaxFrameSize := false
	if format != nil && format.MaxFrameSize > 0 {
		limit := int(format.MaxFrameSize) + frameSyncLengthBytes
		if limit <= len(data) {
			end = limit
			boundByMaxFrameSize = true
		}
	}

	for o := start; o < end && o+1 < len(data); o++ {
		word := uint16(data[o])<<8 | uint16(data[o+1])
		if word != syncWord {
			continue
		}

		meta, headerLen, _, hOutcome, hKind := decodeFrameHeader(data[o:], strategy, format, prev)
		switch hOutcome {
		case outcomeOk:
			_ = headerLen
			return boundaryFound, o, meta, 0
		case outcomeNeedsMore:
			return boundaryNeedsMore, 0, FrameMetadata{}, 0
		case outcomeInvalid:
			_ = hKind
			continue
		}
	}

	if boundByMaxFrameSize {
		return boundaryFatal, 0, FrameMetadata{}, KindInvalidFrame
	}
	return boundaryNeedsMore, 0, FrameMetadata{}, 0
}
