package flacparse

// Frame header decode + validation — spec.md §4.C. Field order and bit
// widths grounded on other_examples/442ebf11_mewkiz-flac__frame-header.go.go
// (mewkiz/flac's frame.NewHeader), generalized from a blocking io.Reader
// read into an offset-into-slice decode that can report NeedsMore instead of
// an I/O error, and from a single ChannelOrder enum into this spec's
// channels+ChannelMode pair.

// frameSyncLengthBytes is the length in bytes of the frame sync pattern (15
// sync bits + 1 blocking-strategy bit), per spec.md §4.D.
const frameSyncLengthBytes = 2

// syncPattern15 is the 15-bit sync pattern 0b111111111111100.
const syncPattern15 = 0x7FFC

// fixedSyncWord and variableSyncWord are the 16-bit sync+blocking-bit words
// the boundary finder scans for, per spec.md §4.D.
const (
	fixedSyncWord    = 0xFFF8
	variableSyncWord = 0xFFF9
)

// channelAssignment maps a 4-bit channel-assignment code to a channel count
// and decorrelation mode, per spec.md §4.C. ok is false for the reserved
// range 11..15.
func channelAssignment(code byte) (channels uint8, mode ChannelMode, ok bool) {
	switch {
	case code <= 7:
		return code + 1, ChannelIndependent, true
	case code == 8:
		return 2, ChannelLeftSide, true
	case code == 9:
		return 2, ChannelRightSide, true
	case code == 10:
		return 2, ChannelMidSide, true
	default:
		return 0, 0, false
	}
}

// decodeFrameHeader attempts to decode and validate a candidate frame header
// at data[0:]. established is the stream's locked-in blocking strategy
// (BlockingUnset if not yet observed); format is the known StreamFormat, or
// nil if none has been established yet; prev is the previous frame's
// metadata (for the starting-sample-number continuity check), or nil if this
// is the first frame.
//
// Returns the decoded FrameMetadata, the header's length in bytes, the
// resulting blocking strategy (useful when established was still Unset), and
// an outcome: outcomeOk, outcomeNeedsMore (data too short to decide), or
// outcomeInvalid (kind explains why).
func decodeFrameHeader(data []byte, established BlockingStrategy, format *StreamFormat, prev *FrameMetadata) (meta FrameMetadata, headerLen int, strategy BlockingStrategy, outcome headerOutcome, kind Kind) {
	if len(data) < frameSyncLengthBytes {
		return FrameMetadata{}, 0, established, outcomeNeedsMore, 0
	}

	word := uint16(data[0])<<8 | uint16(data[1])
	if word>>1 != syncPattern15 {
		return FrameMetadata{}, 0, established, outcomeInvalid, KindInvalidHeader
	}

	strategy = BlockingFixed
	if word&0x1 != 0 {
		strategy = BlockingVariable
	}
	if established != BlockingUnset && established != strategy {
		return FrameMetadata{}, 0, established, outcomeInvalid, KindInvalidHeader
	}

	if len(data) < 4 {
		return FrameMetadata{}, 0, strategy, outcomeNeedsMore, 0
	}

	blockSizeCode := data[2] >> 4
	sampleRateCode := data[2] & 0x0F
	channelCode := data[3] >> 4
	sampleSizeCode := (data[3] >> 1) & 0x07
	reserved := data[3] & 0x01

	if reserved != 0 {
		return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeader
	}

	blockExtra, blockOK := blockSizeExtraBytes(blockSizeCode)
	if !blockOK {
		return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidBlockSize
	}

	rateExtra, rateOK := sampleRateExtraBytes(sampleRateCode)
	if !rateOK {
		return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidSampleRate
	}

	channels, mode, chOK := channelAssignment(channelCode)
	if !chOK {
		return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeader
	}

	var sampleSize uint8
	switch sampleSizeCode {
	case 0x0:
		if format != nil {
			sampleSize = format.SampleSize
		}
	case 0x1:
		sampleSize = 8
	case 0x2:
		sampleSize = 12
	case 0x3, 0x7:
		return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeader
	case 0x4:
		sampleSize = 16
	case 0x5:
		sampleSize = 20
	case 0x6:
		sampleSize = 24
	}

	offset := 4

	number, n, numOutcome := decodeUTF8Num(data[offset:])
	switch numOutcome {
	case outcomeNeedsMore:
		return FrameMetadata{}, 0, strategy, outcomeNeedsMore, 0
	case outcomeInvalid:
		return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidUtf8Num
	}
	offset += n

	var blockTail []byte
	if blockExtra > 0 {
		if len(data) < offset+blockExtra {
			return FrameMetadata{}, 0, strategy, outcomeNeedsMore, 0
		}
		blockTail = data[offset : offset+blockExtra]
		offset += blockExtra
	}
	samples := resolveBlockSize(blockSizeCode, blockTail)

	var rateTail []byte
	if rateExtra > 0 {
		if len(data) < offset+rateExtra {
			return FrameMetadata{}, 0, strategy, outcomeNeedsMore, 0
		}
		rateTail = data[offset : offset+rateExtra]
		offset += rateExtra
	}
	sampleRate := resolveSampleRate(sampleRateCode, rateTail)
	if sampleRateCode == 0x0 && format != nil {
		sampleRate = format.SampleRate
	}

	if len(data) < offset+1 {
		return FrameMetadata{}, 0, strategy, outcomeNeedsMore, 0
	}
	headerLen = offset + 1
	crcByte := data[offset]
	if got := crc8Sum(data[:offset]); got != crcByte {
		return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeaderCRC
	}

	var startingSample uint64
	switch strategy {
	case BlockingVariable:
		startingSample = number
	default: // BlockingFixed
		if format != nil && format.MinBlockSize > 0 {
			startingSample = number * uint64(format.MinBlockSize)
		} else {
			startingSample = number * uint64(samples)
		}
	}

	meta = FrameMetadata{
		StartingSampleNumber: startingSample,
		Samples:              samples,
		SampleRate:           sampleRate,
		SampleSize:           sampleSize,
		Channels:             channels,
		ChannelMode:          mode,
	}

	if format != nil {
		if format.Channels != 0 && meta.Channels != format.Channels {
			return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeader
		}
		if format.SampleRate != 0 && meta.SampleRate != format.SampleRate {
			return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeader
		}
		if format.SampleSize != 0 && meta.SampleSize != format.SampleSize {
			return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeader
		}
		if format.MaxBlockSize != 0 && meta.Samples > uint32(format.MaxBlockSize) {
			return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeader
		}
	}

	if prev != nil && meta.StartingSampleNumber != prev.StartingSampleNumber+uint64(prev.Samples) {
		return FrameMetadata{}, 0, strategy, outcomeInvalid, KindInvalidHeader
	}

	return meta, headerLen, strategy, outcomeOk, 0
}
