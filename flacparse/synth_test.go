package flacparse

// Synthetic stream/frame builders shared by the package's tests. These
// construct byte-exact FLAC fragments (stream marker, STREAMINFO, frame
// headers with correct CRC-8) without depending on any external fixture
// file, mirroring the teacher's own getBenchmarkFile fallback-to-skip
// pattern except these never need to skip since the fixtures are built
// in-memory.

func encodeUTF8Num(v uint64) []byte {
	switch {
	case v < 0x80:
		return []byte{byte(v)}
	case v < 0x800:
		return []byte{
			0xC0 | byte(v>>6),
			0x80 | byte(v&0x3F),
		}
	case v < 0x10000:
		return []byte{
			0xE0 | byte(v>>12),
			0x80 | byte((v>>6)&0x3F),
			0x80 | byte(v&0x3F),
		}
	case v < 0x200000:
		return []byte{
			0xF0 | byte(v>>18),
			0x80 | byte((v>>12)&0x3F),
			0x80 | byte((v>>6)&0x3F),
			0x80 | byte(v&0x3F),
		}
	case v < 0x4000000:
		return []byte{
			0xF8 | byte(v>>24),
			0x80 | byte((v>>18)&0x3F),
			0x80 | byte((v>>12)&0x3F),
			0x80 | byte((v>>6)&0x3F),
			0x80 | byte(v&0x3F),
		}
	case v < 0x80000000:
		return []byte{
			0xFC | byte(v>>30),
			0x80 | byte((v>>24)&0x3F),
			0x80 | byte((v>>18)&0x3F),
			0x80 | byte((v>>12)&0x3F),
			0x80 | byte((v>>6)&0x3F),
			0x80 | byte(v&0x3F),
		}
	default:
		return []byte{
			0xFE,
			0x80 | byte((v>>30)&0x3F),
			0x80 | byte((v>>24)&0x3F),
			0x80 | byte((v>>18)&0x3F),
			0x80 | byte((v>>12)&0x3F),
			0x80 | byte((v>>6)&0x3F),
			0x80 | byte(v&0x3F),
		}
	}
}

// synthFrameOpts describes one frame header to build with buildFrameHeader.
type synthFrameOpts struct {
	variable     bool
	blockSizeCode byte // 4 bits
	sampleRateCode byte // 4 bits
	channelCode   byte // 4 bits
	sampleSizeCode byte // 3 bits
	number        uint64
}

// buildFrameHeader assembles a spec-conformant frame header (without any
// sub-frame payload after it) with a correct trailing CRC-8.
func buildFrameHeader(o synthFrameOpts) []byte {
	var header []byte

	blockingBit := byte(0)
	if o.variable {
		blockingBit = 1
	}
	word := uint16(syncPattern15)<<1 | uint16(blockingBit)
	header = append(header, byte(word>>8), byte(word))

	header = append(header, (o.blockSizeCode<<4)|o.sampleRateCode)
	header = append(header, (o.channelCode<<4)|(o.sampleSizeCode<<1))

	header = append(header, encodeUTF8Num(o.number)...)

	// No block-size or sample-rate tail bytes are written, so only code
	// points without extra bytes yield a well-formed header.

	crc := crc8Sum(header)
	header = append(header, crc)
	return header
}

// stdFrameOpts returns the frame options used pervasively across this
// package's tests: fixed blocking, 1152-sample blocks, 16kHz, mono, 16-bit.
func stdFrameOpts(frameIndex uint64) synthFrameOpts {
	return synthFrameOpts{
		variable:       false,
		blockSizeCode:  0x3, // 576 << (3-2) = 1152
		sampleRateCode: 0x5, // 16000 Hz
		channelCode:    0x0, // mono
		sampleSizeCode: 0x4, // 16 bits
		number:         frameIndex,
	}
}

// buildFrame builds a full synthetic frame: header + arbitrary filler
// payload bytes standing in for sub-frame data (this parser never decodes
// sub-frames, so the filler's content is irrelevant, but it must not
// itself contain the sync word used by this stream's blocking strategy).
func buildFrame(o synthFrameOpts, payloadLen int) []byte {
	frame := buildFrameHeader(o)
	filler := make([]byte, payloadLen)
	for i := range filler {
		// 0x55 never begins a sync byte pair for either fixed (0xFFF8) or
		// variable (0xFFF9) sync words.
		filler[i] = 0x55
	}
	return append(frame, filler...)
}

// buildStreamInfoBody builds a 34-byte STREAMINFO body from the given
// fields. md5 may be nil for "unknown".
func buildStreamInfoBody(minBlock, maxBlock uint16, minFrame, maxFrame uint32, sampleRate uint32, channels, sampleSize uint8, totalSamples uint64, md5 []byte) []byte {
	body := make([]byte, 34)
	body[0] = byte(minBlock >> 8)
	body[1] = byte(minBlock)
	body[2] = byte(maxBlock >> 8)
	body[3] = byte(maxBlock)
	body[4] = byte(minFrame >> 16)
	body[5] = byte(minFrame >> 8)
	body[6] = byte(minFrame)
	body[7] = byte(maxFrame >> 16)
	body[8] = byte(maxFrame >> 8)
	body[9] = byte(maxFrame)

	// bytes 10..13 pack: sample_rate(20) | channels-1(3) | sample_size-1(5) | total_samples high 4 bits
	chMinus1 := channels - 1
	ssMinus1 := sampleSize - 1
	packed := uint64(sampleRate)<<(3+5+36) | uint64(chMinus1)<<(5+36) | uint64(ssMinus1)<<36 | (totalSamples & 0xFFFFFFFFF)
	// packed occupies 20+3+5+36 = 64 bits exactly, big-endian.
	body[10] = byte(packed >> 56)
	body[11] = byte(packed >> 48)
	body[12] = byte(packed >> 40)
	body[13] = byte(packed >> 32)
	body[14] = byte(packed >> 24)
	body[15] = byte(packed >> 16)
	body[16] = byte(packed >> 8)
	body[17] = byte(packed)

	if md5 != nil {
		copy(body[18:34], md5)
	}
	return body
}

// buildStreamHeader builds "fLaC" + one metadata block header+STREAMINFO
// body, marked as the last metadata block.
func buildStreamHeader(info []byte) []byte {
	var out []byte
	out = append(out, streamMarker...)
	hdr := []byte{0x80, 0, 0, byte(len(info))} // is_last=1, type=0 (STREAMINFO)
	out = append(out, hdr...)
	out = append(out, info...)
	return out
}
