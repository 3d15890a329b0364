package flacparse

import "github.com/mewkiz/pkg/hashutil/crc8"

// Bitstream utilities: the UTF-8-style variable-length integer used for
// frame/sample numbers, the block-size and sample-rate code resolvers, and
// the frame header CRC-8 — spec.md §4.A.
//
// These operate on byte slices positioned at an offset, not on a consuming
// io.Reader, because the frame boundary finder (boundary.go) must be able to
// attempt a decode speculatively and discard it without having consumed
// anything irrecoverable — the queue only advances once a candidate header
// has both decoded and passed its consistency check. That requirement is
// why this file is hand-written rather than built on one of the pack's
// io.Reader-based bit readers (farcloser-flac's bits.Reader, eaburns-flac's
// bit.Reader, mewkiz/flac's pkg/bit): all three consume from the underlying
// reader as they go and have no notion of "try this offset, and if it
// doesn't pan out, try the next one without losing bytes".

// bitCursor reads big-endian, MSB-first bit fields out of a fixed byte slice
// without mutating or consuming it — used for STREAMINFO's 144-bit packed
// layout, whose fields cross byte boundaries. The frame header decoder does
// not use it; it masks its fields out of whole bytes.
type bitCursor struct {
	data []byte
	pos  int // absolute bit offset from data[0]
}

// read returns the next n bits (n <= 56, enough for every field this parser
// ever reads in one call) as the low bits of the returned value.
func (c *bitCursor) read(n int) uint64 {
	var v uint64
	for n > 0 {
		byteIdx := c.pos / 8
		bitInByte := c.pos % 8
		take := 8 - bitInByte
		if take > n {
			take = n
		}
		b := c.data[byteIdx]
		shift := 8 - bitInByte - take
		mask := byte((1 << take) - 1)
		v = (v << take) | uint64((b>>shift)&mask)
		c.pos += take
		n -= take
	}
	return v
}

// decodeUTF8Num decodes the UTF-8-style variable-length sample/frame number
// described in spec.md §4.A, starting at data[0]. It returns the decoded
// value, the number of bytes consumed, and an outcome of outcomeOk,
// outcomeNeedsMore (data too short to tell), or outcomeInvalid (malformed
// prefix or continuation byte).
func decodeUTF8Num(data []byte) (value uint64, n int, outcome headerOutcome) {
	if len(data) < 1 {
		return 0, 0, outcomeNeedsMore
	}

	b0 := data[0]
	var contBytes int

	switch {
	case b0&0x80 == 0x00: // 0xxxxxxx
		return uint64(b0 & 0x7F), 1, outcomeOk
	case b0&0xE0 == 0xC0: // 110xxxxx
		contBytes = 1
		value = uint64(b0 & 0x1F)
	case b0&0xF0 == 0xE0: // 1110xxxx
		contBytes = 2
		value = uint64(b0 & 0x0F)
	case b0&0xF8 == 0xF0: // 11110xxx
		contBytes = 3
		value = uint64(b0 & 0x07)
	case b0&0xFC == 0xF8: // 111110xx
		contBytes = 4
		value = uint64(b0 & 0x03)
	case b0&0xFE == 0xFC: // 1111110x
		contBytes = 5
		value = uint64(b0 & 0x01)
	case b0 == 0xFE: // 11111110
		contBytes = 6
		value = 0
	default: // 0xFF or other malformed leading byte
		return 0, 0, outcomeInvalid
	}

	total := 1 + contBytes
	if len(data) < total {
		return 0, 0, outcomeNeedsMore
	}

	for i := 1; i <= contBytes; i++ {
		b := data[i]
		if b&0xC0 != 0x80 {
			return 0, 0, outcomeInvalid
		}
		value = (value << 6) | uint64(b&0x3F)
	}

	return value, total, outcomeOk
}

// blockSizeExtraBytes reports how many bytes follow the 4-bit block-size
// code per spec.md §4.A's table, and whether the code is valid (not the
// reserved 0000 pattern).
func blockSizeExtraBytes(code byte) (extra int, ok bool) {
	switch {
	case code == 0x0:
		return 0, false
	case code == 0x6:
		return 1, true
	case code == 0x7:
		return 2, true
	default:
		return 0, true
	}
}

// resolveBlockSize resolves the actual block size in samples for a block-size
// code, given the exact-length tail bytes (len(tail) must equal the value
// returned by blockSizeExtraBytes for the same code).
func resolveBlockSize(code byte, tail []byte) uint32 {
	switch {
	case code == 0x1:
		return 192
	case code >= 0x2 && code <= 0x5:
		return 576 << (code - 2)
	case code == 0x6:
		return uint32(tail[0]) + 1
	case code == 0x7:
		return (uint32(tail[0])<<8 | uint32(tail[1])) + 1
	default: // 0x8..0xF
		return 1 << code
	}
}

// fixedSampleRates is indexed by sample-rate code 0x1..0xB per spec.md §4.A.
var fixedSampleRates = [...]uint32{
	0x1: 88200,
	0x2: 176400,
	0x3: 192000,
	0x4: 8000,
	0x5: 16000,
	0x6: 22050,
	0x7: 24000,
	0x8: 32000,
	0x9: 44100,
	0xA: 48000,
	0xB: 96000,
}

// sampleRateExtraBytes reports how many bytes follow the 4-bit sample-rate
// code, and whether the code is valid (not the reserved 1111 pattern).
func sampleRateExtraBytes(code byte) (extra int, ok bool) {
	switch code {
	case 0xF:
		return 0, false
	case 0xC:
		return 1, true
	case 0xD, 0xE:
		return 2, true
	default:
		return 0, true
	}
}

// resolveSampleRate resolves the actual sample rate in Hz for a sample-rate
// code, given exact-length tail bytes. Code 0 means "inherit from
// STREAMINFO" and is returned as 0 for the caller to substitute.
func resolveSampleRate(code byte, tail []byte) uint32 {
	switch code {
	case 0x0:
		return 0
	case 0xC:
		return uint32(tail[0]) * 1000
	case 0xD:
		return uint32(tail[0])<<8 | uint32(tail[1])
	case 0xE:
		return (uint32(tail[0])<<8 | uint32(tail[1])) * 10
	default:
		return fixedSampleRates[code]
	}
}

// crc8Sum computes the FLAC frame-header CRC-8 (the ATM/poly-0x07 variant:
// init 0x00, no reflection, no xorout) over data, via
// github.com/mewkiz/pkg/hashutil/crc8 — the same package
// other_examples/442ebf11_mewkiz-flac__frame-header.go.go uses (via
// crc8.NewATM() fed through an io.TeeReader) to verify a frame header's
// trailing CRC-8 byte.
func crc8Sum(data []byte) byte {
	h := crc8.NewATM()
	h.Write(data)
	return h.Sum8()
}
