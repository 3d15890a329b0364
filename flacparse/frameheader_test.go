package flacparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeFrameHeaderFirstFrame(t *testing.T) {
	header := buildFrameHeader(stdFrameOpts(0))

	meta, headerLen, strategy, outcome, _ := decodeFrameHeader(header, BlockingUnset, nil, nil)

	require.Equal(t, outcomeOk, outcome)
	assert.Equal(t, BlockingFixed, strategy)
	assert.Equal(t, len(header), headerLen)
	assert.Equal(t, uint32(1152), meta.Samples)
	assert.Equal(t, uint32(16000), meta.SampleRate)
	assert.Equal(t, uint8(1), meta.Channels)
	assert.Equal(t, uint8(16), meta.SampleSize)
	assert.Equal(t, ChannelIndependent, meta.ChannelMode)
	assert.Equal(t, uint64(0), meta.StartingSampleNumber)
}

func TestDecodeFrameHeaderNeedsMore(t *testing.T) {
	header := buildFrameHeader(stdFrameOpts(0))

	for n := 0; n < len(header); n++ {
		_, _, _, outcome, _ := decodeFrameHeader(header[:n], BlockingUnset, nil, nil)
		assert.Equalf(t, outcomeNeedsMore, outcome, "truncated to %d of %d bytes", n, len(header))
	}
}

func TestDecodeFrameHeaderBadCRC(t *testing.T) {
	header := buildFrameHeader(stdFrameOpts(0))
	header[len(header)-1] ^= 0xFF // flip the CRC byte

	_, _, _, outcome, kind := decodeFrameHeader(header, BlockingUnset, nil, nil)
	assert.Equal(t, outcomeInvalid, outcome)
	assert.Equal(t, KindInvalidHeaderCRC, kind)
}

func TestDecodeFrameHeaderReservedBlockSize(t *testing.T) {
	o := stdFrameOpts(0)
	o.blockSizeCode = 0x0
	header := buildFrameHeader(o)

	_, _, _, outcome, kind := decodeFrameHeader(header, BlockingUnset, nil, nil)
	assert.Equal(t, outcomeInvalid, outcome)
	assert.Equal(t, KindInvalidBlockSize, kind)
}

func TestDecodeFrameHeaderReservedSampleRate(t *testing.T) {
	o := stdFrameOpts(0)
	o.sampleRateCode = 0xF
	header := buildFrameHeader(o)

	_, _, _, outcome, kind := decodeFrameHeader(header, BlockingUnset, nil, nil)
	assert.Equal(t, outcomeInvalid, outcome)
	assert.Equal(t, KindInvalidSampleRate, kind)
}

func TestDecodeFrameHeaderReservedChannelAssignment(t *testing.T) {
	o := stdFrameOpts(0)
	o.channelCode = 0xB // 11, reserved
	header := buildFrameHeader(o)

	_, _, _, outcome, kind := decodeFrameHeader(header, BlockingUnset, nil, nil)
	assert.Equal(t, outcomeInvalid, outcome)
	assert.Equal(t, KindInvalidHeader, kind)
}

func TestDecodeFrameHeaderStereoModes(t *testing.T) {
	tests := []struct {
		code byte
		mode ChannelMode
	}{
		{code: 0x8, mode: ChannelLeftSide},
		{code: 0x9, mode: ChannelRightSide},
		{code: 0xA, mode: ChannelMidSide},
	}
	for _, tt := range tests {
		o := stdFrameOpts(0)
		o.channelCode = tt.code
		header := buildFrameHeader(o)

		meta, _, _, outcome, _ := decodeFrameHeader(header, BlockingUnset, nil, nil)
		require.Equal(t, outcomeOk, outcome)
		assert.Equal(t, uint8(2), meta.Channels)
		assert.Equal(t, tt.mode, meta.ChannelMode)
	}
}

func TestDecodeFrameHeaderBlockingStrategyMismatch(t *testing.T) {
	header := buildFrameHeader(stdFrameOpts(0)) // fixed

	_, _, _, outcome, kind := decodeFrameHeader(header, BlockingVariable, nil, nil)
	assert.Equal(t, outcomeInvalid, outcome)
	assert.Equal(t, KindInvalidHeader, kind)
}

func TestDecodeFrameHeaderConsistencyAgainstFormat(t *testing.T) {
	format := &StreamFormat{
		Channels:     1,
		SampleRate:   16000,
		SampleSize:   16,
		MaxBlockSize: 1152,
	}
	header := buildFrameHeader(stdFrameOpts(0))

	meta, _, _, outcome, _ := decodeFrameHeader(header, BlockingUnset, format, nil)
	require.Equal(t, outcomeOk, outcome)
	assert.Equal(t, uint32(1152), meta.Samples)

	// Now a header whose channel count disagrees with format.
	o := stdFrameOpts(0)
	o.channelCode = 0x1 // 2 independent channels
	bad := buildFrameHeader(o)
	_, _, _, outcome, kind := decodeFrameHeader(bad, BlockingUnset, format, nil)
	assert.Equal(t, outcomeInvalid, outcome)
	assert.Equal(t, KindInvalidHeader, kind)
}

func TestDecodeFrameHeaderContinuity(t *testing.T) {
	first := buildFrameHeader(stdFrameOpts(0))
	meta0, _, strategy, outcome, _ := decodeFrameHeader(first, BlockingUnset, nil, nil)
	require.Equal(t, outcomeOk, outcome)

	second := buildFrameHeader(stdFrameOpts(1))
	meta1, _, _, outcome, _ := decodeFrameHeader(second, strategy, nil, &meta0)
	require.Equal(t, outcomeOk, outcome)
	assert.Equal(t, meta0.StartingSampleNumber+uint64(meta0.Samples), meta1.StartingSampleNumber)

	// A frame index that skips ahead breaks continuity.
	third := buildFrameHeader(stdFrameOpts(5))
	_, _, _, outcome, kind := decodeFrameHeader(third, strategy, nil, &meta1)
	assert.Equal(t, outcomeInvalid, outcome)
	assert.Equal(t, KindInvalidHeader, kind)
}

func TestDecodeFrameHeaderVariableBlockingSampleNumber(t *testing.T) {
	o := synthFrameOpts{
		variable:       true,
		blockSizeCode:  0x3,
		sampleRateCode: 0x5,
		channelCode:    0x0,
		sampleSizeCode: 0x4,
		number:         4096,
	}
	header := buildFrameHeader(o)

	meta, _, strategy, outcome, _ := decodeFrameHeader(header, BlockingUnset, nil, nil)
	require.Equal(t, outcomeOk, outcome)
	assert.Equal(t, BlockingVariable, strategy)
	assert.Equal(t, uint64(4096), meta.StartingSampleNumber)
}
