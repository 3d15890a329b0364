package flacparse

// Metadata block decoding — spec.md §4.B. Field names and the "all-zero
// means unknown" convention are grounded on mtw00-flac/flacmeta.go's
// FLACMetadataBlockHeader / FLACStreaminfoBlock structs, generalized to this
// spec's StreamFormat.

const (
	metadataHeaderSize = 4
	streamInfoBodySize = 34
	metadataTypeStreamInfo = 0
)

// metadataBlockHeader is the decoded 4-byte metadata block header:
// is_last:1 | type:7 | length:24.
type metadataBlockHeader struct {
	isLast bool
	typ    byte
	length uint32
}

// decodeMetadataBlockHeader parses the 4-byte metadata block header at
// data[0:4]. The caller must ensure len(data) >= 4.
func decodeMetadataBlockHeader(data []byte) metadataBlockHeader {
	b0 := data[0]
	length := uint32(data[1])<<16 | uint32(data[2])<<8 | uint32(data[3])
	return metadataBlockHeader{
		isLast: b0&0x80 != 0,
		typ:    b0 & 0x7F,
		length: length,
	}
}

// decodeStreamInfo decodes the fixed 34-byte STREAMINFO body per spec.md §3.
// The caller must ensure len(body) >= streamInfoBodySize.
func decodeStreamInfo(body []byte) StreamFormat {
	c := bitCursor{data: body}

	minBlock := uint16(c.read(16))
	maxBlock := uint16(c.read(16))
	minFrame := uint32(c.read(24))
	maxFrame := uint32(c.read(24))
	sampleRate := uint32(c.read(20))
	channels := uint8(c.read(3)) + 1
	sampleSize := uint8(c.read(5)) + 1
	totalSamples := c.read(36)

	var md5 [16]byte
	copy(md5[:], body[18:34])

	hasMD5 := false
	for _, b := range md5 {
		if b != 0 {
			hasMD5 = true
			break
		}
	}

	return StreamFormat{
		MinBlockSize: minBlock,
		MaxBlockSize: maxBlock,
		MinFrameSize: minFrame,
		MaxFrameSize: maxFrame,
		SampleRate:   sampleRate,
		Channels:     channels,
		SampleSize:   sampleSize,
		TotalSamples: totalSamples,
		MD5Signature: md5,
		HasMD5:       hasMD5,
	}
}
