package store

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/RoaringBitmap/roaring"
)

// postingsMagic tags the framing of an encoded posting list: 4 bytes of
// magic, 4 bytes little-endian payload length, then the roaring bitmap's
// own run-container serialization. The ranking core only ever decodes;
// EncodePostings exists purely to build fixtures (tests and the `index`
// CLI command), not as a general indexing pipeline.
const postingsMagic uint32 = 0x524F4152 // "ROAR"

// DecodePostings turns framed bytes into a Bitmap. It fails on truncation
// or a bad magic rather than silently returning a partial bitmap.
func DecodePostings(b []byte) (*roaring.Bitmap, error) {
	if len(b) < 8 {
		return nil, fmt.Errorf("%w: truncated posting list (%d bytes)", errTruncated, len(b))
	}
	magic := binary.LittleEndian.Uint32(b[0:4])
	if magic != postingsMagic {
		return nil, fmt.Errorf("%w: bad magic %#x", errBadMagic, magic)
	}
	payloadLen := binary.LittleEndian.Uint32(b[4:8])
	if int(payloadLen) != len(b)-8 {
		return nil, fmt.Errorf("%w: length prefix %d does not match payload %d", errTruncated, payloadLen, len(b)-8)
	}
	bm := roaring.New()
	if _, err := bm.ReadFrom(bytes.NewReader(b[8:])); err != nil {
		return nil, fmt.Errorf("%w: decode roaring payload: %v", errTruncated, err)
	}
	return bm, nil
}

// EncodePostings frames a Bitmap for storage.
func EncodePostings(bm *roaring.Bitmap) ([]byte, error) {
	bm.RunOptimize()
	var payload bytes.Buffer
	if _, err := bm.WriteTo(&payload); err != nil {
		return nil, fmt.Errorf("encode roaring payload: %w", err)
	}
	out := make([]byte, 8+payload.Len())
	binary.LittleEndian.PutUint32(out[0:4], postingsMagic)
	binary.LittleEndian.PutUint32(out[4:8], uint32(payload.Len()))
	copy(out[8:], payload.Bytes())
	return out, nil
}
