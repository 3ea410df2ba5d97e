package store

import (
	"testing"

	"github.com/RoaringBitmap/roaring"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodePostings_RoundTrip(t *testing.T) {
	bm := roaring.New()
	bm.AddMany([]uint32{1, 5, 100, 1_000_000})

	enc, err := EncodePostings(bm)
	require.NoError(t, err)

	got, err := DecodePostings(enc)
	require.NoError(t, err)
	require.Equal(t, bm.ToArray(), got.ToArray())
}

func TestDecodePostings_TruncatedInput(t *testing.T) {
	_, err := DecodePostings([]byte{1, 2, 3})
	require.ErrorIs(t, err, errTruncated)
}

func TestDecodePostings_BadMagic(t *testing.T) {
	enc, err := EncodePostings(roaring.New())
	require.NoError(t, err)
	enc[0] ^= 0xFF // corrupt the magic
	_, err = DecodePostings(enc)
	require.ErrorIs(t, err, errBadMagic)
}

func TestDecodePostings_LengthMismatch(t *testing.T) {
	enc, err := EncodePostings(roaring.New())
	require.NoError(t, err)
	enc = append(enc, 0, 0, 0) // trailing garbage not reflected in the length prefix
	_, err = DecodePostings(enc)
	require.ErrorIs(t, err, errTruncated)
}
