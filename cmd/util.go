package cmd

import "github.com/agentic-research/rankcore/api"

func bitmapOf(ids map[uint32]struct{}) *api.Bitmap {
	bm := api.NewBitmap()
	for id := range ids {
		bm.Add(id)
	}
	return bm
}
