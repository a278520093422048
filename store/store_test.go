package store_test

import (
	"fmt"
	"testing"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	wkbraster "github.com/nathancahill/wkb-raster"
	"github.com/nathancahill/wkb-raster/store"
)

func tempStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.Open("", &pebble.Options{FS: vfs.NewMem()})
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func testRaster(fill float64) *wkbraster.Raster {
	nodata := 255.0
	return &wkbraster.Raster{
		Header: wkbraster.Header{
			ScaleX: 1, ScaleY: -1,
			SRID:   4326,
			Width:  2, Height: 2,
		},
		Bands: []wkbraster.Band{{
			PixelType: wkbraster.PT8BUI,
			Nodata:    &nodata,
			Data:      &wkbraster.Pixels{Values: []float64{fill, fill, fill, fill}},
		}},
	}
}

func TestPutGet(t *testing.T) {
	s := tempStore(t)

	want := testRaster(7)
	require.NoError(t, s.Put("dem", want))

	got, err := s.Get("dem")
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(want, got))
}

func TestPutOverwrites(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Put("dem", testRaster(1)))
	require.NoError(t, s.Put("dem", testRaster(2)))

	got, err := s.Get("dem")
	require.NoError(t, err)
	require.Equal(t, 2.0, got.Bands[0].Data.(*wkbraster.Pixels).Values[0])
}

func TestPutEmptyName(t *testing.T) {
	s := tempStore(t)

	require.Error(t, s.Put("", testRaster(0)))
}

func TestPutInvalidRaster(t *testing.T) {
	s := tempStore(t)

	bad := testRaster(0)
	bad.Bands[0].Data.(*wkbraster.Pixels).Values = []float64{300, 0, 0, 0}

	require.ErrorIs(t, s.Put("bad", bad), wkbraster.ErrValueOutOfRange)

	_, err := s.Get("bad")
	require.ErrorIs(t, err, store.ErrRasterNotFound)
}

func TestGetNotFound(t *testing.T) {
	s := tempStore(t)

	_, err := s.Get("missing")
	require.ErrorIs(t, err, store.ErrRasterNotFound)
}

func TestGetRaw(t *testing.T) {
	s := tempStore(t)

	want := testRaster(9)
	require.NoError(t, s.Put("dem", want))

	buf, err := s.GetRaw("dem")
	require.NoError(t, err)

	enc, err := wkbraster.Marshal(want)
	require.NoError(t, err)
	require.Equal(t, enc, buf)

	_, err = s.GetRaw("missing")
	require.ErrorIs(t, err, store.ErrRasterNotFound)
}

func TestDelete(t *testing.T) {
	s := tempStore(t)

	require.NoError(t, s.Put("dem", testRaster(1)))
	require.NoError(t, s.Delete("dem"))

	_, err := s.Get("dem")
	require.ErrorIs(t, err, store.ErrRasterNotFound)

	// Deleting a missing raster is not an error.
	require.NoError(t, s.Delete("dem"))
}

func TestNames(t *testing.T) {
	s := tempStore(t)

	for _, name := range []string{"zoo", "alpha", "mid"} {
		require.NoError(t, s.Put(name, testRaster(0)))
	}

	names, err := s.Names()
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "mid", "zoo"}, names)
}

func TestPutMany(t *testing.T) {
	s := tempStore(t)

	rasters := make(map[string]*wkbraster.Raster)
	for i := 0; i < 20; i++ {
		rasters[fmt.Sprintf("tile-%02d", i)] = testRaster(float64(i))
	}

	require.NoError(t, s.PutMany(rasters))

	names, err := s.Names()
	require.NoError(t, err)
	require.Len(t, names, 20)

	got, err := s.Get("tile-13")
	require.NoError(t, err)
	require.Equal(t, 13.0, got.Bands[0].Data.(*wkbraster.Pixels).Values[0])
}

func TestPutManyAtomic(t *testing.T) {
	s := tempStore(t)

	bad := testRaster(0)
	bad.Bands[0].PixelType = wkbraster.PixelType(13)

	err := s.PutMany(map[string]*wkbraster.Raster{
		"good": testRaster(1),
		"bad":  bad,
	})
	require.Error(t, err)

	// Nothing was written.
	names, err := s.Names()
	require.NoError(t, err)
	require.Empty(t, names)
}
