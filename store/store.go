// Package store persists encoded rasters in a Pebble key-value store,
// the way spatial databases keep WKB blobs in their storage engine.
// Values are full WKB raster buffers; decoding happens on read, and a
// corrupt stored buffer surfaces the codec's error untouched.
package store

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
	"golang.org/x/sync/errgroup"

	wkbraster "github.com/nathancahill/wkb-raster"
)

// ErrRasterNotFound is returned by Get when no raster has the given
// name.
var ErrRasterNotFound = errors.New("raster not found")

const (
	rasterPrefix byte = 'r'
	separator    byte = 0
)

// Store is a collection of named rasters backed by a Pebble database.
// It is safe for concurrent use.
type Store struct {
	db *pebble.DB
}

// Open opens or creates a store at path. It takes the same arguments as
// Pebble's Open function; pass an in-memory vfs through opts to avoid
// touching disk.
func Open(path string, opts *pebble.Options) (*Store, error) {
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func buildKey(name string) []byte {
	key := make([]byte, 0, len(name)+2)
	key = append(key, rasterPrefix, separator)
	key = append(key, name...)
	return key
}

// Put encodes r and stores it under name, overwriting any previous
// raster with that name.
func (s *Store) Put(name string, r *wkbraster.Raster) error {
	if name == "" {
		return errors.New("cannot store raster with empty name")
	}

	buf, err := wkbraster.Marshal(r)
	if err != nil {
		return err
	}

	return s.db.Set(buildKey(name), buf, pebble.Sync)
}

// PutMany encodes the given rasters concurrently and writes them in a
// single atomic batch. Either all rasters are stored or none.
func (s *Store) PutMany(rasters map[string]*wkbraster.Raster) error {
	names := make([]string, 0, len(rasters))
	for name := range rasters {
		if name == "" {
			return errors.New("cannot store raster with empty name")
		}
		names = append(names, name)
	}

	encoded := make([][]byte, len(names))

	var g errgroup.Group
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			buf, err := wkbraster.Marshal(rasters[name])
			if err != nil {
				return errors.Wrapf(err, "raster %q", name)
			}
			encoded[i] = buf
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	batch := s.db.NewBatch()
	defer batch.Close()

	for i, name := range names {
		if err := batch.Set(buildKey(name), encoded[i], nil); err != nil {
			return err
		}
	}

	return batch.Commit(pebble.Sync)
}

// Get decodes and returns the raster stored under name. It returns
// ErrRasterNotFound if none exists.
func (s *Store) Get(name string) (*wkbraster.Raster, error) {
	buf, closer, err := s.db.Get(buildKey(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.WithStack(ErrRasterNotFound)
		}
		return nil, err
	}
	defer closer.Close()

	return wkbraster.Unmarshal(buf)
}

// GetRaw returns a copy of the encoded buffer stored under name without
// decoding it.
func (s *Store) GetRaw(name string) ([]byte, error) {
	buf, closer, err := s.db.Get(buildKey(name))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.WithStack(ErrRasterNotFound)
		}
		return nil, err
	}
	defer closer.Close()

	cp := make([]byte, len(buf))
	copy(cp, buf)
	return cp, nil
}

// Delete removes the raster stored under name. Deleting a missing name
// is not an error.
func (s *Store) Delete(name string) error {
	return s.db.Delete(buildKey(name), pebble.Sync)
}

// Names returns the names of all stored rasters in lexical order.
func (s *Store) Names() ([]string, error) {
	it := s.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte{rasterPrefix, separator},
		UpperBound: []byte{rasterPrefix, separator + 1},
	})

	var names []string
	for it.First(); it.Valid(); it.Next() {
		names = append(names, string(it.Key()[2:]))
	}
	if err := it.Error(); err != nil {
		it.Close()
		return nil, err
	}

	return names, it.Close()
}
