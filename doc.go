/*
Package wkbraster implements the Well-Known Binary raster format used
by spatial databases to serialize multi-band gridded pixel data.

A buffer starts with a fixed 61-byte header: a single endianness marker
byte governing every multi-byte field that follows, the format version,
the band count, the six affine georeferencing parameters, the spatial
reference id and the grid dimensions. Band records follow sequentially;
each one carries a flags byte (pixel type ordinal plus nodata and
offline flags), an optional nodata value and either the row-major pixel
payload or a reference to an external file. Pixel types narrower than a
byte are bit-packed, most significant bit first, with each row starting
on a byte boundary.

Unmarshal and ReadRaster decode a buffer into a Raster; Marshal and
WriteRaster produce one from a Raster or any Dataset implementation.
The codec holds no shared state, so independent calls may run
concurrently.

The store subpackage persists encoded rasters in a Pebble key-value
store.
*/
package wkbraster
