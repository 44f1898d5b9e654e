package chronicler

import (
	"io"

	"github.com/djherbis/fscache"
)

// Cache is the optional on-disk HTTP response cache named in SPEC_FULL.md
// §4.1/§6, keyed by request URL. It is a pure fetch accelerator: losing the
// cache directory never loses authoritative state, all of which lives in
// PostgreSQL.
type Cache struct {
	fc fscache.Cache
}

// NewCache opens (creating if necessary) an on-disk cache rooted at dir.
func NewCache(dir string) (*Cache, error) {
	fc, err := fscache.New(dir, 0755, 0) // no expiry; this package never removes an entry
	if err != nil {
		return nil, err
	}
	return &Cache{fc: fc}, nil
}

// Get returns a cached response body for key, if present.
func (c *Cache) Get(key string) (io.ReadCloser, bool) {
	if !c.fc.Exists(key) {
		return nil, false
	}
	r, _, err := c.fc.Get(key)
	if err != nil {
		return nil, false
	}
	return r, true
}

// PutAndTee streams src into the cache under key while also returning a
// reader of the same bytes, so the caller never blocks on cache writes
// finishing before it can start decoding.
func (c *Cache) PutAndTee(key string, src io.ReadCloser) io.ReadCloser {
	r, w, err := c.fc.Get(key)
	if err != nil || w == nil {
		if r != nil {
			_ = r.Close()
		}
		return src
	}
	return &teeReadCloser{src: src, dst: w}
}

type teeReadCloser struct {
	src io.ReadCloser
	dst io.WriteCloser
}

func (t *teeReadCloser) Read(p []byte) (int, error) {
	n, err := t.src.Read(p)
	if n > 0 {
		_, _ = t.dst.Write(p[:n])
	}
	return n, err
}

func (t *teeReadCloser) Close() error {
	_ = t.dst.Close()
	return t.src.Close()
}
