package dataset

import "sync"

// Cache loads a sheet at most once and hands out the same Dataset
// afterwards. The failure of the first load is kept too.
type Cache struct {
	path string
	opts Options

	once sync.Once
	ds   *Dataset
	err  error
}

// NewCache returns a Cache for the sheet at path.
func NewCache(path string, opts Options) *Cache {
	return &Cache{
		path: path,
		opts: opts,
	}
}

// Path returns the sheet location.
func (c *Cache) Path() string {
	return c.path
}

// Get returns the dataset, loading it on the first call.
func (c *Cache) Get() (*Dataset, error) {
	c.once.Do(func() {
		c.ds, c.err = Load(c.path, c.opts)
	})
	return c.ds, c.err
}
