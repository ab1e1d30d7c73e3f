// cache.go - Ordered page cache
package page

import (
	"sync"

	"github.com/google/btree"

	"github.com/wilhasse/go-mdb/usagemap"
)

type cachedPage struct {
	no   uint32
	data []byte
}

// Cache keeps recently loaded pages ordered by page number. When full it
// evicts whichever end of the ordered set lies farthest from the page
// being inserted, so a forward scan keeps its neighbourhood warm.
// Returned slices are shared and must not be modified.
type Cache struct {
	loader   usagemap.PageLoader
	capacity int

	mu     sync.Mutex
	tree   *btree.BTreeG[cachedPage]
	hits   int
	misses int
}

func NewCache(loader usagemap.PageLoader, capacity int) *Cache {
	return &Cache{
		loader:   loader,
		capacity: capacity,
		tree: btree.NewG[cachedPage](16, func(a, b cachedPage) bool {
			return a.no < b.no
		}),
	}
}

func (c *Cache) LoadPage(pageNo uint32) ([]byte, error) {
	c.mu.Lock()
	if it, ok := c.tree.Get(cachedPage{no: pageNo}); ok {
		c.hits++
		c.mu.Unlock()
		return it.data, nil
	}
	c.misses++
	c.mu.Unlock()

	data, err := c.loader.LoadPage(pageNo)
	if err != nil {
		return nil, err
	}
	if c.capacity <= 0 {
		return data, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for c.tree.Len() >= c.capacity {
		c.evictFrom(pageNo)
	}
	c.tree.ReplaceOrInsert(cachedPage{no: pageNo, data: data})
	return data, nil
}

func (c *Cache) evictFrom(pageNo uint32) {
	lo, _ := c.tree.Min()
	hi, _ := c.tree.Max()
	if distance(lo.no, pageNo) >= distance(hi.no, pageNo) {
		c.tree.DeleteMin()
	} else {
		c.tree.DeleteMax()
	}
}

func distance(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

// Pages returns the cached page numbers in ascending order.
func (c *Cache) Pages() []uint32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]uint32, 0, c.tree.Len())
	c.tree.Ascend(func(it cachedPage) bool {
		out = append(out, it.no)
		return true
	})
	return out
}

// Stats returns the hit and miss counters.
func (c *Cache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Invalidate drops a page, e.g. after the caller rewrote it.
func (c *Cache) Invalidate(pageNo uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tree.Delete(cachedPage{no: pageNo})
}
