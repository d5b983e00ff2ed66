package catalog

import (
	"github.com/household-archive/boxcat/internal/models"
)

// Collection is the working item set during reconciliation: an id-keyed map
// for O(1) patch application, plus an insertion-order id list so projections
// come out deterministic (base order, then delta add order).
type Collection struct {
	items map[string]*models.Item
	order []string
}

func NewCollection() *Collection {
	return &Collection{
		items: make(map[string]*models.Item),
	}
}

func (c *Collection) Get(id string) (*models.Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

func (c *Collection) Has(id string) bool {
	_, ok := c.items[id]
	return ok
}

// Put inserts or replaces an item. A replaced item keeps its original
// position in iteration order.
func (c *Collection) Put(item *models.Item) {
	if _, exists := c.items[item.ID]; !exists {
		c.order = append(c.order, item.ID)
	}
	c.items[item.ID] = item
}

func (c *Collection) Delete(id string) {
	if _, exists := c.items[id]; !exists {
		return
	}
	delete(c.items, id)
	for i, candidate := range c.order {
		if candidate == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Collection) Len() int {
	return len(c.items)
}

// Items returns the collection in insertion order.
func (c *Collection) Items() []*models.Item {
	result := make([]*models.Item, 0, len(c.order))
	for _, id := range c.order {
		result = append(result, c.items[id])
	}
	return result
}
