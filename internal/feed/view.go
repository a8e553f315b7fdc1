package feed

import "storefront/internal/model"

// Item is one rendered product with its stable list key.
type Item struct {
	Key     string        `json:"key"`
	Product model.Product `json:"product"`
}

// View is a snapshot of what the list should render.
type View struct {
	// Skeleton is set while the first page is loading and nothing is shown yet.
	Skeleton      bool   `json:"skeleton"`
	SkeletonCount int    `json:"skeletonCount"`
	Items         []Item `json:"items"`
	Loading       bool   `json:"loading"`
	Error         string `json:"error,omitempty"`
	CanRetry      bool   `json:"canRetry"`
	EndReached    bool   `json:"endReached"`
	EndMessage    string `json:"endMessage,omitempty"`
}

// View returns the current render state. Items are keyed by product id,
// which is unique after de-duplication.
func (a *Accumulator) View() View {
	a.mu.Lock()
	defer a.mu.Unlock()

	items := make([]Item, len(a.items))
	for i, p := range a.items {
		items[i] = Item{Key: p.ID, Product: p}
	}

	v := View{
		Items:   items,
		Loading: a.loading,
		Error:   a.lastErr,
	}
	if a.loading {
		v.SkeletonCount = a.opts.SkeletonCount
		v.Skeleton = len(a.items) == 0
	}
	if a.lastErr != "" && !a.loading {
		v.CanRetry = true
	}
	if !a.hasMore && !a.loading {
		v.EndReached = true
		v.EndMessage = EndMessage
	}
	return v
}
