package feed

import "context"

// DefaultScrollThreshold is the fraction of the scrollable distance at
// which the next page is requested.
const DefaultScrollThreshold = 0.8

// ScrollPosition describes the viewport within the rendered list.
type ScrollPosition struct {
	Offset   float64 // distance scrolled from the top
	Viewport float64 // visible height
	Content  float64 // total list height
}

// Depth returns how far down the list the bottom of the viewport is, in [0, 1].
// Content that fits in the viewport counts as fully scrolled.
func (p ScrollPosition) Depth() float64 {
	if p.Content <= 0 || p.Content <= p.Viewport {
		return 1
	}
	depth := (p.Offset + p.Viewport) / p.Content
	if depth < 0 {
		return 0
	}
	if depth > 1 {
		return 1
	}
	return depth
}

// ScrollPolicy decides when scrolling should request another page.
type ScrollPolicy struct {
	Threshold float64
}

// DefaultScrollPolicy loads the next page at 80% depth.
func DefaultScrollPolicy() ScrollPolicy {
	return ScrollPolicy{Threshold: DefaultScrollThreshold}
}

func (p ScrollPolicy) normalized() ScrollPolicy {
	if p.Threshold <= 0 || p.Threshold > 1 {
		p.Threshold = DefaultScrollThreshold
	}
	return p
}

// ShouldLoad reports whether pos has crossed the threshold.
func (p ScrollPolicy) ShouldLoad(pos ScrollPosition) bool {
	return pos.Depth() >= p.normalized().Threshold
}

// OnScroll loads the next page once the scroll threshold is crossed. It
// reports whether a load was attempted.
func (a *Accumulator) OnScroll(ctx context.Context, pos ScrollPosition) (bool, error) {
	if !a.opts.Scroll.ShouldLoad(pos) {
		return false, nil
	}
	return true, a.LoadMore(ctx)
}
