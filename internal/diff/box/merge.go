package box

import (
	"cmp"
	"slices"
)

// Touches reports whether the rectangles overlap or share an edge.
func (b BoundingBox) Touches(o BoundingBox) bool {
	return b.X <= o.X+o.Width && b.X+b.Width >= o.X &&
		b.Y <= o.Y+o.Height && b.Y+b.Height >= o.Y
}

func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	minX := min(b.X, o.X)
	minY := min(b.Y, o.Y)
	maxX := max(b.X+b.Width, o.X+o.Width)
	maxY := max(b.Y+b.Height, o.Y+o.Height)

	pixels := b.Pixels + o.Pixels
	score := 0.0
	if pixels > 0 {
		score = (b.DiffScore*float64(b.Pixels) + o.DiffScore*float64(o.Pixels)) / float64(pixels)
	}

	return BoundingBox{
		X:         minX,
		Y:         minY,
		Width:     maxX - minX,
		Height:    maxY - minY,
		DiffScore: score,
		Pixels:    pixels,
	}
}

// Merge unions touching boxes until no two of the remaining boxes touch.
// The scan restarts after every merge because a grown box can reach boxes
// that were already compared.
func Merge(boxes []BoundingBox) []BoundingBox {
	if len(boxes) <= 1 {
		return boxes
	}

	merged := slices.Clone(boxes)
	for {
		i, j, ok := firstTouchingPair(merged)
		if !ok {
			return merged
		}
		merged[i] = merged[i].Union(merged[j])
		merged = slices.Delete(merged, j, j+1)
	}
}

func firstTouchingPair(boxes []BoundingBox) (int, int, bool) {
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			if boxes[i].Touches(boxes[j]) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

// Sort orders boxes by area, largest first.
func Sort(boxes []BoundingBox) []BoundingBox {
	slices.SortStableFunc(boxes, func(a BoundingBox, b BoundingBox) int {
		return cmp.Compare(b.Area(), a.Area())
	})
	return boxes
}
