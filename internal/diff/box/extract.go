package box

var neighbors = [4][2]int{
	{1, 0},
	{-1, 0},
	{0, 1},
	{0, -1},
}

type member struct {
	index    int
	distance float64
}

// Extract collects 4-connected components of pixels whose distance exceeds the
// threshold and returns the bounding box of every component that survives the
// noise filters.
//
// Neighbours at or below the threshold are marked visited without being expanded,
// so they can never seed a later component.
func Extract(a View, b View, p Parameters) []BoundingBox {
	width := a.Width()
	height := a.Height()

	visited := make([]bool, width*height)
	var stack []member
	var boxes []BoundingBox

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			index := y*width + x
			if visited[index] {
				continue
			}
			visited[index] = true

			d := distanceAt(a, b, x, y)
			if d <= p.Threshold {
				continue
			}

			minX, maxX, minY, maxY := x, x, y, y
			pixels := 0
			sum := 0.0

			stack = append(stack[:0], member{index: index, distance: d})
			for len(stack) > 0 {
				current := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				cx := current.index % width
				cy := current.index / width

				sum += current.distance
				pixels++
				if cx < minX {
					minX = cx
				}
				if cx > maxX {
					maxX = cx
				}
				if cy < minY {
					minY = cy
				}
				if cy > maxY {
					maxY = cy
				}

				for _, n := range neighbors {
					nx := cx + n[0]
					ny := cy + n[1]
					if nx < 0 || ny < 0 || nx >= width || ny >= height {
						continue
					}
					ni := ny*width + nx
					if visited[ni] {
						continue
					}
					visited[ni] = true

					if nd := distanceAt(a, b, nx, ny); nd > p.Threshold {
						stack = append(stack, member{index: ni, distance: nd})
					}
				}
			}

			boxWidth := maxX - minX + 1
			boxHeight := maxY - minY + 1
			if pixels < p.MinClusterPixels || boxWidth*boxHeight < p.MinBoxArea {
				continue
			}

			boxes = append(boxes, BoundingBox{
				X:         minX,
				Y:         minY,
				Width:     boxWidth,
				Height:    boxHeight,
				DiffScore: sum / float64(pixels),
				Pixels:    pixels,
			})
		}
	}

	return boxes
}
