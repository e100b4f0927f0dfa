package box

import "math"

const alphaWeight = 0.5

// maxDistance is the weighted distance between opposite colors that also have opposite alpha.
var maxDistance = math.Sqrt(3*255*255 + (alphaWeight*255)*(alphaWeight*255))

// Distance is the Euclidean distance over (dR, dG, dB, dA/2) normalized into [0, 1].
func Distance(r1 uint8, g1 uint8, b1 uint8, a1 uint8, r2 uint8, g2 uint8, b2 uint8, a2 uint8) float64 {
	dr := float64(r1) - float64(r2)
	dg := float64(g1) - float64(g2)
	db := float64(b1) - float64(b2)
	da := (float64(a1) - float64(a2)) * alphaWeight
	return math.Sqrt(dr*dr+dg*dg+db*db+da*da) / maxDistance
}

func distanceAt(a View, b View, x int, y int) float64 {
	ar, ag, ab, aa := a.NRGBA(x, y)
	br, bg, bb, ba := b.NRGBA(x, y)
	return Distance(ar, ag, ab, aa, br, bg, bb, ba)
}
