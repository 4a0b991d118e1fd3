package viewer

import (
	"image"
	"image/color"
	"math"
	"slices"

	"github.com/yosuahres/developmentVRSkripsi/pkg/geometry"
)

// Background is the clear colour of rasterised frames
var Background = color.RGBA{15, 18, 25, 255}

// Rasterize draws s as seen by cam into a width x height image.
// Opaque faces are depth tested first, translucent faces are blended back to front,
// lines are drawn last on top.
func Rasterize(s Scene, cam *Camera, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if width <= 0 || height <= 0 {
		return img
	}
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = Background.R, Background.G, Background.B, Background.A
	}

	zbuffer := make([]float64, width*height)
	for i := range zbuffer {
		zbuffer[i] = math.Inf(1)
	}

	w, h := float64(width), float64(height)
	type projected struct {
		face  Face
		xs    [3]float64
		ys    [3]float64
		zs    [3]float64
		depth float64
	}

	var translucent []projected
	for _, f := range s.Faces {
		p := projected{face: f}
		for i, v := range [3]geometry.Vector3{f.A, f.B, f.C} {
			p.xs[i], p.ys[i], p.zs[i] = cam.Project(v, w, h)
		}
		p.depth = (p.zs[0] + p.zs[1] + p.zs[2]) / 3

		col := shade(f, cam)
		if f.Color.A < 255 {
			p.face.Color = col
			translucent = append(translucent, p)
			continue
		}
		fillTriangleWithDepth(img, zbuffer, p.xs[0], p.ys[0], p.zs[0], p.xs[1], p.ys[1], p.zs[1], p.xs[2], p.ys[2], p.zs[2], col, true)
	}

	slices.SortStableFunc(translucent, func(a, b projected) int {
		switch {
		case a.depth > b.depth:
			return -1
		case a.depth < b.depth:
			return 1
		}
		return 0
	})
	for _, p := range translucent {
		fillTriangleWithDepth(img, zbuffer, p.xs[0], p.ys[0], p.zs[0], p.xs[1], p.ys[1], p.zs[1], p.xs[2], p.ys[2], p.zs[2], p.face.Color, false)
	}

	for _, l := range s.Lines {
		x1, y1, _ := cam.Project(l.A, w, h)
		x2, y2, _ := cam.Project(l.B, w, h)
		drawLine(img, int(math.Round(x1)), int(math.Round(y1)), int(math.Round(x2)), int(math.Round(y2)), l.Color)
	}
	return img
}

// shade applies head-light diffuse lighting with 30% ambient
func shade(f Face, cam *Camera) color.RGBA {
	n := f.B.Sub(f.A).Cross(f.C.Sub(f.A)).Normalize()
	view := cam.Target.Sub(cam.Position).Normalize()
	intensity := math.Max(0.3, math.Abs(n.Dot(view)))
	return color.RGBA{
		R: uint8(float64(f.Color.R) * intensity),
		G: uint8(float64(f.Color.G) * intensity),
		B: uint8(float64(f.Color.B) * intensity),
		A: f.Color.A,
	}
}

func blend(dst, src color.RGBA) color.RGBA {
	a := float64(src.A) / 255
	mix := func(d, s uint8) uint8 {
		return uint8(math.Round(float64(s)*a + float64(d)*(1-a)))
	}
	return color.RGBA{mix(dst.R, src.R), mix(dst.G, src.G), mix(dst.B, src.B), 255}
}

// fillTriangleWithDepth fills a triangle with depth testing; writeDepth false blends instead
func fillTriangleWithDepth(img *image.RGBA, zbuffer []float64, x1, y1, z1, x2, y2, z2, x3, y3, z3 float64, col color.RGBA, writeDepth bool) {
	vertices := [][3]float64{
		{x1, y1, z1},
		{x2, y2, z2},
		{x3, y3, z3},
	}

	// sort by y, top to bottom
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}
	if vertices[1][1] > vertices[2][1] {
		vertices[1], vertices[2] = vertices[2], vertices[1]
	}
	if vertices[0][1] > vertices[1][1] {
		vertices[0], vertices[1] = vertices[1], vertices[0]
	}

	x1, y1, z1 = vertices[0][0], vertices[0][1], vertices[0][2]
	x2, y2, z2 = vertices[1][0], vertices[1][1], vertices[1][2]
	x3, y3, z3 = vertices[2][0], vertices[2][1], vertices[2][2]

	bounds := img.Bounds()
	width := bounds.Max.X

	for y := int(math.Max(0, math.Ceil(y1))); y <= int(math.Min(float64(bounds.Max.Y-1), y3)); y++ {
		fy := float64(y)

		var xs, zs []float64
		edge := func(ya, yb, xa, xb, za, zb float64) {
			if ya != yb && fy >= ya && fy <= yb {
				t := (fy - ya) / (yb - ya)
				xs = append(xs, xa+t*(xb-xa))
				zs = append(zs, za+t*(zb-za))
			}
		}
		edge(y1, y2, x1, x2, z1, z2)
		edge(y2, y3, x2, x3, z2, z3)
		edge(y1, y3, x1, x3, z1, z3)
		if len(xs) < 2 {
			continue
		}

		xStart, xEnd, zStart, zEnd := xs[0], xs[1], zs[0], zs[1]
		if xStart > xEnd {
			xStart, xEnd = xEnd, xStart
			zStart, zEnd = zEnd, zStart
		}

		xStartInt := int(math.Max(0, math.Ceil(xStart)))
		xEndInt := int(math.Min(float64(bounds.Max.X-1), xEnd))

		for x := xStartInt; x <= xEndInt; x++ {
			t := 0.0
			if xEnd != xStart {
				t = (float64(x) - xStart) / (xEnd - xStart)
			}
			z := zStart + t*(zEnd-zStart)

			idx := y*width + x
			if idx < 0 || idx >= len(zbuffer) || z >= zbuffer[idx] {
				continue
			}
			if writeDepth {
				zbuffer[idx] = z
				img.SetRGBA(x, y, col)
			} else {
				img.SetRGBA(x, y, blend(img.RGBAAt(x, y), col))
			}
		}
	}
}

// drawLine draws a line on an image using Bresenham's algorithm
func drawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	bounds := img.Bounds()

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if x1 >= 0 && x1 < bounds.Max.X && y1 >= 0 && y1 < bounds.Max.Y {
			img.SetRGBA(x1, y1, col)
		}
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
