// Package pipeline renders a scene into a canvas: it transforms models into
// camera space, culls and shades polygons, projects and clips them, maps
// them to pixels and hands them to one of the rasterisers.
package pipeline

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"scanline-renderer/internal/bvh"
	"scanline-renderer/internal/clip"
	"scanline-renderer/internal/geom"
	"scanline-renderer/internal/mathutil"
	"scanline-renderer/internal/raster"
	"scanline-renderer/internal/scene"
	"scanline-renderer/internal/shade"
)

// NormalLength is the camera-space length of drawn face normals.
const NormalLength = 0.1

var (
	normalColor = geom.Color{0, 1, 0}
	boxColor    = color.NRGBA{R: 255, A: 255}
)

// Setting selects the algorithm and what is drawn.
type Setting struct {
	Algorithm   Algorithm
	Cull        bool // drop faces pointing away from the camera
	Clip        bool // drop polygons outside the view volume
	Wireframe   bool // outline polygons instead of filling them
	ShowNormals bool
	ShowBoxes   bool // outline the bounding-volume group of every polygon
	ShowDepth   bool // replace the image with the depth buffer; Interval writes none
}

// Stats describes one rendered frame.
type Stats struct {
	raster.Stats
	Polygons int `json:"polygons"` // faces read from the models
	Culled   int `json:"culled"`   // back faces
	Clipped  int `json:"clipped"`  // outside the view volume or crossing the near plane
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Stats.Add(o.Stats)
	s.Polygons += o.Polygons
	s.Culled += o.Culled
	s.Clipped += o.Clipped
}

// Context renders frames into one canvas. It keeps every buffer a frame
// needs so that rendering does not allocate once warmed up. A Context is
// not safe for concurrent use; render in parallel with one Context each.
type Context struct {
	Canvas *raster.Canvas

	backdrop *image.NRGBA
	scratch  raster.Scratch
	tree     bvh.Tree

	parallel    []shade.ParallelLight
	point       []shade.PointLight
	vertices    []geom.Vertex
	indices     []uint32
	polygons    []geom.Polygon
	normalVerts []geom.Vertex
	normals     []geom.Polygon
	visited     []bool
	drawn       []bool
}

// NewContext returns a Context drawing into c.
func NewContext(c *raster.Canvas) *Context {
	return &Context{Canvas: c}
}

// SetBackdrop sets an image that BeginFrame copies into the canvas instead
// of clearing it. It must be at least as large as the canvas. nil removes
// it.
func (ctx *Context) SetBackdrop(img *image.NRGBA) {
	ctx.backdrop = img
}

// BeginFrame resets the canvas: pixels to the backdrop or bg, depths to the
// background value.
func (ctx *Context) BeginFrame(bg color.NRGBA) {
	c := ctx.Canvas
	if ctx.backdrop == nil {
		c.Clear(bg)
		return
	}
	dst := image.Rect(c.OffsetX, c.OffsetY, c.OffsetX+c.Width, c.OffsetY+c.Height)
	draw.Draw(c.Frame.Image(), dst, ctx.backdrop, ctx.backdrop.Bounds().Min, draw.Src)
	c.ClearDepth()
}

// Render draws every model of sc as seen by cam.
func (ctx *Context) Render(set Setting, cfg shade.Config, cam *scene.Camera, sc *scene.Scene) Stats {
	var st Stats
	c := ctx.Canvas
	view := cam.View()

	ctx.parallel = ctx.parallel[:0]
	for _, l := range sc.ParallelLights {
		ctx.parallel = append(ctx.parallel, shade.ParallelLight{Direction: view.MulDir(l.Direction), Color: l.Color})
	}
	ctx.point = ctx.point[:0]
	for _, l := range sc.PointLights {
		ctx.point = append(ctx.point, shade.PointLight{Position: view.MulPoint(l.Position), Color: l.Color})
	}

	ctx.vertices = ctx.vertices[:0]
	ctx.indices = ctx.indices[:0]
	ctx.polygons = ctx.polygons[:0]
	ctx.normalVerts = ctx.normalVerts[:0]
	ctx.normals = ctx.normals[:0]
	for _, m := range sc.Models {
		ctx.assemble(&st, set, cfg, cam, m)
	}

	proj := cam.Projection()
	ctx.mapVertices(ctx.vertices, ctx.polygons, proj)
	ctx.mapVertices(ctx.normalVerts, ctx.normals, proj)

	if set.Clip {
		n := len(ctx.polygons)
		ctx.polygons = clip.Partition(ctx.vertices, ctx.polygons, clip.Canonical())
		st.Clipped += n - len(ctx.polygons)
		ctx.normals = clip.Partition(ctx.normalVerts, ctx.normals, clip.Canonical())
	}

	vp := mathutil.Viewport(c.Width, c.Height)
	ctx.mapVertices(ctx.vertices, ctx.polygons, vp)
	ctx.mapVertices(ctx.normalVerts, ctx.normals, vp)

	built := false
	switch {
	case set.Wireframe:
		raster.Wireframe(c, ctx.vertices, ctx.polygons)
	case set.Algorithm == ScanLineZ:
		st.Stats.Add(raster.ScanConvertZBuffer(c, &ctx.scratch, ctx.vertices, ctx.polygons))
	case set.Algorithm == ScanLineHZ:
		st.Stats.Add(raster.ScanConvertHZBuffer(c, &ctx.scratch, ctx.vertices, ctx.polygons))
	case set.Algorithm == ScanLineHierarchy:
		bvh.BuildInto(&ctx.tree, ctx.vertices, ctx.polygons)
		built = true
		st.Stats.Add(raster.ScanConvertHierarchy(c, &ctx.scratch, ctx.vertices, ctx.polygons, &ctx.tree))
	case set.Algorithm == Interval:
		st.Stats.Add(raster.IntervalScanLine(c, &ctx.scratch, ctx.vertices, ctx.polygons))
	}

	if set.ShowDepth {
		raster.ShowDepth(c)
	} else {
		if set.ShowBoxes {
			if !built {
				bvh.BuildInto(&ctx.tree, ctx.vertices, ctx.polygons)
			}
			ctx.drawBoxes()
		}
		if set.ShowNormals {
			raster.Wireframe(c, ctx.normalVerts, ctx.normals)
		}
	}

	Logger().Debug("frame rendered",
		"algorithm", set.Algorithm,
		"polygons", st.Polygons,
		"culled", st.Culled,
		"clipped", st.Clipped,
		"rasterized", st.Rasterized,
		"rejected", st.Rejected)
	return st
}

// assemble appends m's camera-space vertices and its shaded polygons.
func (ctx *Context) assemble(st *Stats, set Setting, cfg shade.Config, cam *scene.Camera, m *scene.Model) {
	mv := mathutil.Mat4Mul(cam.View(), m.Transform())
	base := uint32(len(ctx.vertices))
	for _, v := range m.Vertices {
		ctx.vertices = append(ctx.vertices, mv.MulPoint(v))
	}

	for face := range m.Faces() {
		st.Polygons++
		start := len(ctx.indices)
		for _, vi := range face {
			ctx.indices = append(ctx.indices, base+vi)
		}
		p := geom.Polygon{Vertices: ctx.indices[start:len(ctx.indices):len(ctx.indices)]}

		if ctx.crossesNear(p, cam.Near) {
			st.Clipped++
			continue
		}
		center, normal := p.Center(ctx.vertices), p.Normal(ctx.vertices)
		if set.Cull && p.IsArea() && center.Dot(normal) >= 0 {
			st.Culled++
			continue
		}
		p.Color = shade.BlinnPhong(ctx.parallel, ctx.point, center, normal, cfg).Mul(m.Albedo)

		if set.ShowNormals && p.IsArea() {
			k := uint32(len(ctx.normalVerts))
			ctx.normalVerts = append(ctx.normalVerts, center, center.Add(normal.Scale(NormalLength)))
			ctx.normals = append(ctx.normals, geom.Polygon{Vertices: []uint32{k, k + 1}, Color: normalColor})
		}
		ctx.polygons = append(ctx.polygons, p)
	}
}

// crossesNear reports whether any vertex of p lies in front of the near
// plane, where the perspective divide is meaningless.
func (ctx *Context) crossesNear(p geom.Polygon, near float64) bool {
	for _, vi := range p.Vertices {
		if ctx.vertices[vi][2] > -near {
			return true
		}
	}
	return false
}

// mapVertices applies m once to every vertex referenced by polygons.
// Unreferenced vertices are left as they are.
func (ctx *Context) mapVertices(vertices []geom.Vertex, polygons []geom.Polygon, m mathutil.Mat4) {
	if cap(ctx.visited) < len(vertices) {
		ctx.visited = make([]bool, len(vertices))
	}
	visited := ctx.visited[:len(vertices)]
	clear(visited)
	for i := range polygons {
		for _, vi := range polygons[i].Vertices {
			if !visited[vi] {
				visited[vi] = true
				vertices[vi] = m.MulPoint(vertices[vi])
			}
		}
	}
}

// drawBoxes outlines the enclosing box of every drawn polygon's group in
// the bounding-volume tree, once per group.
func (ctx *Context) drawBoxes() {
	t := &ctx.tree
	if cap(ctx.drawn) < len(t.Nodes) {
		ctx.drawn = make([]bool, len(t.Nodes))
	}
	drawn := ctx.drawn[:len(t.Nodes)]
	clear(drawn)
	for pid := range ctx.polygons {
		g := bvh.Parent(t.Leaf(pid))
		if drawn[g] {
			continue
		}
		drawn[g] = true
		if r, ok := ctx.Canvas.Clamp(t.Enclosing(pid)); ok {
			raster.Rect(ctx.Canvas, r, boxColor)
		}
	}
}
