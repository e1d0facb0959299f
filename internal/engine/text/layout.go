package text

// Vertex is one corner of a glyph quad: position then texture coordinates.
type Vertex [4]float32

// Quad is two triangles covering one glyph.
type Quad [6]Vertex

// Layout positions the glyphs of s starting at (x, y) on the baseline.
// Metrics are scaled by scale, so with NDC coordinates a scale of 1/1000
// draws a 48 px face about 0.05 units tall. Glyphs with no pixels only
// advance the pen, and runes missing from glyphs are skipped.
func Layout(glyphs map[rune]Glyph, s string, x, y, scale float32) (quads []Quad, runes []rune) {
	for _, r := range s {
		g, ok := glyphs[r]
		if !ok {
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			xpos := x + float32(g.BearingX)*scale
			ypos := y - float32(g.Height-g.BearingY)*scale
			w := float32(g.Width) * scale
			h := float32(g.Height) * scale
			quads = append(quads, Quad{
				{xpos, ypos + h, 0, 0},
				{xpos, ypos, 0, 1},
				{xpos + w, ypos, 1, 1},
				{xpos, ypos + h, 0, 0},
				{xpos + w, ypos, 1, 1},
				{xpos + w, ypos + h, 1, 0},
			})
			runes = append(runes, r)
		}
		x += float32(g.Advance) * scale
	}
	return quads, runes
}

// Width returns the advance of s in scaled units.
func Width(glyphs map[rune]Glyph, s string, scale float32) float32 {
	var w float32
	for _, r := range s {
		w += float32(glyphs[r].Advance) * scale
	}
	return w
}
