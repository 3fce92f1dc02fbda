package viewer

// QuadVertexCount is the number of vertices in the full-screen quad.
const QuadVertexCount = 6

// QuadVertices covers normalized device coordinates with two triangles. No
// aspect correction is applied, the image is stretched to the viewport.
var QuadVertices = [QuadVertexCount][2]float32{
	{-1, -1}, {1, -1}, {1, 1},
	{-1, -1}, {1, 1}, {-1, 1},
}

// QuadTexCoords returns the texture coordinates matching QuadVertices for an
// image of the given pixel size. Coordinates are in pixels, as rectangle
// textures are addressed.
func QuadTexCoords(width, height int) [QuadVertexCount][2]float32 {
	w, h := float32(width), float32(height)
	return [QuadVertexCount][2]float32{
		{0, 0}, {w, 0}, {w, h},
		{0, 0}, {w, h}, {0, h},
	}
}
