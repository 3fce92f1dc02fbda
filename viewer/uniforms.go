package viewer

// Uniforms is the complete set of values uploaded to the shading stage
// before each draw. Field comments give the GLSL uniform name.
type Uniforms struct {
	TextureUnit int32      // tex
	Zoom        float32    // zoom
	Shift       [2]float32 // shift
	Theta       float32    // theta
	Luminance   [3]float32 // luminance
	Sepia       int32      // sepia
	Sobel       int32      // sob
	Gauss       int32      // gauss
}

// ComputeUniforms derives the uniform set from the current state. The image
// texture is always bound to unit 0.
func ComputeUniforms(v ViewState, e EffectState) Uniforms {
	u := Uniforms{
		TextureUnit: 0,
		Zoom:        v.Zoom,
		Shift:       v.Pan,
		Theta:       v.Rotation,
		Luminance:   e.Luminance,
		Sobel:       int32(e.Edge),
		Gauss:       int32(e.Blur),
	}
	if e.Sepia {
		u.Sepia = 1
	}
	return u
}
