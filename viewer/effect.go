package viewer

import "fmt"

// EdgeMode selects one of the edge-detection kernels embedded in the
// fragment shader. The value is uploaded as the "sob" uniform.
type EdgeMode int32

const (
	EdgeNone EdgeMode = iota
	EdgeKernel1
	EdgeKernel2
	EdgeKernel3
)

// BlurMode selects a blur kernel by its size. The value is uploaded as the
// "gauss" uniform.
type BlurMode int32

const (
	BlurNone  BlurMode = 0
	BlurSize3 BlurMode = 3
	BlurSize5 BlurMode = 5
	BlurSize7 BlurMode = 7
)

// Luminance holds the RGB weights used to collapse a sample to a brightness.
type Luminance [3]float32

var (
	// NeutralLuminance disables the grayscale collapse.
	NeutralLuminance = Luminance{1, 1, 1}
	// LuminanceAverage weights the channels equally.
	LuminanceAverage = Luminance{0.333, 0.333, 0.333}
	// LuminanceBT601 is the ITU-R BT.601 luma weighting.
	LuminanceBT601 = Luminance{0.299, 0.587, 0.114}
	// LuminanceLinear is the linear-light (BT.709) luma weighting.
	LuminanceLinear = Luminance{0.213, 0.715, 0.072}
)

// Mode names the single effect family active in an EffectState.
type Mode int

const (
	ModeNone Mode = iota
	ModeGrayscale
	ModeSepia
	ModeEdge
	ModeBlur
)

func (m Mode) String() string {
	switch m {
	case ModeGrayscale:
		return "grayscale"
	case ModeSepia:
		return "sepia"
	case ModeEdge:
		return "edge"
	case ModeBlur:
		return "blur"
	default:
		return "none"
	}
}

// EffectState is the post-processing selection. At most one of grayscale,
// sepia, edge and blur is active; every setter below neutralises the others.
type EffectState struct {
	Edge      EdgeMode
	Blur      BlurMode
	Sepia     bool
	Luminance Luminance
}

// DefaultEffectState returns the startup selection with every effect off.
func DefaultEffectState() EffectState {
	return EffectState{Luminance: NeutralLuminance}
}

// Reset restores the startup selection.
func (e *EffectState) Reset() {
	*e = DefaultEffectState()
}

// SetGrayscale activates a luminance collapse with weights l.
func (e *EffectState) SetGrayscale(l Luminance) {
	e.Reset()
	e.Luminance = l
}

// EnableSepia activates the sepia tone. Sepia works on the uncollapsed
// colour, so the luminance weights go back to neutral.
func (e *EffectState) EnableSepia() {
	e.Reset()
	e.Sepia = true
}

// SetEdge activates edge kernel m.
func (e *EffectState) SetEdge(m EdgeMode) {
	e.Reset()
	e.Edge = m
}

// SetBlur activates blur kernel m.
func (e *EffectState) SetBlur(m BlurMode) {
	e.Reset()
	e.Blur = m
}

// Mode reports which effect family is active.
func (e EffectState) Mode() Mode {
	switch {
	case e.Edge != EdgeNone:
		return ModeEdge
	case e.Blur != BlurNone:
		return ModeBlur
	case e.Sepia:
		return ModeSepia
	case e.Luminance != NeutralLuminance:
		return ModeGrayscale
	default:
		return ModeNone
	}
}

func (e EffectState) String() string {
	switch e.Mode() {
	case ModeGrayscale:
		return fmt.Sprintf("grayscale(%.3f, %.3f, %.3f)", e.Luminance[0], e.Luminance[1], e.Luminance[2])
	case ModeEdge:
		return fmt.Sprintf("edge(%d)", e.Edge)
	case ModeBlur:
		return fmt.Sprintf("blur(%d)", e.Blur)
	default:
		return e.Mode().String()
	}
}
