package viewer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richinsley/goimageviewer/input"
)

type fakeTexture struct {
	path          string
	width, height int
	released      bool
}

func (t *fakeTexture) Size() (int, int) { return t.width, t.height }
func (t *fakeTexture) Bind(uint32)       {}
func (t *fakeTexture) Unbind(uint32)     {}
func (t *fakeTexture) Release()          { t.released = true }

type fakeLoader struct {
	sizes map[string][2]int
	fail  map[string]error
	calls []string
	made  []*fakeTexture
}

func (l *fakeLoader) Load(path string) (Texture, error) {
	l.calls = append(l.calls, path)
	if err, ok := l.fail[path]; ok {
		return nil, err
	}
	size, ok := l.sizes[path]
	if !ok {
		size = [2]int{512, 512}
	}
	tex := &fakeTexture{path: path, width: size[0], height: size[1]}
	l.made = append(l.made, tex)
	return tex, nil
}

type drawCall struct {
	tex      Texture
	uniforms Uniforms
}

type fakeSurface struct {
	coords  [][QuadVertexCount][2]float32
	draws   []drawCall
	drawErr error

	files   []string
	reloads int
}

func (s *fakeSurface) SetTexCoords(c [QuadVertexCount][2]float32) error {
	s.coords = append(s.coords, c)
	return nil
}

func (s *fakeSurface) Draw(tex Texture, u Uniforms) error {
	s.draws = append(s.draws, drawCall{tex: tex, uniforms: u})
	return s.drawErr
}

type reloadingSurface struct {
	fakeSurface
	reloadErr error
}

func (s *reloadingSurface) ShaderFiles() []string { return s.files }
func (s *reloadingSurface) Reload() error {
	s.reloads++
	return s.reloadErr
}

// fakeWindow delivers one batch of events per frame. Running out of batches
// closes the window.
type fakeWindow struct {
	frames      [][]input.Event
	next        int
	closed      bool
	closedByApp bool
	endFrames   int
}

func (w *fakeWindow) Events() []input.Event {
	if w.next >= len(w.frames) {
		return nil
	}
	return w.frames[w.next]
}

func (w *fakeWindow) ShouldClose() bool { return w.closed }

func (w *fakeWindow) SetShouldClose(v bool) {
	w.closed = v
	w.closedByApp = v
}

func (w *fakeWindow) EndFrame() {
	w.endFrames++
	w.next++
	if w.next >= len(w.frames) {
		w.closed = true
	}
}

type changeList struct{ batches [][]string }

func (c *changeList) Changed() []string {
	if len(c.batches) == 0 {
		return nil
	}
	out := c.batches[0]
	c.batches = c.batches[1:]
	return out
}

type sampleSink struct{ samples []FrameSample }

func (s *sampleSink) Record(f FrameSample) { s.samples = append(s.samples, f) }

func keys(ks ...input.Key) []input.Event {
	out := make([]input.Event, len(ks))
	for i, k := range ks {
		out[i] = input.KeyPress(k)
	}
	return out
}

func newController(t *testing.T, w Window, l ImageLoader, s Surface, opts ...Option) *Controller {
	t.Helper()
	d, err := NewDispatcher(testPresets)
	require.NoError(t, err)
	return New(w, l, s, d, opts...)
}

func TestScenarioSelectZoomSepiaEscape(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{
		nil,
		keys(input.Key3),
		keys(input.KeyUp, input.KeyUp),
		keys(input.KeyF),
		keys(input.KeyEscape),
		keys(input.KeyA), // never delivered
	}}
	loader := &fakeLoader{}
	surface := &fakeSurface{}
	c := newController(t, w, loader, surface)

	c.Tick()
	w.EndFrame()
	assert.Equal(t, testPresets[0], c.View().ImagePath)

	c.Tick()
	w.EndFrame()
	assert.Equal(t, testPresets[2], c.View().ImagePath)
	assert.Equal(t, float32(1), c.View().Zoom)

	c.Tick()
	w.EndFrame()
	assert.InDelta(t, 1.44, c.View().Zoom, 1e-5)

	c.Tick()
	w.EndFrame()
	e := c.Effect()
	assert.True(t, e.Sepia)
	assert.Equal(t, EdgeNone, e.Edge)
	assert.Equal(t, BlurNone, e.Blur)
	assert.Equal(t, NeutralLuminance, e.Luminance)

	require.False(t, w.ShouldClose())
	c.Run()
	assert.True(t, w.closedByApp, "Escape must close the window")
	assert.Equal(t, 5, w.endFrames)
	assert.Equal(t, int64(5), c.Frame())
	assert.NotEqual(t, LuminanceAverage, c.Effect().Luminance, "events after Escape are not applied")
}

func TestRunStopsOnExternalClose(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil, nil, nil}}
	surface := &fakeSurface{}
	c := newController(t, w, &fakeLoader{}, surface)
	c.Run()
	assert.False(t, w.closedByApp)
	assert.Len(t, surface.draws, 3)
}

func TestSamePathDoesNotReload(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{
		keys(input.Key2),
		keys(input.Key2),
		keys(input.KeyUp, input.Key2),
		nil,
	}}
	loader := &fakeLoader{}
	c := newController(t, w, loader, &fakeSurface{})
	c.Run()

	assert.Equal(t, []string{testPresets[1]}, loader.calls)
	assert.Equal(t, float32(1), c.View().Zoom)
}

func TestReloadOnlyOnChange(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{
		nil,
		keys(input.Key5),
		nil,
		keys(input.Key1),
		nil,
	}}
	loader := &fakeLoader{}
	c := newController(t, w, loader, &fakeSurface{})
	c.Run()

	assert.Equal(t, []string{testPresets[0], testPresets[4], testPresets[0]}, loader.calls)
	require.Len(t, loader.made, 3)
	assert.True(t, loader.made[0].released)
	assert.True(t, loader.made[1].released)
	assert.False(t, loader.made[2].released)
	assert.Same(t, loader.made[2], c.Texture())

	c.Close()
	assert.True(t, loader.made[2].released)
	assert.Nil(t, c.Texture())
}

func TestQuadFollowsImageSize(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil, keys(input.Key2), nil}}
	loader := &fakeLoader{sizes: map[string][2]int{
		testPresets[0]: {512, 512},
		testPresets[1]: {800, 300},
	}}
	surface := &fakeSurface{}
	c := newController(t, w, loader, surface)
	c.Run()

	require.Len(t, surface.coords, 2)
	assert.Equal(t, QuadTexCoords(512, 512), surface.coords[0])
	assert.Equal(t, QuadTexCoords(800, 300), surface.coords[1])
}

func TestFailedLoadKeepsPreviousImage(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{
		nil,
		keys(input.Key4),
		nil,
		nil,
		keys(input.Key1),
		keys(input.Key4),
	}}
	loader := &fakeLoader{fail: map[string]error{testPresets[3]: errors.New("no such file")}}
	surface := &fakeSurface{}
	c := newController(t, w, loader, surface)

	c.Tick()
	w.EndFrame()
	first := c.Texture()
	require.NotNil(t, first)

	c.Tick()
	w.EndFrame()
	c.Tick()
	w.EndFrame()
	c.Tick()
	w.EndFrame()

	assert.Same(t, first, c.Texture(), "previous image stays on screen")
	assert.False(t, first.(*fakeTexture).released)
	assert.Equal(t, []string{testPresets[0], testPresets[3]}, loader.calls, "failed path is not retried every frame")
	assert.Equal(t, testPresets[3], c.View().ImagePath)
	for _, d := range surface.draws {
		assert.Same(t, first, d.tex)
	}

	// Going back to the loaded image and then to the broken one retries it.
	c.Run()
	assert.Equal(t, []string{testPresets[0], testPresets[3], testPresets[3]}, loader.calls)
}

func TestRejectedUploadKeepsPreviousImage(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{
		nil,
		keys(input.Key2),
		nil,
		nil,
	}}
	uploadErr := errors.New("9000x9000 texture: OpenGL error during texture upload: GL_INVALID_VALUE")
	loader := &fakeLoader{fail: map[string]error{testPresets[1]: uploadErr}}
	surface := &fakeSurface{}
	changes := &changeList{batches: [][]string{nil, nil, {testPresets[1]}}}
	c := newController(t, w, loader, surface, WithChangeSource(changes))

	c.Tick()
	w.EndFrame()
	first := c.Texture()
	require.NotNil(t, first)

	c.Tick()
	w.EndFrame()
	assert.Same(t, first, c.Texture())
	assert.False(t, first.(*fakeTexture).released, "previous texture survives a rejected upload")
	assert.Len(t, surface.coords, 1, "quad keeps the previous image size")
	assert.Same(t, first, surface.draws[1].tex)

	// The file is replaced with one that fits.
	delete(loader.fail, testPresets[1])
	c.Tick()
	w.EndFrame()
	require.Len(t, loader.made, 2)
	assert.Same(t, loader.made[1], c.Texture())
	assert.True(t, first.(*fakeTexture).released)
	assert.Equal(t, []string{testPresets[0], testPresets[1], testPresets[1]}, loader.calls)
}

func TestFailedFirstLoadDrawsWithoutTexture(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil}}
	loader := &fakeLoader{fail: map[string]error{testPresets[0]: errors.New("bad data")}}
	surface := &fakeSurface{}
	c := newController(t, w, loader, surface)
	c.Run()

	require.Len(t, surface.draws, 1)
	assert.Nil(t, surface.draws[0].tex)
	assert.Empty(t, surface.coords)
}

func TestRenderErrorDoesNotStopLoop(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil, nil, nil}}
	surface := &fakeSurface{drawErr: errors.New("GL_INVALID_OPERATION")}
	sink := &sampleSink{}
	c := newController(t, w, &fakeLoader{}, surface, WithRecorder(sink))
	c.Run()

	assert.Len(t, surface.draws, 3)
	require.Len(t, sink.samples, 3)
	for _, s := range sink.samples {
		assert.True(t, s.RenderFailed)
	}
}

func TestUniformsReachSurface(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{
		keys(input.KeyUp, input.KeyR, input.KeyJ),
	}}
	surface := &fakeSurface{}
	c := newController(t, w, &fakeLoader{}, surface)
	c.Run()

	require.Len(t, surface.draws, 1)
	u := surface.draws[0].uniforms
	assert.Equal(t, ComputeUniforms(c.View(), c.Effect()), u)
	assert.Equal(t, int32(2), u.Sobel)
	assert.InDelta(t, 1.2, u.Zoom, 1e-6)
	assert.Equal(t, RotationStep, u.Theta)
}

func TestTickPhases(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil}}
	c := newController(t, w, &fakeLoader{}, &fakeSurface{})
	var seen []Phase
	c.onPhase = func(p Phase) { seen = append(seen, p) }

	c.Tick()
	assert.Equal(t, []Phase{PhaseInputApplied, PhaseImageSynced, PhaseRendered, PhaseIdle}, seen)
	assert.Equal(t, PhaseIdle, c.Phase())
}

func TestChangedImageIsReloaded(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil, nil, nil}}
	loader := &fakeLoader{}
	changes := &changeList{batches: [][]string{nil, {testPresets[0], "unrelated.txt"}, nil}}
	c := newController(t, w, loader, &fakeSurface{}, WithChangeSource(changes))
	c.Run()

	assert.Equal(t, []string{testPresets[0], testPresets[0]}, loader.calls)
	require.Len(t, loader.made, 2)
	assert.True(t, loader.made[0].released)
}

func TestChangedFailedImageIsRetried(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil, nil, nil}}
	loader := &fakeLoader{fail: map[string]error{testPresets[0]: errors.New("truncated")}}
	changes := &changeList{batches: [][]string{nil, {testPresets[0]}}}
	c := newController(t, w, loader, &fakeSurface{}, WithChangeSource(changes))

	c.Tick()
	w.EndFrame()
	delete(loader.fail, testPresets[0])
	c.Run()

	assert.Equal(t, []string{testPresets[0], testPresets[0]}, loader.calls)
	assert.NotNil(t, c.Texture())
}

func TestChangedShaderRebuildsProgram(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil, nil}}
	surface := &reloadingSurface{}
	surface.files = []string{"shaders/vertex.glsl", "shaders/fragment.glsl"}
	changes := &changeList{batches: [][]string{{"shaders/vertex.glsl", "shaders/fragment.glsl"}, nil}}
	c := newController(t, w, &fakeLoader{}, surface, WithChangeSource(changes))
	c.Run()

	assert.Equal(t, 1, surface.reloads, "one rebuild per batch")
	assert.Len(t, surface.draws, 2)
}

func TestFailedShaderReloadKeepsRunning(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{nil, nil}}
	surface := &reloadingSurface{reloadErr: errors.New("compile error")}
	surface.files = []string{"f.glsl"}
	changes := &changeList{batches: [][]string{{"f.glsl"}}}
	c := newController(t, w, &fakeLoader{}, surface, WithChangeSource(changes))
	c.Run()

	assert.Equal(t, 1, surface.reloads)
	assert.Len(t, surface.draws, 2)
}

func TestRecorderSamples(t *testing.T) {
	w := &fakeWindow{frames: [][]input.Event{
		nil,
		keys(input.KeyUp, input.KeyL),
	}}
	sink := &sampleSink{}
	c := newController(t, w, &fakeLoader{}, &fakeSurface{}, WithRecorder(sink))
	c.Run()

	require.Len(t, sink.samples, 2)
	first, second := sink.samples[0], sink.samples[1]
	assert.Equal(t, int64(0), first.Frame)
	assert.True(t, first.Reloaded)
	assert.Zero(t, first.Events)
	assert.Equal(t, "none", first.Effect)

	assert.Equal(t, int64(1), second.Frame)
	assert.False(t, second.Reloaded)
	assert.Equal(t, 2, second.Events)
	assert.Equal(t, "blur(3)", second.Effect)
	assert.InDelta(t, 1.2, second.Zoom, 1e-6)
}
