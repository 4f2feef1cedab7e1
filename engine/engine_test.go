package engine

import (
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/machine"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callLog records the order of frame steps across the fakes.
type callLog struct {
	calls []string
}

func (l *callLog) add(call string) {
	l.calls = append(l.calls, call)
}

// fakeRenderer is a renderer without a GPU.
type fakeRenderer struct {
	log      *callLog
	writes   map[*wgpu.Buffer][]byte
	notReady bool
	beginErr error
}

func newFakeRenderer(log *callLog) *fakeRenderer {
	return &fakeRenderer{log: log, writes: map[*wgpu.Buffer][]byte{}}
}

func (r *fakeRenderer) CreateBuffer(*wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	return &wgpu.Buffer{}, nil
}
func (r *fakeRenderer) WriteBuffer(buf *wgpu.Buffer, _ uint64, data []byte) {
	r.log.add("flush")
	r.writes[buf] = append([]byte(nil), data...)
}
func (r *fakeRenderer) CreateBindGroupLayout(*wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	return &wgpu.BindGroupLayout{}, nil
}
func (r *fakeRenderer) CreateBindGroup(*wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	return &wgpu.BindGroup{}, nil
}
func (r *fakeRenderer) CreateShaderModule(*wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	return &wgpu.ShaderModule{}, nil
}
func (r *fakeRenderer) CreatePipelineLayout(*wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	return &wgpu.PipelineLayout{}, nil
}
func (r *fakeRenderer) CreateRenderPipeline(*wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	return &wgpu.RenderPipeline{}, nil
}
func (r *fakeRenderer) Resize(int, int) {}
func (r *fakeRenderer) Size() (int, int) { return 500, 700 }
func (r *fakeRenderer) SurfaceFormat() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8Unorm }
func (r *fakeRenderer) PresentMode() renderer.PresentMode { return renderer.PresentModeVSync }
func (r *fakeRenderer) SetPresentMode(renderer.PresentMode) {}
func (r *fakeRenderer) Release() {}
func (r *fakeRenderer) BeginFrame() (renderer.Frame, error) {
	if r.notReady {
		return renderer.Frame{}, common.ErrNotReady
	}
	if err := r.beginErr; err != nil {
		r.beginErr = nil
		return renderer.Frame{}, err
	}
	r.log.add("begin")
	return renderer.Frame{}, nil
}
func (r *fakeRenderer) EndFrame() error {
	r.log.add("submit")
	return nil
}
func (r *fakeRenderer) Present() {
	r.log.add("present")
}

// fakeMachine records its calls and registers one logging signal with the input system.
type fakeMachine struct {
	log     *callLog
	created bool
	value   bool
	passErr error
}

func (m *fakeMachine) Type() machine.MachineType { return machine.MachineTypeQuad }
func (m *fakeMachine) Label() string { return "fake" }
func (m *fakeMachine) VertexBuffer() buffer.VertexBuffer { return nil }
func (m *fakeMachine) IndexBuffer() buffer.IndexBuffer { return nil }
func (m *fakeMachine) Pipeline() pipeline.RenderPipeline { return nil }
func (m *fakeMachine) CreateResources(_ machine.Device, _ shader.Library, _ wgpu.TextureFormat, bg bind_group.BindGroup) error {
	if _, err := bg.Layout(); err != nil {
		return err
	}
	m.created = true
	return nil
}
func (m *fakeMachine) ConfigureInput(in input.InputSystem) error {
	return in.RegisterDigital(&loggingDigital{log: m.log, value: &m.value})
}
func (m *fakeMachine) Update(float32) {
	m.log.add("update")
}
func (m *fakeMachine) ConfigurePasses(*wgpu.CommandEncoder, *wgpu.TextureView, bind_group.BindGroup) error {
	m.log.add("pass")
	return m.passErr
}

// loggingDigital reads a shared flag and logs every Update.
type loggingDigital struct {
	log   *callLog
	value *bool
}

func (d *loggingDigital) Value() bool { return *d.value }
func (d *loggingDigital) Update(float32) { d.log.add("input") }

func newTestEngine(t *testing.T) (*engine, *fakeRenderer, *fakeMachine, *callLog) {
	t.Helper()
	log := &callLog{}
	r := newFakeRenderer(log)
	m := &fakeMachine{log: log}
	e, err := NewEngine(m, WithRenderer(r), WithInputSystem(input.NewInputSystem()), WithLibrary(shader.NewLibrary()))
	require.NoError(t, err)
	return e.(*engine), r, m, log
}

func TestNewEngine_Validation(t *testing.T) {
	_, err := NewEngine(nil, WithRenderer(newFakeRenderer(&callLog{})))
	assert.ErrorIs(t, err, common.ErrConfiguration)

	_, err = NewEngine(&fakeMachine{})
	assert.ErrorIs(t, err, common.ErrConfiguration)
}

func TestEngine_UniformLayout(t *testing.T) {
	e, _, _, _ := newTestEngine(t)

	assert.Equal(t, 4, e.FrameUniforms().Size())
	assert.Equal(t, uint32(FrameBinding), e.FrameUniforms().Binding())

	assert.Equal(t, uint32(InputBinding), e.InputUniforms().Binding())
	assert.Equal(t, 96, e.InputUniforms().Size())
	offset, err := e.InputUniforms().Offset("analog")
	require.NoError(t, err)
	assert.Equal(t, 32, offset)

	assert.Equal(t, BindGroupLabel, e.BindGroup().Label())
	assert.Len(t, e.BindGroup().Entries(), 2)
}

func TestEngine_StateMachine(t *testing.T) {
	e, _, m, _ := newTestEngine(t)
	assert.Equal(t, StateUninitialized, e.State())

	assert.ErrorIs(t, e.Frame(0), common.ErrNotReady)

	require.NoError(t, e.CreateResources())
	assert.True(t, m.created)
	assert.Equal(t, StateResourcesCreated, e.State())

	assert.ErrorIs(t, e.CreateResources(), common.ErrLifecycle)

	require.NoError(t, e.Frame(0.016))
	assert.Equal(t, StateRendering, e.State())
}

func TestEngine_FrameOrder(t *testing.T) {
	e, _, _, log := newTestEngine(t)
	require.NoError(t, e.CreateResources())
	log.calls = nil

	// only the time changed since creation
	require.NoError(t, e.Frame(0.5))
	assert.Equal(t, []string{"input", "update", "flush", "begin", "pass", "submit", "present"}, log.calls)
}

func TestEngine_FlushesOnlyChangedUniforms(t *testing.T) {
	e, r, m, log := newTestEngine(t)
	require.NoError(t, e.CreateResources())

	require.NoError(t, e.Frame(1))
	log.calls = nil

	// same time, same input: nothing is dirty
	require.NoError(t, e.Frame(1))
	assert.NotContains(t, log.calls, "flush")

	// input changes: only u_input is written
	m.value = true
	log.calls = nil
	require.NoError(t, e.Frame(1))
	flushes := 0
	for _, c := range log.calls {
		if c == "flush" {
			flushes++
		}
	}
	assert.Equal(t, 1, flushes)

	var inputBytes []byte
	for _, data := range r.writes {
		if len(data) == e.InputUniforms().Size() {
			inputBytes = data
		}
	}
	require.NotNil(t, inputBytes)
	assert.Equal(t, uint32(1), binary.LittleEndian.Uint32(inputBytes[0:4]))
}

func TestEngine_TimeUniform(t *testing.T) {
	e, r, _, _ := newTestEngine(t)
	require.NoError(t, e.CreateResources())
	require.NoError(t, e.Frame(2.5))

	var frameBytes []byte
	for _, data := range r.writes {
		if len(data) == 4 {
			frameBytes = data
		}
	}
	require.NotNil(t, frameBytes)
	assert.Equal(t, float32(2.5), math.Float32frombits(binary.LittleEndian.Uint32(frameBytes)))
}

func TestEngine_SkipsFrameWhileSurfaceNotReady(t *testing.T) {
	e, r, _, log := newTestEngine(t)
	require.NoError(t, e.CreateResources())
	r.notReady = true
	log.calls = nil

	require.NoError(t, e.Frame(1))
	assert.NotContains(t, log.calls, "pass")
	assert.NotContains(t, log.calls, "present")
	assert.Equal(t, StateResourcesCreated, e.State())
}

func TestEngine_SkipsFrameWhenBeginFails(t *testing.T) {
	e, r, _, log := newTestEngine(t)
	require.NoError(t, e.CreateResources())
	r.beginErr = errors.New("surface outdated")
	log.calls = nil

	require.NoError(t, e.Frame(1))
	assert.NotContains(t, log.calls, "pass")
	assert.NotContains(t, log.calls, "present")
	assert.Equal(t, StateResourcesCreated, e.State())

	log.calls = nil
	require.NoError(t, e.Frame(2))
	assert.Contains(t, log.calls, "pass")
	assert.Contains(t, log.calls, "present")
	assert.Equal(t, StateRendering, e.State())
}

func TestEngine_PresentsAfterPassError(t *testing.T) {
	e, _, m, log := newTestEngine(t)
	require.NoError(t, e.CreateResources())
	passErr := errors.New("pass failed")
	m.passErr = passErr
	log.calls = nil

	assert.ErrorIs(t, e.Frame(1), passErr)
	assert.Equal(t, []string{"begin", "pass", "submit", "present"}, log.calls[len(log.calls)-4:])

	m.passErr = nil
	require.NoError(t, e.Frame(2))
	assert.Equal(t, StateRendering, e.State())
}

func TestEngine_RunWithoutWindow(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	assert.ErrorIs(t, e.Run(), common.ErrEnvironment)
}

func TestEngine_SetRenderFrameLimit(t *testing.T) {
	e, _, _, _ := newTestEngine(t)
	e.SetRenderFrameLimit(50)
	assert.Equal(t, int64(20_000_000), int64(e.renderFrameLimit))
	e.SetRenderFrameLimit(0)
	assert.Zero(t, e.renderFrameLimit)
}

func TestEngine_TickUsesElapsedTime(t *testing.T) {
	log := &callLog{}
	r := newFakeRenderer(log)
	start := time.Unix(100, 0)
	now := start
	e, err := NewEngine(&fakeMachine{log: log},
		WithRenderer(r),
		WithInputSystem(input.NewInputSystem()),
		withClock(func() time.Time { return now }),
	)
	require.NoError(t, err)
	eng := e.(*engine)
	require.NoError(t, eng.CreateResources())
	eng.start = start

	now = start.Add(1500 * time.Millisecond)
	eng.tick()
	require.NoError(t, eng.err)
	assert.Equal(t, StateRendering, eng.State())
	assert.Equal(t, []float32{1.5}, eng.time.Float32())
}
