package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-gallery/common"
	"github.com/Carmen-Shannon/oxy-gallery/engine/input"
	"github.com/Carmen-Shannon/oxy-gallery/engine/machine"
	"github.com/Carmen-Shannon/oxy-gallery/engine/profiler"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/bind_group"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/buffer"
	"github.com/Carmen-Shannon/oxy-gallery/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gallery/engine/window"
)

// State is the engine lifecycle state.
type State int

const (
	// StateUninitialized is the state before CreateResources.
	StateUninitialized State = iota

	// StateResourcesCreated is the state after CreateResources and before the first frame.
	StateResourcesCreated

	// StateRendering is the state once a frame has been submitted. It is terminal.
	StateRendering
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateResourcesCreated:
		return "resources created"
	case StateRendering:
		return "rendering"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

const (
	// BindGroupLabel is the label of the per-frame bind group at @group(0).
	BindGroupLabel = "per_frame"

	// FrameBinding and InputBinding are the bindings of u_frame and u_input within the group.
	FrameBinding = 0
	InputBinding = 1
)

// engine implements the Engine interface.
type engine struct {
	state State

	window   window.Window
	renderer renderer.Renderer
	input    input.InputSystem
	library  shader.Library
	machine  machine.Machine

	// u_frame { time: f32 }
	uFrame buffer.UniformStruct
	time   buffer.Uniform

	// u_input { digital: array<vec4u, 2>, analog: array<vec4f, 4> }
	uInput  buffer.UniformStruct
	digital buffer.Uniform
	analog  buffer.Uniform

	bindGroup bind_group.BindGroup

	profiler         *profiler.Profiler
	profilingEnabled bool
	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped

	now   func() time.Time
	start time.Time

	quitChannel chan struct{}
	quitOnce    sync.Once // Ensures quitChannel is only closed once
	err         error
}

// Engine drives one machine: it owns the per-frame uniforms and bind group and runs the frame loop.
//
// Each frame, strictly in this order: the input system is updated, the machine (and so the sketch)
// is updated, dirty uniforms are flushed, a command encoder is recorded with the machine's single
// render pass, then the commands are submitted and the surface is presented.
type Engine interface {
	// State returns the lifecycle state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Window returns the window, or nil for a headless engine.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// Input returns the input system.
	//
	// Returns:
	//   - input.InputSystem: the input system
	Input() input.InputSystem

	// Machine returns the machine being driven.
	//
	// Returns:
	//   - machine.Machine: the machine
	Machine() machine.Machine

	// BindGroup returns the per-frame bind group holding u_frame and u_input.
	//
	// Returns:
	//   - bind_group.BindGroup: the bind group
	BindGroup() bind_group.BindGroup

	// FrameUniforms returns u_frame.
	//
	// Returns:
	//   - buffer.UniformStruct: the frame uniform struct
	FrameUniforms() buffer.UniformStruct

	// InputUniforms returns u_input.
	//
	// Returns:
	//   - buffer.UniformStruct: the input uniform struct
	InputUniforms() buffer.UniformStruct

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetRenderFrameLimit sets an optional render frame rate cap in frames per second.
	// Pass 0 to uncap the render loop (default).
	//
	// Parameters:
	//   - fps: maximum render frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// CreateResources creates the uniform buffers and bind group, then the machine's resources,
	// then lets the sketch configure its input. Called exactly once, before the first frame.
	//
	// Returns:
	//   - error: common.ErrLifecycle if called twice, a *common.CompilationError if the sketch's
	//     shader fails to compile, or any GPU creation error
	CreateResources() error

	// Frame runs one frame at the given time.
	//
	// Parameters:
	//   - time: seconds since the loop started
	//
	// Returns:
	//   - error: common.ErrNotReady before CreateResources, or the first error of the frame
	Frame(time float32) error

	// Run creates resources if needed, then runs frames from the window's message loop until the
	// window closes, Quit is called, or a frame fails. Must be called from the main goroutine.
	//
	// Returns:
	//   - error: the setup error or the error that stopped the loop
	Run() error

	// Quit stops the loop after the current frame. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine for a machine. A renderer is required; the input system and
// shader library default to fresh instances.
//
// Parameters:
//   - m: the machine to drive
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the engine, in StateUninitialized
//   - error: common.ErrConfiguration if there is no machine or renderer
func NewEngine(m machine.Machine, options ...EngineBuilderOption) (Engine, error) {
	e := &engine{
		state:            StateUninitialized,
		machine:          m,
		profiler:         nil,
		profilingEnabled: false,
		now:              time.Now,
		quitChannel:      make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}

	if e.machine == nil {
		return nil, fmt.Errorf("engine needs a machine: %w", common.ErrConfiguration)
	}
	if e.renderer == nil {
		return nil, fmt.Errorf("engine needs a renderer: %w", common.ErrConfiguration)
	}
	if e.input == nil {
		e.input = input.NewInputSystem(input.WithWindow(e.window))
	}
	if e.library == nil {
		e.library = shader.NewLibrary()
	}
	if e.profiler == nil {
		e.profiler = profiler.NewProfiler()
	}

	if err := e.buildUniforms(); err != nil {
		return nil, err
	}

	if e.window != nil {
		e.window.SetResizeCallback(e.renderer.Resize)
	}
	return e, nil
}

// buildUniforms declares u_frame, u_input and the per-frame bind group. Nothing touches the GPU yet.
func (e *engine) buildUniforms() error {
	var err error
	if e.time, err = buffer.NewFloatUniform(buffer.UniformF32, 0); err != nil {
		return err
	}
	if e.uFrame, err = buffer.NewUniformStruct("u_frame", FrameBinding,
		buffer.UniformMember{Name: "time", Uniform: e.time},
	); err != nil {
		return err
	}

	if e.digital, err = buffer.NewUintArray(buffer.UniformVec4U, input.MaxDigitalSignals/4, make([]uint32, input.MaxDigitalSignals)...); err != nil {
		return err
	}
	if e.analog, err = buffer.NewFloatArray(buffer.UniformVec4F, input.MaxAnalogSignals/4, make([]float32, input.MaxAnalogSignals)...); err != nil {
		return err
	}
	if e.uInput, err = buffer.NewUniformStruct("u_input", InputBinding,
		buffer.UniformMember{Name: "digital", Uniform: e.digital},
		buffer.UniformMember{Name: "analog", Uniform: e.analog},
	); err != nil {
		return err
	}

	e.bindGroup, err = bind_group.NewBindGroup(BindGroupLabel, bind_group.WithEntries(e.uFrame, e.uInput))
	return err
}

func (e *engine) State() State {
	return e.state
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Input() input.InputSystem {
	return e.input
}

func (e *engine) Machine() machine.Machine {
	return e.machine
}

func (e *engine) BindGroup() bind_group.BindGroup {
	return e.bindGroup
}

func (e *engine) FrameUniforms() buffer.UniformStruct {
	return e.uFrame
}

func (e *engine) InputUniforms() buffer.UniformStruct {
	return e.uInput
}

// EnableProfiler enables performance profiling output to the log.
func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

// DisableProfiler disables performance profiling output.
func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

// SetRenderFrameLimit sets an optional render frame rate cap.
// Pass 0 to uncap the render loop.
func (e *engine) SetRenderFrameLimit(fps float64) {
	if fps <= 0 {
		e.renderFrameLimit = 0
		return
	}
	e.renderFrameLimit = time.Duration(float64(time.Second) / fps)
}

func (e *engine) CreateResources() error {
	if e.state != StateUninitialized {
		return fmt.Errorf("engine resources already created (state %s): %w", e.state, common.ErrLifecycle)
	}

	if err := e.uFrame.Create(e.renderer); err != nil {
		return err
	}
	if err := e.uInput.Create(e.renderer); err != nil {
		return err
	}
	if err := e.bindGroup.Create(e.renderer); err != nil {
		return err
	}

	if err := e.machine.CreateResources(e.renderer, e.library, e.renderer.SurfaceFormat(), e.bindGroup); err != nil {
		return err
	}
	if err := e.machine.ConfigureInput(e.input); err != nil {
		return err
	}

	e.state = StateResourcesCreated
	log.Printf("[Engine] %s machine %q ready", e.machine.Type(), e.machine.Label())
	return nil
}

func (e *engine) Frame(time float32) error {
	if e.state == StateUninitialized {
		return fmt.Errorf("frame before resources were created: %w", common.ErrNotReady)
	}

	if err := e.input.Update(time); err != nil {
		return err
	}

	e.machine.Update(time)

	if err := e.flushUniforms(time); err != nil {
		return err
	}

	frame, err := e.renderer.BeginFrame()
	if errors.Is(err, common.ErrNotReady) {
		// minimized; nothing to draw into
		return nil
	}
	if err != nil {
		// surface acquisition can fail transiently during resize; try again next tick
		log.Printf("[Engine] skipping frame: %v", err)
		return nil
	}

	passErr := e.machine.ConfigurePasses(frame.Encoder, frame.View, e.bindGroup)
	endErr := e.renderer.EndFrame()
	// the surface texture is released on every path so the next frame can acquire it
	e.renderer.Present()
	if passErr != nil {
		return passErr
	}
	if endErr != nil {
		return endErr
	}

	e.state = StateRendering
	return nil
}

// flushUniforms copies the frame time and the packed input slots into the uniforms, then writes
// each dirty uniform buffer.
func (e *engine) flushUniforms(time float32) error {
	if err := e.time.SetFloat32(time); err != nil {
		return err
	}
	if err := e.digital.SetUint32(e.input.DigitalValues()...); err != nil {
		return err
	}
	if err := e.analog.SetFloat32(e.input.AnalogValues()...); err != nil {
		return err
	}

	if _, err := e.uFrame.Update(); err != nil {
		return err
	}
	if _, err := e.uInput.Update(); err != nil {
		return err
	}
	return nil
}

func (e *engine) Run() error {
	if e.window == nil {
		return fmt.Errorf("engine has no window to run in: %w", common.ErrEnvironment)
	}
	if e.state == StateUninitialized {
		if err := e.CreateResources(); err != nil {
			return err
		}
	}
	defer e.input.Close()

	e.start = e.now()
	e.window.SetUpdateCallback(e.tick)
	e.window.ProcessMessages()

	e.signalQuit()
	return e.err
}

// tick runs one frame of the loop and enforces the frame limit. A failed frame stops the loop.
func (e *engine) tick() {
	select {
	case <-e.quitChannel:
		if err := e.window.Close(); err != nil {
			log.Printf("[Engine] failed to close window: %v", err)
		}
		return
	default:
	}

	frameStart := e.now()
	if err := e.Frame(float32(frameStart.Sub(e.start).Seconds())); err != nil {
		log.Printf("[Engine] frame failed: %v", err)
		e.err = err
		e.signalQuit()
		return
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		elapsed := e.now().Sub(frameStart)
		if remaining := e.renderFrameLimit - elapsed; remaining > 0 {
			time.Sleep(remaining)
		}
	}
}

// Quit signals the loop to stop.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.signalQuit()
}

// signalQuit closes the quit channel to signal the loop to exit.
// Uses sync.Once to ensure the channel is only closed once.
func (e *engine) signalQuit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
