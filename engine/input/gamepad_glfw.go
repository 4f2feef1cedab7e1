package input

import (
	"log"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// triggerPressThreshold is the analog value above which a trigger counts as pressed.
const triggerPressThreshold = 0.5

// glfwButtonMap maps GLFW gamepad buttons onto the standard layout.
// Triggers are axes in GLFW and are converted separately.
var glfwButtonMap = [...]struct {
	from glfw.GamepadButton
	to   GamepadButton
}{
	{glfw.ButtonA, GamepadA},
	{glfw.ButtonB, GamepadB},
	{glfw.ButtonX, GamepadX},
	{glfw.ButtonY, GamepadY},
	{glfw.ButtonLeftBumper, GamepadLeftBumper},
	{glfw.ButtonRightBumper, GamepadRightBumper},
	{glfw.ButtonBack, GamepadBack},
	{glfw.ButtonStart, GamepadStart},
	{glfw.ButtonGuide, GamepadGuide},
	{glfw.ButtonLeftThumb, GamepadLeftStick},
	{glfw.ButtonRightThumb, GamepadRightStick},
	{glfw.ButtonDpadUp, GamepadUp},
	{glfw.ButtonDpadDown, GamepadDown},
	{glfw.ButtonDpadLeft, GamepadLeft},
	{glfw.ButtonDpadRight, GamepadRight},
}

// glfwGamepadSource polls joysticks that GLFW recognizes as gamepads.
// Must be used from the main thread, like every GLFW call.
type glfwGamepadSource struct{}

var _ GamepadSource = glfwGamepadSource{}

// NewGLFWGamepadSource creates a GamepadSource backed by the GLFW gamepad API.
//
// Reference: https://www.glfw.org/docs/latest/input_guide.html#gamepad
//
// Returns:
//   - GamepadSource: the GLFW poller
func NewGLFWGamepadSource() GamepadSource {
	return glfwGamepadSource{}
}

func (glfwGamepadSource) Poll(id int) (GamepadState, bool) {
	joy := glfw.Joystick(id)
	if !joy.Present() || !joy.IsGamepad() {
		return GamepadState{}, false
	}
	gs := joy.GetGamepadState()
	if gs == nil {
		return GamepadState{}, false
	}
	return convertGLFWGamepadState(gs), true
}

// convertGLFWGamepadState maps a GLFW snapshot onto the standard layout.
// GLFW reports triggers as axes in [-1, 1]; they become analog buttons in [0, 1].
func convertGLFWGamepadState(gs *glfw.GamepadState) GamepadState {
	var state GamepadState
	for _, m := range glfwButtonMap {
		if gs.Buttons[m.from] == glfw.Press {
			state.Pressed[m.to] = true
			state.Values[m.to] = 1
		}
	}

	for _, t := range [...]struct {
		axis   glfw.GamepadAxis
		button GamepadButton
	}{
		{glfw.AxisLeftTrigger, GamepadLeftTrigger},
		{glfw.AxisRightTrigger, GamepadRightTrigger},
	} {
		v := (gs.Axes[t.axis] + 1) / 2
		state.Values[t.button] = v
		state.Pressed[t.button] = v > triggerPressThreshold
	}

	state.Axes[GamepadLeftX] = gs.Axes[glfw.AxisLeftX]
	state.Axes[GamepadLeftY] = gs.Axes[glfw.AxisLeftY]
	state.Axes[GamepadRightX] = gs.Axes[glfw.AxisRightX]
	state.Axes[GamepadRightY] = gs.Axes[glfw.AxisRightY]
	return state
}

// watchGLFWJoysticks connects any gamepad that is already plugged in and registers the GLFW
// joystick callback for later connects and disconnects. GLFW must be initialized (the window does
// this) before it is called.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#SetJoystickCallback
func watchGLFWJoysticks(g *gamepad) {
	for joy := glfw.Joystick1; joy <= glfw.JoystickLast; joy++ {
		if joy.Present() && joy.IsGamepad() {
			log.Printf("[Input] gamepad %d present: %s", int(joy), joy.GetGamepadName())
			g.connectEvent(int(joy))
			break
		}
	}

	glfw.SetJoystickCallback(func(joy glfw.Joystick, event glfw.PeripheralEvent) {
		switch event {
		case glfw.Connected:
			if !joy.IsGamepad() {
				return
			}
			log.Printf("[Input] gamepad %d connected: %s", int(joy), joy.GetGamepadName())
			g.connectEvent(int(joy))
		case glfw.Disconnected:
			log.Printf("[Input] gamepad %d disconnected", int(joy))
			g.Disconnect(int(joy))
		}
	})
}
