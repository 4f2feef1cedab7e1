package common

// Virtual key codes delivered by the window's key callbacks.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyA = 65 // A key (ASCII)
	KeyD = 68 // D key (ASCII)
	KeyS = 83 // S key (ASCII)
	KeyW = 87 // W key (ASCII)
	KeyX = 88 // X key (ASCII)
	KeyZ = 90 // Z key (ASCII)

	KeySpace = 32  // Spacebar (ASCII)
	KeyEnter = 257 // Enter key (GLFW)
	KeyEsc   = 256 // Escape key (GLFW)

	Key0 = 48 // 0 key (ASCII)
	Key1 = 49 // 1 key (ASCII)
	Key2 = 50 // 2 key (ASCII)
	Key3 = 51 // 3 key (ASCII)
	Key4 = 52 // 4 key (ASCII)
	Key5 = 53 // 5 key (ASCII)
	Key6 = 54 // 6 key (ASCII)
	Key7 = 55 // 7 key (ASCII)
	Key8 = 56 // 8 key (ASCII)
	Key9 = 57 // 9 key (ASCII)
)

// Arrow keys
const (
	KeyArrowRight = 262 // Right arrow (GLFW)
	KeyArrowLeft  = 263 // Left arrow (GLFW)
	KeyArrowDown  = 264 // Down arrow (GLFW)
	KeyArrowUp    = 265 // Up arrow (GLFW)
)

// Additional non-printable keys
const (
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)
