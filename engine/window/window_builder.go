package window

// WindowBuilderOption configures a window before it is spawned.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the title bar text.
//
// Parameters:
//   - title: the window title
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithWidth sets the initial canvas width in pixels. Together with the height it fixes the aspect
// ratio kept while resizing.
//
// Parameters:
//   - width: the initial width
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
	}
}

// WithHeight sets the initial canvas height in pixels.
//
// Parameters:
//   - height: the initial height
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.height = height
	}
}

// WithScaleLimits bounds resizing to a range of multiples of the initial size.
// Non-positive values leave that side unbounded.
//
// Parameters:
//   - minScale: the smallest allowed scale, e.g. 0.5
//   - maxScale: the largest allowed scale, e.g. 2
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithScaleLimits(minScale, maxScale float64) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minScale = minScale
		w.maxScale = maxScale
	}
}

// WithFreeAspect lets the user resize to any aspect ratio. Sketches then see a stretched canvas.
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithFreeAspect() WindowBuilderOption {
	return func(w *engineWindow) {
		w.freeAspect = true
	}
}
