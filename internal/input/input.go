package input

import (
	"sync"

	"github.com/go-gl/glfw/v3.3/glfw"
)

// Action is a viewer command, independent of the key that triggers it
type Action int

const (
	ActionMoveForward Action = iota
	ActionMoveBackward
	ActionMoveLeft
	ActionMoveRight
	ActionMoveUp
	ActionMoveDown
	ActionFast
	ActionReleaseCursor
	ActionToggleCulling
	ActionToggleWater
	ActionToggleProfiling
	ActionQuit
	ActionCount // Sentinel value for array sizing
)

// Manager tracks held keys and mouse movement for the viewer. Events arrive from glfw
// callbacks and are read once per frame.
type Manager struct {
	mu sync.Mutex

	keyToActions map[glfw.Key][]Action

	held        [ActionCount]bool
	justPressed [ActionCount]bool

	// cursor tracking for mouse look
	haveCursor     bool
	lastX, lastY   float64
	lookDX, lookDY float64
}

// NewManager returns a manager with the default bindings
func NewManager() *Manager {
	m := &Manager{keyToActions: make(map[glfw.Key][]Action)}

	m.Bind(glfw.KeyW, ActionMoveForward)
	m.Bind(glfw.KeyUp, ActionMoveForward)
	m.Bind(glfw.KeyS, ActionMoveBackward)
	m.Bind(glfw.KeyDown, ActionMoveBackward)
	m.Bind(glfw.KeyA, ActionMoveLeft)
	m.Bind(glfw.KeyLeft, ActionMoveLeft)
	m.Bind(glfw.KeyD, ActionMoveRight)
	m.Bind(glfw.KeyRight, ActionMoveRight)
	m.Bind(glfw.KeySpace, ActionMoveUp)
	m.Bind(glfw.KeyLeftShift, ActionMoveDown)
	m.Bind(glfw.KeyLeftControl, ActionFast)
	m.Bind(glfw.KeyEscape, ActionReleaseCursor)
	m.Bind(glfw.KeyC, ActionToggleCulling)
	m.Bind(glfw.KeyP, ActionToggleWater)
	m.Bind(glfw.KeyV, ActionToggleProfiling)
	m.Bind(glfw.KeyQ, ActionQuit)

	return m
}

// Bind adds an action to a key. A key may trigger several actions.
func (m *Manager) Bind(key glfw.Key, action Action) {
	if action < 0 || action >= ActionCount {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.keyToActions[key] = append(m.keyToActions[key], action)
}

// Unbind removes every action from a key
func (m *Manager) Unbind(key glfw.Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.keyToActions, key)
}

// HandleKey records a key event
func (m *Manager) HandleKey(key glfw.Key, action glfw.Action) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pressed := action == glfw.Press || action == glfw.Repeat
	for _, act := range m.keyToActions[key] {
		if pressed && !m.held[act] {
			m.justPressed[act] = true
		}
		m.held[act] = pressed
	}
}

// HandleCursor records a cursor position. The first position after a reset only
// anchors the cursor so grabbing it does not jerk the camera.
func (m *Manager) HandleCursor(x, y float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.haveCursor {
		m.lookDX += x - m.lastX
		m.lookDY += y - m.lastY
	}
	m.lastX, m.lastY = x, y
	m.haveCursor = true
}

// ResetCursor forgets the last cursor position, e.g. after the cursor was released
func (m *Manager) ResetCursor() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.haveCursor = false
	m.lookDX, m.lookDY = 0, 0
}

// Attach installs the key and cursor callbacks on a window
func (m *Manager) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		m.HandleKey(key, action)
	})
	window.SetCursorPosCallback(func(w *glfw.Window, xpos, ypos float64) {
		m.HandleCursor(xpos, ypos)
	})
}

// IsActive reports whether the action is held
func (m *Manager) IsActive(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.held[action]
}

// JustPressed reports whether the action was pressed since the last EndFrame
func (m *Manager) JustPressed(action Action) bool {
	if action < 0 || action >= ActionCount {
		return false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.justPressed[action]
}

// Axis returns -1, 0 or 1 for a pair of opposing actions
func (m *Manager) Axis(negative, positive Action) float32 {
	var v float32
	if m.IsActive(positive) {
		v++
	}
	if m.IsActive(negative) {
		v--
	}
	return v
}

// Look returns and clears the cursor movement accumulated since the last call
func (m *Manager) Look() (dx, dy float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	dx, dy = m.lookDX, m.lookDY
	m.lookDX, m.lookDY = 0, 0
	return dx, dy
}

// EndFrame clears the edge flags. Call it once all input for the frame has been read.
func (m *Manager) EndFrame() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range ActionCount {
		m.justPressed[i] = false
	}
}
