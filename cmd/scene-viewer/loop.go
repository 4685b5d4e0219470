package main

import (
	"time"

	"scenery/internal/config"
	"scenery/internal/graphics"
	"scenery/internal/graphics/passes/water"
	"scenery/internal/graphics/renderer"
	"scenery/internal/input"
	"scenery/internal/loader"
	"scenery/internal/logger"
	"scenery/internal/profiling"
	"scenery/internal/scene"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

const (
	moveSpeed        = 20  // units per second
	fastMultiplier   = 4   // while ActionFast is held
	mouseSensitivity = 0.1 // degrees per pixel
)

// Viewer owns the window, the renderer and the demo scene
type Viewer struct {
	window   *glfw.Window
	gc       *graphics.GLContext
	renderer *renderer.Renderer
	loader   *loader.Loader
	fbos     *water.FrameBuffers
	input    *input.Manager
	camera   *graphics.Camera
	scene    *demoScene
	limiter  *FPSLimiter

	// framebuffer size, restored after the water passes
	width, height int

	culling   bool
	water     bool
	profiling bool
	grabbed   bool
}

// Run draws frames until the window closes
func (v *Viewer) Run() {
	v.culling = true
	v.water = true
	v.grabbed = true
	v.input.Attach(v.window)
	v.window.SetFramebufferSizeCallback(func(w *glfw.Window, width, height int) {
		v.resize(width, height)
	})

	frames := 0
	lastFPSCheck := time.Now()
	lastTime := time.Now()

	for !v.window.ShouldClose() {
		profiling.ResetFrame()
		now := time.Now()
		dt := float32(now.Sub(lastTime).Seconds())
		lastTime = now

		v.handleInput(dt)
		v.scene.update(dt)

		v.renderFrame()
		frames++

		func() { defer profiling.Track("glfw.SwapBuffers")(); v.window.SwapBuffers() }()
		func() { defer profiling.Track("glfw.PollEvents")(); glfw.PollEvents() }()

		if time.Since(lastFPSCheck) >= time.Second {
			stats := v.renderer.LastFrame()
			fields := []zap.Field{
				zap.Int("fps", frames),
				zap.Int("batches", stats.Batches+stats.NormalBatches),
				zap.Int("entities", stats.Entities+stats.NormalEntities),
				zap.Int("terrains", stats.Terrains),
			}
			if v.profiling {
				fields = append(fields, zap.String("top", profiling.TopN(5)))
			}
			logger.Log.Info("frame stats", fields...)
			frames = 0
			lastFPSCheck = time.Now()
		}

		v.input.EndFrame()
		v.limiter.Wait()
	}
}

// renderFrame draws the reflection and refraction of the water into their
// framebuffers, then the scene and the water on top of it
func (v *Viewer) renderFrame() {
	ds := v.scene
	height, hasWater := ds.waterHeight()
	hasWater = hasWater && v.water

	if hasWater {
		v.gc.EnableClipPlane()

		v.fbos.BindReflection()
		v.camera.MirrorAbout(height)
		err := v.renderer.RenderScene(ds.entities, ds.normalEntities, ds.terrains, ds.lights, v.camera, scene.ReflectionClipPlane(height))
		v.camera.MirrorAbout(height)
		if err != nil {
			logger.Log.Error("reflection failed", zap.Error(err))
		}

		v.fbos.BindRefraction()
		if err := v.renderer.RenderScene(ds.entities, ds.normalEntities, ds.terrains, ds.lights, v.camera, scene.RefractionClipPlane(height)); err != nil {
			logger.Log.Error("refraction failed", zap.Error(err))
		}

		v.gc.DisableClipPlane()
		v.fbos.Unbind(v.width, v.height)
	}

	if err := v.renderer.RenderScene(ds.entities, ds.normalEntities, ds.terrains, ds.lights, v.camera, scene.NoClipPlane()); err != nil {
		logger.Log.Error("frame failed", zap.Error(err))
	}
	if hasWater {
		if err := v.renderer.RenderWater(ds.waters, ds.lights, v.camera); err != nil {
			logger.Log.Error("water failed", zap.Error(err))
		}
	}
}

func (v *Viewer) handleInput(dt float32) {
	im := v.input

	if im.JustPressed(input.ActionQuit) {
		v.window.SetShouldClose(true)
	}
	if im.JustPressed(input.ActionReleaseCursor) {
		v.grabbed = !v.grabbed
		if v.grabbed {
			v.window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			v.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
		im.ResetCursor()
	}
	if im.JustPressed(input.ActionToggleCulling) {
		v.culling = !v.culling
		if v.culling {
			v.renderer.EnableCulling()
		} else {
			v.renderer.DisableCulling()
		}
	}
	if im.JustPressed(input.ActionToggleWater) {
		v.water = !v.water
	}
	if im.JustPressed(input.ActionToggleProfiling) {
		v.profiling = !v.profiling
	}

	dx, dy := im.Look()
	if v.grabbed {
		v.camera.Look(float32(dx)*mouseSensitivity, float32(dy)*mouseSensitivity)
	}

	speed := float32(moveSpeed)
	if im.IsActive(input.ActionFast) {
		speed *= fastMultiplier
	}
	forward := im.Axis(input.ActionMoveBackward, input.ActionMoveForward)
	strafe := im.Axis(input.ActionMoveLeft, input.ActionMoveRight)
	lift := im.Axis(input.ActionMoveDown, input.ActionMoveUp)

	move := v.camera.Forward().Mul(forward).Add(v.camera.Right().Mul(strafe))
	if move.Len() > 0 {
		move = move.Normalize()
	}
	move = move.Add(mgl32.Vec3{0, lift, 0}).Mul(speed * dt)
	v.camera.Pos = v.camera.Pos.Add(move)

	// stay above the ground
	if floor := v.scene.heightAt(v.camera.Pos.X(), v.camera.Pos.Z()) + 1.5; v.camera.Pos.Y() < floor {
		v.camera.Pos[1] = floor
	}
}

func (v *Viewer) resize(width, height int) {
	if width == 0 || height == 0 {
		// minimised
		return
	}
	v.width, v.height = width, height
	v.gc.Viewport(width, height)
	config.SetViewport(width, height)
	if err := v.renderer.UpdateViewport(width, height); err != nil {
		logger.Log.Warn("viewport change rejected", zap.Int("width", width), zap.Int("height", height), zap.Error(err))
	}
}

// CleanUp releases the renderer's programs and every loaded resource
func (v *Viewer) CleanUp() {
	v.renderer.CleanUp()
	v.loader.CleanUp()
}
