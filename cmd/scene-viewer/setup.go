package main

import (
	"fmt"
	"path/filepath"

	"scenery/internal/config"
	"scenery/internal/graphics"
	"scenery/internal/graphics/passes/entity"
	"scenery/internal/graphics/passes/normalmap"
	"scenery/internal/graphics/passes/skybox"
	"scenery/internal/graphics/passes/terrain"
	"scenery/internal/graphics/passes/water"
	"scenery/internal/graphics/renderer"
	"scenery/internal/graphics/shaders"
	"scenery/internal/input"
	"scenery/internal/loader"
	"scenery/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func setupWindow(s config.WindowSettings) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	window, err := glfw.CreateWindow(s.Width, s.Height, s.Title, nil, nil)
	if err != nil {
		return nil, err
	}
	window.MakeContextCurrent()

	// Initialize OpenGL bindings
	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, err
	}

	// Disable V-Sync; the FPS limiter paces frames
	glfw.SwapInterval(0)
	window.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)

	return window, nil
}

// setupViewer builds the GL objects, the renderer and the demo scene
func setupViewer(window *glfw.Window, s config.Settings) (*Viewer, error) {
	gc, err := graphics.NewGLContext()
	if err != nil {
		return nil, err
	}
	major, minor := gc.Version()
	logger.Log.Info("gl context ready", zap.Int("major", major), zap.Int("minor", minor))

	ld := loader.New()
	r, fbos, err := newRenderer(s, gc, ld)
	if err != nil {
		ld.CleanUp()
		return nil, err
	}
	r.SetLogger(logger.Log.Named("renderer"))

	fbWidth, fbHeight := window.GetFramebufferSize()
	gc.Viewport(fbWidth, fbHeight)

	return &Viewer{
		window:   window,
		gc:       gc,
		renderer: r,
		loader:   ld,
		fbos:     fbos,
		input:    input.NewManager(),
		camera:   graphics.NewCamera(mgl32.Vec3{0, 12, 40}),
		scene:    buildScene(ld, s.Assets.TexturesDir),
		limiter:  NewFPSLimiter(),
		width:    fbWidth,
		height:   fbHeight,
	}, nil
}

// newRenderer compiles every program and hands them to the renderer. Whatever was
// built before a failure is released again.
func newRenderer(s config.Settings, gc *graphics.GLContext, ld *loader.Loader) (*renderer.Renderer, *water.FrameBuffers, error) {
	var built builtList
	r, fbos, err := buildRenderer(s, gc, ld, &built)
	if err != nil {
		if relErr := built.release(); relErr != nil {
			logger.Log.Warn("release after failed setup", zap.Error(relErr))
		}
		return nil, nil, err
	}
	return r, fbos, nil
}

func buildRenderer(s config.Settings, gc *graphics.GLContext, ld *loader.Loader, built *builtList) (*renderer.Renderer, *water.FrameBuffers, error) {
	dir := s.Assets.ShadersDir

	entityShader, err := shaders.NewEntityShader(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("entity shader: %w", err)
	}
	built.add("entity shader", entityShader)
	terrainShader, err := shaders.NewTerrainShader(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("terrain shader: %w", err)
	}
	built.add("terrain shader", terrainShader)
	normalShader, err := shaders.NewNormalMapShader(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("normal map shader: %w", err)
	}
	built.add("normal map shader", normalShader)
	skyShader, err := shaders.NewSkyboxShader(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("skybox shader: %w", err)
	}
	built.add("skybox shader", skyShader)
	waterShader, err := shaders.NewWaterShader(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("water shader: %w", err)
	}
	built.add("water shader", waterShader)
	fbos, err := water.NewFrameBuffers()
	if err != nil {
		return nil, nil, fmt.Errorf("water frame buffers: %w", err)
	}
	built.add("water frame buffers", releaseFunc(func() error { fbos.CleanUp(); return nil }))

	sky := s.Sky.Colour
	cubeMap, err := ld.LoadCubeMap(skybox.FacePaths(filepath.Join(s.Assets.TexturesDir, "skybox")))
	if err != nil {
		logger.Log.Warn("sky faces unavailable, using a plain sky", zap.Error(err))
		cubeMap = ld.LoadSolidCubeMap(channel(sky[0]), channel(sky[1]), channel(sky[2]))
	}
	// flat fallbacks: no distortion, straight-up normals
	dudv := loadTexture(ld, s.Assets.TexturesDir, "waterDUDV.png", 128, 128, 0)
	waterNormal := loadTexture(ld, s.Assets.TexturesDir, "waterNormal.png", 128, 128, 255)

	r, err := renderer.NewRenderer(s, gc, renderer.Passes{
		EntityShader:  entityShader,
		Entity:        entity.New(entityShader),
		TerrainShader: terrainShader,
		Terrain:       terrain.New(terrainShader),
		NormalMap:     normalmap.New(normalShader, sky),
		Skybox:        skybox.New(ld, skyShader, cubeMap),
		Water:         water.New(ld, waterShader, fbos, dudv, waterNormal, s.Projection.NearPlane, s.Projection.FarPlane),
	})
	if err != nil {
		return nil, nil, err
	}
	return r, fbos, nil
}

func channel(v float32) uint8 {
	return uint8(mgl32.Clamp(v, 0, 1) * 255)
}
