// Package app implements the host: window, frame loop and key handling
// around a Scene.
package app

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/meshglow/internal/config"
	"github.com/Faultbox/meshglow/internal/engine/gpu"
	"github.com/Faultbox/meshglow/internal/engine/input"
	"github.com/Faultbox/meshglow/internal/engine/window"
	"github.com/Faultbox/meshglow/internal/logger"
)

const title = "meshglow"

// App is the main application instance.
type App struct {
	config  *config.Config
	running bool
	window  *window.Window
	gl      *gpu.GL
	input   *input.Input
	scene   *Scene
}

// New creates the window, the OpenGL context and the scene.
func New(cfg *config.Config) (*App, error) {
	logger.Info("initializing",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.String("effect", cfg.Effect.Name),
	)

	a := &App{
		config: cfg,
	}

	// Create window (this also creates OpenGL context)
	var err error
	a.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// GL function pointers need the context from the window.
	a.gl, err = gpu.NewGL()
	if err != nil {
		a.window.Close()
		return nil, err
	}

	width, height := a.window.DrawableSize()
	a.scene, err = NewScene(a.gl, cfg, width, height)
	if err != nil {
		a.gl.Close()
		a.window.Close()
		return nil, err
	}

	a.input = input.New()

	logger.Info("initialized successfully")
	return a, nil
}

// Run starts the frame loop and returns when the user quits.
func (a *App) Run() error {
	a.running = true

	var frameBudget time.Duration
	if a.config.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(a.config.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for a.running {
		frameStart := time.Now()
		dt := frameStart.Sub(lastTime).Seconds()
		lastTime = frameStart

		if a.input.Update() {
			a.running = false
			break
		}

		if _, _, ok := a.input.LastResize(); ok {
			// Resize events carry window coordinates; the viewport needs pixels.
			a.scene.Resize(a.window.DrawableSize())
		}

		if a.scene.Apply(a.input.Actions()) {
			a.running = false
			break
		}

		a.scene.Frame(float32(dt))
		a.window.SwapBuffers()

		frameCount++
		if elapsed := time.Since(fpsTimer); elapsed >= time.Second {
			fps := float64(frameCount) / elapsed.Seconds()
			logger.Debug("fps", zap.Float64("fps", fps), zap.Duration("dt", time.Duration(dt*float64(time.Second))))
			if a.config.Graphics.ShowFPS {
				a.window.SetTitle(fmt.Sprintf("%s - %.0f fps", title, fps))
			}
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(frameStart); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

// Close cleans up resources in reverse creation order.
func (a *App) Close() {
	logger.Info("closing")

	if a.scene != nil {
		a.scene.Close()
	}
	if a.gl != nil {
		a.gl.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
