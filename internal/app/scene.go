package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshglow/internal/config"
	"github.com/Faultbox/meshglow/internal/engine/debug"
	"github.com/Faultbox/meshglow/internal/engine/gpu"
	"github.com/Faultbox/meshglow/internal/engine/input"
	"github.com/Faultbox/meshglow/internal/engine/renderer"
	"github.com/Faultbox/meshglow/internal/engine/shader/shaders"
	"github.com/Faultbox/meshglow/internal/logger"
	"github.com/Faultbox/meshglow/internal/palette"
)

// Scene drives one effect on a renderer: it owns the effect uniforms, the
// palette selection and the pause state. It needs no window, only a
// gpu.Context.
type Scene struct {
	ctx      gpu.Context
	renderer *renderer.Renderer
	effect   shaders.Effect
	settings config.EffectConfig
	capture  *debug.FrameCapture

	palette int
	paused  bool
	width   int
	height  int
}

// NewScene builds the renderer for the configured effect and pushes the
// initial uniform values.
func NewScene(ctx gpu.Context, cfg *config.Config, width, height int) (*Scene, error) {
	effect, err := shaders.Lookup(cfg.Effect.Name)
	if err != nil {
		return nil, err
	}

	format, err := debug.ParseFormat(cfg.Capture.Format)
	if err != nil {
		return nil, err
	}

	s := &Scene{
		ctx:      ctx,
		effect:   effect,
		settings: cfg.Effect,
		capture:  debug.NewFrameCapture(cfg.Capture.Dir, "meshglow", format),
		palette:  cfg.Effect.Palette,
		width:    width,
		height:   height,
	}

	s.renderer, err = renderer.New(ctx, effect.Vertex, effect.Fragment, renderer.Config{
		Width:          width,
		Height:         height,
		WidthSegments:  cfg.Plane.WidthSegments,
		HeightSegments: cfg.Plane.HeightSegments,
		Scale:          cfg.Plane.Scale,
		AutoTime:       true,
		TimeScalar:     cfg.Effect.TimeScalar,
		ClearColor:     clearColor(palette.Nice(s.palette)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	for _, u := range effect.Uniforms {
		if _, err := s.renderer.AddUniform(u.Name, u.Kind); err != nil {
			s.renderer.Close()
			return nil, fmt.Errorf("failed to register %s: %w", u.Name, err)
		}
	}

	s.renderer.Resize(width, height)
	s.pushResolution()
	s.pushPalette()
	s.push(shaders.Seed, cfg.Effect.Seed)
	s.push(shaders.Intensity, cfg.Effect.Intensity)

	logger.Info("scene ready",
		zap.String("effect", effect.Name),
		zap.Int("palette", s.palette),
	)
	return s, nil
}

// push updates an effect uniform, logging failures. Effects that do not
// declare the uniform are skipped.
func (s *Scene) push(name string, values ...float32) {
	if !s.effect.Has(name) {
		return
	}
	if err := s.renderer.UpdateUniform(name, values...); err != nil {
		logger.Warn("uniform update failed", zap.String("uniform", name), zap.Error(err))
	}
}

func (s *Scene) pushResolution() {
	s.push(shaders.Resolution, float32(s.width), float32(s.height))
}

func (s *Scene) pushPalette() {
	p := palette.Nice(s.palette)
	s.push(shaders.Color, p.Floats()...)
	s.renderer.SetClearColor(clearColor(p))
}

func clearColor(p palette.Palette) [4]float32 {
	bg := p.Background()
	return [4]float32{float32(bg.R), float32(bg.G), float32(bg.B), 1}
}

// Frame renders one frame. Time does not advance while paused.
func (s *Scene) Frame(dt float32) {
	if s.paused {
		dt = 0
	}
	s.renderer.Render(dt)
}

// Resize follows a drawable size change.
func (s *Scene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.renderer.Resize(width, height)
	s.pushResolution()
}

// TogglePause flips the pause state and returns the new one.
func (s *Scene) TogglePause() bool {
	s.paused = !s.paused
	logger.Info("time paused", zap.Bool("paused", s.paused))
	return s.paused
}

// NextPalette switches to the next built-in palette and returns its index.
func (s *Scene) NextPalette() int {
	s.palette = (s.palette + 1) % palette.NiceCount()
	s.pushPalette()
	logger.Info("palette changed", zap.Int("palette", s.palette), zap.Strings("colors", palette.Nice(s.palette).Hex()))
	return s.palette
}

// Capture reads back the current frame and writes it to the capture dir.
func (s *Scene) Capture() (string, error) {
	pixels := s.ctx.ReadPixels(0, 0, s.width, s.height)
	path, err := s.capture.CaptureFromPixels(pixels, s.width, s.height)
	if err != nil {
		return "", fmt.Errorf("capture failed: %w", err)
	}
	logger.Info("frame captured", zap.String("path", path))
	return path, nil
}

// Apply runs the host actions in order. It returns true when one of them
// asks to quit.
func (s *Scene) Apply(actions []input.Action) bool {
	for _, a := range actions {
		switch a {
		case input.ActionQuit:
			return true
		case input.ActionTogglePause:
			s.TogglePause()
		case input.ActionNextPalette:
			s.NextPalette()
		case input.ActionCapture:
			if _, err := s.Capture(); err != nil {
				logger.Warn("capture failed", zap.Error(err))
			}
		}
	}
	return false
}

// Renderer returns the underlying renderer.
func (s *Scene) Renderer() *renderer.Renderer {
	return s.renderer
}

// Paused reports whether time is paused.
func (s *Scene) Paused() bool {
	return s.paused
}

// Close releases the renderer.
func (s *Scene) Close() {
	if s.renderer != nil {
		s.renderer.Close()
	}
}
