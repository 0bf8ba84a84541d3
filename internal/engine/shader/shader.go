// Package shader compiles and links shader programs through a gpu.Context.
package shader

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/meshglow/internal/engine/gpu"
	"github.com/Faultbox/meshglow/internal/logger"
)

// CompileError reports a shader stage that failed to compile. Log is the
// driver's info log, unmodified.
type CompileError struct {
	Stage gpu.Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader: compile failed: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link failed: %s", e.Log)
}

// CompileProgram compiles vertex and fragment shaders and links them into a
// program. Nothing is leaked on failure: shaders and the program created so
// far are deleted before the error is returned.
func CompileProgram(ctx gpu.Context, vertexSrc, fragmentSrc string) (gpu.Program, error) {
	program := ctx.CreateProgram()

	vertShader, err := compileShader(ctx, gpu.StageVertex, vertexSrc)
	if err != nil {
		ctx.DeleteProgram(program)
		return 0, err
	}
	defer ctx.DeleteShader(vertShader)

	fragShader, err := compileShader(ctx, gpu.StageFragment, fragmentSrc)
	if err != nil {
		ctx.DeleteProgram(program)
		return 0, err
	}
	defer ctx.DeleteShader(fragShader)

	ctx.AttachShader(program, vertShader)
	ctx.AttachShader(program, fragShader)
	if !ctx.LinkProgram(program) {
		log := ctx.ProgramInfoLog(program)
		ctx.DeleteProgram(program)
		return 0, &LinkError{Log: log}
	}

	logger.Debug("shader program linked", zap.Uint32("program", uint32(program)))
	return program, nil
}

// compileShader compiles a single shader of the given stage.
func compileShader(ctx gpu.Context, stage gpu.Stage, source string) (gpu.Shader, error) {
	s := ctx.CreateShader(stage)
	ctx.ShaderSource(s, source)
	if !ctx.CompileShader(s) {
		log := ctx.ShaderInfoLog(s)
		ctx.DeleteShader(s)
		return 0, &CompileError{Stage: stage, Log: log}
	}
	return s, nil
}
