package material

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// Stages is the set of shader stages linked into one program. Vertex and Fragment are
// required; the remaining stages are optional and independent of one another.
type Stages struct {
	Vertex         shader.Shader
	Fragment       shader.Shader
	Geometry       shader.Shader
	TessControl    shader.Shader
	TessEvaluation shader.Shader
}

// Program is a linked GPU program. Its link status is captured once at assembly.
type Program struct {
	handle  uint32
	linked  bool
	infoLog string
}

// Handle returns the native program handle.
func (p *Program) Handle() uint32 {
	return p.handle
}

// Linked reports whether the program linked successfully.
func (p *Program) Linked() bool {
	return p.linked
}

// InfoLog returns the linker diagnostic captured when linking failed.
func (p *Program) InfoLog() string {
	return p.infoLog
}

func requireStage(name string, s shader.Shader, want shader.ShaderType, required bool) {
	if s == nil {
		if required {
			panic(fmt.Sprintf("material: %s requires a %s shader", name, want))
		}
		return
	}
	if s.ShaderType() != want {
		panic(fmt.Sprintf("material: %s %s slot was given %s shader %q", name, want, s.ShaderType(), s.Key()))
	}
}

// assembleProgram attaches every provided stage and links them. A link failure is logged and
// yields a Program reporting Linked() == false rather than an error.
func assembleProgram(ctx graphics.Context, name string, st Stages) *Program {
	requireStage(name, st.Vertex, shader.ShaderTypeVertex, true)
	requireStage(name, st.Fragment, shader.ShaderTypeFragment, true)
	requireStage(name, st.Geometry, shader.ShaderTypeGeometry, false)
	requireStage(name, st.TessControl, shader.ShaderTypeTessControl, false)
	requireStage(name, st.TessEvaluation, shader.ShaderTypeTessEvaluation, false)

	p := &Program{handle: ctx.CreateProgram()}
	for _, s := range []shader.Shader{st.Vertex, st.TessControl, st.TessEvaluation, st.Geometry, st.Fragment} {
		if s == nil {
			continue
		}
		ctx.AttachShader(p.handle, s.Handle())
	}
	ctx.LinkProgram(p.handle)
	p.linked = ctx.ProgramLinked(p.handle)
	graphics.CheckError(ctx, "link "+name)

	if !p.linked {
		p.infoLog = ctx.ProgramInfoLog(p.handle)
		common.Logger().Error("material program link failed", "material", name, "program", p.handle, "log", p.infoLog)
		return p
	}
	common.Logger().Info("material program linked", "material", name, "program", p.handle)
	return p
}
