// pre_processor.go implements the Oxy GLSL shader pre-processor. It scans shader
// source code for @oxy: annotations and replaces them with the engine's standard
// uniform declarations, recording which blocks each stage pulled in.
//
// The pre-processor maintains one registry, blockRegistry, mapping AnnotationArg keys
// to embedded GLSL declaration sources.
package shader

import (
	_ "embed"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/light"
)

//go:embed assets/camera.glsl
var cameraBlockSource string

//go:embed assets/model.glsl
var modelBlockSource string

//go:embed assets/lights.glsl
var lightsBlockSource string

//go:embed assets/screen.glsl
var screenBlockSource string

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	// blockRegistry maps block argument keys to their embedded GLSL source.
	blockRegistry map[AnnotationArg]string

	// includes accumulates the blocks injected during a Process call, in source order.
	// Reset at the start of each Process invocation.
	includes []AnnotationArg
}

// PreProcessor processes raw GLSL shader source code containing @oxy: annotations,
// replacing them with the standard uniform declarations the material binder writes to.
type PreProcessor interface {
	// Process takes raw GLSL shader source code and replaces each @oxy:include annotation
	// with the declarations of the named block. A block included more than once is emitted
	// only at its first site.
	//
	// The includes list is reset at the start of each call and can be retrieved
	// via Includes() after Process returns.
	//
	// Parameters:
	//   - source: the raw GLSL shader source code containing annotations to be processed
	//
	// Returns:
	//   - string: the processed GLSL shader source code with annotations replaced
	//   - error: an error if any annotation is malformed or references an unknown block
	Process(source string) (string, error)

	// Includes returns the blocks injected during the most recent call to Process, in source order.
	//
	// Returns:
	//   - []AnnotationArg: the included block keys
	Includes() []AnnotationArg
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a new PreProcessor with all standard uniform blocks registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		blockRegistry: map[AnnotationArg]string{
			AnnotationArgCamera: cameraBlockSource,
			AnnotationArgModel:  modelBlockSource,
			AnnotationArgLights: strings.ReplaceAll(lightsBlockSource, "{{MAX_POINT_LIGHTS}}", strconv.Itoa(light.MaxPointLights)),
			AnnotationArgScreen: screenBlockSource,
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			block := a.Args[0]
			src, ok := p.blockRegistry[block]
			if !ok {
				return "", fmt.Errorf("line %d: unknown @oxy:include argument %q", i+1, block)
			}
			if slices.Contains(p.includes, block) {
				continue
			}
			p.includes = append(p.includes, block)
			out = append(out, strings.TrimRight(src, "\n"))
		default:
			return "", fmt.Errorf("line %d: unknown annotation type %q", i+1, a.Type)
		}
	}
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Includes() []AnnotationArg {
	return p.includes
}
