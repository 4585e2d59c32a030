// annotations.go defines the annotation types, argument constants, and parser for the
// Oxy GLSL shader pre-processor. Annotations are single-line GLSL comments prefixed
// with @oxy: that drive injection of the engine's standard uniform declarations, so
// every stage that talks to the binder names its uniforms the same way.
package shader

import (
	"fmt"
	"slices"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a GLSL comment line.
// Every annotation must appear on a line beginning with "//" followed by this prefix.
const annotationPrefix = "@oxy:"

// AnnotationType identifies the kind of annotation parsed from a GLSL comment line.
type AnnotationType string

const (
	// AnnotationTypeInclude injects the GLSL declarations of a registered uniform block
	// into the shader at the annotation site.
	//
	// Syntax: //@oxy:include <block>
	//
	// Example: //@oxy:include camera
	AnnotationTypeInclude AnnotationType = "include"
)

// Annotation represents a single parsed @oxy: annotation from a GLSL shader source line.
type Annotation struct {
	// Type identifies which annotation was parsed.
	Type AnnotationType

	// Args holds the annotation's arguments. For include: [0] = block key (e.g. "camera").
	Args []AnnotationArg

	// Line is the 1-based line number in the original source where this annotation
	// was found. Used for error reporting.
	Line int
}

// AnnotationArg is a typed string constant used as an argument in annotations.
type AnnotationArg string

// Uniform block arguments. Each one maps to an embedded .glsl asset declaring uniforms
// under the names the material binder writes.
const (
	// AnnotationArgCamera declares P, V and cameraPosition.
	// Source: engine/renderer/shader/assets/camera.glsl
	AnnotationArgCamera AnnotationArg = "camera"

	// AnnotationArgModel declares M.
	// Source: engine/renderer/shader/assets/model.glsl
	AnnotationArgModel AnnotationArg = "model"

	// AnnotationArgLights declares the PointLight struct, the pointLights array and numberOfLights.
	// Source: engine/renderer/shader/assets/lights.glsl
	AnnotationArgLights AnnotationArg = "lights"

	// AnnotationArgScreen declares screenSize and state.
	// Source: engine/renderer/shader/assets/screen.glsl
	AnnotationArgScreen AnnotationArg = "screen"
)

// validBlocks lists all AnnotationArg values that are accepted by @oxy:include.
// Each entry must have a corresponding source in the PreProcessor's block registry.
var validBlocks = []AnnotationArg{
	AnnotationArgCamera,
	AnnotationArgModel,
	AnnotationArgLights,
	AnnotationArgScreen,
}

// parseAnnotation attempts to parse a single line of GLSL source as an @oxy: annotation.
// Returns nil with no error for lines that do not contain the annotation prefix.
//
// Parameters:
//   - line: the raw GLSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Annotation: the parsed annotation, or nil if the line is not an annotation
//   - error: a descriptive error if the annotation is malformed
func parseAnnotation(line string, lineNum int) (*Annotation, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "//") {
		return nil, nil
	}
	_, after, ok := strings.Cut(trimmed, annotationPrefix)
	if !ok {
		return nil, nil
	}

	args := strings.Fields(after)
	if len(args) == 0 {
		return nil, fmt.Errorf("line %d: empty @oxy annotation", lineNum)
	}

	switch args[0] {
	case string(AnnotationTypeInclude):
		if len(args) != 2 {
			return nil, fmt.Errorf("line %d: @oxy include annotation requires exactly one argument", lineNum)
		}
		if !slices.Contains(validBlocks, AnnotationArg(args[1])) {
			return nil, fmt.Errorf("line %d: unknown uniform block %q in @oxy include annotation", lineNum, args[1])
		}
		return &Annotation{
			Type: AnnotationTypeInclude,
			Args: []AnnotationArg{AnnotationArg(args[1])},
			Line: lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy annotation type %q", lineNum, args[0])
	}
}
