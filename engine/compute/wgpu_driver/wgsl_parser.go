package wgpu_driver

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-gl/engine/compute"
	"github.com/cogentcore/webgpu/wgpu"
)

// interopFormat is the texel format shared GL textures are mirrored with.
const interopFormat = "rgba8unorm"

// wgslSampledTextureMap maps WGSL sampled texture base names to the image dimension they bind
var wgslSampledTextureMap = map[string]compute.ImageDimension{
	"texture_2d": compute.Image2D,
	"texture_3d": compute.Image3D,
}

// wgslStorageTextureMap maps WGSL storage texture base names to the image dimension they bind
var wgslStorageTextureMap = map[string]compute.ImageDimension{
	"texture_storage_2d": compute.Image2D,
	"texture_storage_3d": compute.Image3D,
}

// viewDimensionMap maps image dimensions to their wgpu texture view dimension
var viewDimensionMap = map[compute.ImageDimension]wgpu.TextureViewDimension{
	compute.Image2D: wgpu.TextureViewDimension2D,
	compute.Image3D: wgpu.TextureViewDimension3D,
}

// wgslStorageAccessMap maps WGSL access mode keywords to the access a Resource declares
var wgslStorageAccessMap = map[string]compute.Access{
	"read":       compute.AccessRead,
	"write":      compute.AccessWrite,
	"read_write": compute.AccessReadWrite,
}

// storageAccessMap maps kernel access modes to their wgpu storage texture access
var storageAccessMap = map[compute.Access]wgpu.StorageTextureAccess{
	compute.AccessRead:      wgpu.StorageTextureAccessReadOnly,
	compute.AccessWrite:     wgpu.StorageTextureAccessWriteOnly,
	compute.AccessReadWrite: wgpu.StorageTextureAccessReadWrite,
}

// wgslTexelFormatMap maps WGSL texel format strings to their wgpu texture formats.
// Only interopFormat can mirror a GL texture; the rest are recognized for error reporting.
var wgslTexelFormatMap = map[string]wgpu.TextureFormat{
	"rgba8unorm":  wgpu.TextureFormatRGBA8Unorm,
	"rgba8snorm":  wgpu.TextureFormatRGBA8Snorm,
	"rgba8uint":   wgpu.TextureFormatRGBA8Uint,
	"rgba8sint":   wgpu.TextureFormatRGBA8Sint,
	"rgba16float": wgpu.TextureFormatRGBA16Float,
	"r32float":    wgpu.TextureFormatR32Float,
	"rgba32float": wgpu.TextureFormatRGBA32Float,
	"bgra8unorm":  wgpu.TextureFormatBGRA8Unorm,
}

// wgslScalarTypes is the set of uniform types a positional scalar argument may have
var wgslScalarTypes = map[string]bool{
	"i32": true,
	"u32": true,
	"f32": true,
}

var (
	// entryRegex captures the attribute run preceding a function and the function name
	entryRegex = regexp.MustCompile(`((?:@\w+(?:\([^)]*\))?\s*)+)fn\s+(\w+)`)

	// computeAttributeRegex matches the @compute stage attribute
	computeAttributeRegex = regexp.MustCompile(`@compute\b`)

	// workgroupSizeRegex captures 1-3 integer dimensions from @workgroup_size(x[, y[, z]])
	workgroupSizeRegex = regexp.MustCompile(`@workgroup_size\(\s*(\d+)\s*(?:,\s*(\d+)\s*(?:,\s*(\d+)\s*)?)?,?\s*\)`)

	// bindGroupDeclRegex captures group, binding, optional address space, variable name, and type
	// from declarations like: @group(0) @binding(0) var<uniform> time: f32;
	// or handle types: @group(0) @binding(1) var output: texture_storage_2d<rgba8unorm, write>;
	bindGroupDeclRegex = regexp.MustCompile(`@group\((\d+)\)\s*@binding\((\d+)\)\s*var(?:<([^>]*)>)?\s+(\w+)\s*:\s*([^;]+?)\s*;`)
)

// parseKernel extracts the signature of one compute entry point from WGSL source: its
// workgroup size and the positional arguments declared in bind group 0.
//
// Parameters:
//   - source: the raw WGSL source code string
//   - entryPoint: the name of the @compute function
//
// Returns:
//   - kernelSignature: the parsed signature
//   - error: error if the entry point is missing or an argument cannot be bound
func parseKernel(source, entryPoint string) (kernelSignature, error) {
	cleaned := stripComments(source)

	attrs, ok := findComputeEntry(cleaned, entryPoint)
	if !ok {
		return kernelSignature{}, fmt.Errorf("no @compute entry point %q", entryPoint)
	}
	size, err := parseWorkgroupSize(attrs)
	if err != nil {
		return kernelSignature{}, fmt.Errorf("entry point %q: %w", entryPoint, err)
	}
	args, err := parseArguments(cleaned)
	if err != nil {
		return kernelSignature{}, err
	}
	return kernelSignature{
		entryPoint:    entryPoint,
		workgroupSize: size,
		arguments:     args,
	}, nil
}

// findComputeEntry returns the attribute run of the @compute function with the given name.
func findComputeEntry(cleaned, name string) (string, bool) {
	for _, match := range entryRegex.FindAllStringSubmatch(cleaned, -1) {
		if match[2] == name && computeAttributeRegex.MatchString(match[1]) {
			return match[1], true
		}
	}
	return "", false
}

// parseWorkgroupSize extracts the @workgroup_size(x, y, z) dimensions from an attribute run.
// Omitted dimensions default to 1. Sizes given as override expressions are rejected since
// the local size must be known before dispatch.
//
// Parameters:
//   - attrs: the attributes preceding a compute function
//
// Returns:
//   - [3]uint32: the workgroup size as [x, y, z]
//   - error: error if the size is missing, not a literal, or zero
func parseWorkgroupSize(attrs string) ([3]uint32, error) {
	result := [3]uint32{1, 1, 1}

	match := workgroupSizeRegex.FindStringSubmatch(attrs)
	if match == nil {
		if strings.Contains(attrs, "@workgroup_size") {
			return result, fmt.Errorf("@workgroup_size must use integer literals")
		}
		return result, fmt.Errorf("missing @workgroup_size")
	}

	for i, dim := range match[1:] {
		if dim == "" {
			continue
		}
		v, err := strconv.ParseUint(dim, 10, 32)
		if err != nil || v == 0 {
			return result, fmt.Errorf("invalid workgroup size %q", dim)
		}
		result[i] = uint32(v)
	}
	return result, nil
}

// parseArguments extracts every resource declaration of the source as a kernel argument keyed
// by its binding index. All arguments must live in group 0.
//
// Parameters:
//   - cleaned: WGSL source with comments already stripped
//
// Returns:
//   - map[int]kernelArgument: the arguments keyed by binding index
//   - error: error for arguments outside group 0, duplicate bindings or unsupported types
func parseArguments(cleaned string) (map[int]kernelArgument, error) {
	args := make(map[int]kernelArgument)

	for _, match := range bindGroupDeclRegex.FindAllStringSubmatch(cleaned, -1) {
		group, _ := strconv.Atoi(match[1])
		binding, _ := strconv.Atoi(match[2])
		addressSpace := strings.TrimSpace(match[3])
		name := strings.TrimSpace(match[4])
		typeName := strings.TrimSpace(match[5])

		if group != 0 {
			return nil, fmt.Errorf("argument %s is declared in group %d, kernels bind group 0 only", name, group)
		}
		if prev, ok := args[binding]; ok {
			return nil, fmt.Errorf("arguments %s and %s share binding %d", prev.name, name, binding)
		}

		arg, err := classifyArgument(uint32(binding), addressSpace, typeName)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", name, err)
		}
		arg.name = name
		args[binding] = arg
	}
	return args, nil
}

// classifyArgument creates a kernel argument from a parsed WGSL resource declaration,
// determining whether it is a scalar, a sampled image or a storage image.
//
// Parameters:
//   - binding: the binding index from @binding(N)
//   - addressSpace: the address space qualifier, empty for handle types
//   - typeName: the WGSL type string (e.g. "f32", "texture_2d<f32>")
//
// Returns:
//   - kernelArgument: the argument with a populated layout entry
//   - error: error if the declaration cannot carry a positional argument
func classifyArgument(binding uint32, addressSpace, typeName string) (kernelArgument, error) {
	arg := kernelArgument{
		typeName: typeName,
		entry: wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: wgpu.ShaderStageCompute,
		},
	}

	switch {
	case addressSpace == "uniform":
		if !wgslScalarTypes[typeName] {
			return arg, fmt.Errorf("uniform type %s is not a 32-bit scalar", typeName)
		}
		arg.kind = argumentScalar
		arg.entry.Buffer.Type = wgpu.BufferBindingTypeUniform
		arg.entry.Buffer.MinBindingSize = 4
		return arg, nil
	case addressSpace != "":
		return arg, fmt.Errorf("address space %q is not supported", addressSpace)
	case strings.HasPrefix(typeName, "texture_storage_"):
		return arg, classifyStorageTexture(typeName, &arg)
	case strings.HasPrefix(typeName, "texture_"):
		return arg, classifySampledTexture(typeName, &arg)
	default:
		return arg, fmt.Errorf("type %s is not supported", typeName)
	}
}

// classifySampledTexture parses a sampled texture type (e.g. "texture_2d<f32>") into a
// read-only image argument
func classifySampledTexture(typeName string, arg *kernelArgument) error {
	base, param := splitTypeParams(typeName)

	dim, ok := wgslSampledTextureMap[base]
	if !ok {
		return fmt.Errorf("texture type %s is not supported", typeName)
	}
	if param != "f32" {
		return fmt.Errorf("texture type %s must sample f32", typeName)
	}
	arg.kind = argumentTexture
	arg.dimension = dim
	arg.access = compute.AccessRead
	arg.format = wgpu.TextureFormatRGBA8Unorm
	arg.entry.Texture.SampleType = wgpu.TextureSampleTypeFloat
	arg.entry.Texture.ViewDimension = viewDimensionMap[dim]
	return nil
}

// classifyStorageTexture parses a storage texture type (e.g. "texture_storage_2d<rgba8unorm, write>")
// into an image argument with the declared access mode
func classifyStorageTexture(typeName string, arg *kernelArgument) error {
	base, params := splitTypeParams(typeName)

	dim, ok := wgslStorageTextureMap[base]
	if !ok {
		return fmt.Errorf("storage texture type %s is not supported", typeName)
	}

	parts := strings.SplitN(params, ",", 2)
	if len(parts) != 2 {
		return fmt.Errorf("storage texture type %s needs a format and an access mode", typeName)
	}
	formatStr := strings.TrimSpace(parts[0])
	format, ok := wgslTexelFormatMap[formatStr]
	if !ok {
		return fmt.Errorf("unknown texel format %s", formatStr)
	}
	if formatStr != interopFormat {
		return fmt.Errorf("texel format %s cannot mirror a GL texture, use %s", formatStr, interopFormat)
	}
	access, ok := wgslStorageAccessMap[strings.TrimSpace(parts[1])]
	if !ok {
		return fmt.Errorf("unknown access mode %s", strings.TrimSpace(parts[1]))
	}

	arg.kind = argumentStorageTexture
	arg.dimension = dim
	arg.access = access
	arg.format = format
	arg.entry.StorageTexture.Access = storageAccessMap[access]
	arg.entry.StorageTexture.Format = format
	arg.entry.StorageTexture.ViewDimension = viewDimensionMap[dim]
	return nil
}

// splitTypeParams splits a WGSL parameterized type into its base name and parameter string.
// For "texture_2d<f32>" returns ("texture_2d", "f32").
//
// Parameters:
//   - typeName: the WGSL type string to split
//
// Returns:
//   - base: the type name before the first angle bracket
//   - params: the content between angle brackets, or empty if none
func splitTypeParams(typeName string) (base string, params string) {
	before, after, ok := strings.Cut(typeName, "<")
	if !ok {
		return typeName, ""
	}
	return before, strings.TrimSpace(strings.TrimSuffix(after, ">"))
}

// stripComments removes both single-line (//) and nested block (/* */) comments from WGSL source.
func stripComments(source string) string {
	var sb strings.Builder
	sb.Grow(len(source))
	depth := 0
	for i := 0; i < len(source); i++ {
		if i+1 < len(source) {
			switch {
			case source[i] == '/' && source[i+1] == '*':
				depth++
				i++
				continue
			case source[i] == '*' && source[i+1] == '/' && depth > 0:
				depth--
				i++
				continue
			case source[i] == '/' && source[i+1] == '/' && depth == 0:
				for i < len(source) && source[i] != '\n' {
					i++
				}
				if i < len(source) {
					sb.WriteByte('\n')
				}
				continue
			}
		}
		if depth == 0 {
			sb.WriteByte(source[i])
		}
	}
	return sb.String()
}
