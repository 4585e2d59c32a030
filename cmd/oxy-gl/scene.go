package main

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/Carmen-Shannon/oxy-gl/common"
	"github.com/Carmen-Shannon/oxy-gl/engine"
	"github.com/Carmen-Shannon/oxy-gl/engine/camera"
	"github.com/Carmen-Shannon/oxy-gl/engine/compute"
	"github.com/Carmen-Shannon/oxy-gl/engine/compute/wgpu_driver"
	"github.com/Carmen-Shannon/oxy-gl/engine/config"
	"github.com/Carmen-Shannon/oxy-gl/engine/light"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/graphics"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/texture"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	timeArgument  = 0
	readArgument  = 1
	writeArgument = 2
)

// kernel is one compute resource with the images it reads and writes.
type kernel struct {
	resource compute.Resource
	input    texture.Texture
	output   texture.Texture
}

// drawable is a linked material with the parameters only it uses.
type drawable struct {
	material material.Material
	params   *material.ParameterGroup
}

// scene owns every GPU object of the app and is the engine's only layer.
type scene struct {
	ctx graphics.Context

	camera camera.Camera
	lights []light.PointLight
	frame  *material.ParameterGroup

	kernels   []*kernel
	drawables []drawable
	quad      *fullscreenTriangle

	elapsed float32
	state   int32
	paused  bool
}

var _ engine.Layer = &scene{}

func newScene(ctx graphics.Context, cfg *config.Config, width, height int) (*scene, error) {
	s := &scene{
		ctx:   ctx,
		frame: material.NewParameterGroup(),
		camera: camera.NewCamera(
			camera.WithPosition(0, 0, 3),
			camera.WithAspect(aspect(width, height)),
		),
		lights: []light.PointLight{
			light.NewPointLight(0, light.WithPosition(2, 2, 2), light.WithColor(1, 0.9, 0.8)),
			light.NewPointLight(1, light.WithPosition(-2, -1, 2), light.WithColor(0.2, 0.3, 0.8)),
		},
		quad: newFullscreenTriangle(),
	}
	s.frame.SetScreenSize(float32(width), float32(height))

	if err := s.buildKernels(cfg); err != nil {
		s.Release()
		return nil, err
	}
	if err := s.buildMaterials(cfg); err != nil {
		s.Release()
		return nil, err
	}
	return s, nil
}

func (s *scene) buildKernels(cfg *config.Config) error {
	for _, kc := range cfg.Kernels {
		kinds, err := kc.DevicePreference()
		if err != nil {
			return err
		}
		size := kc.GlobalWorkSize()
		res, err := compute.NewResource(
			wgpu_driver.NewDriver(s.ctx, wgpu_driver.WithLabel(kc.Name)),
			kc.Path, kc.Entry, size, kc.Dimensions,
			compute.WithLabel(kc.Name),
			compute.WithSourceDir(cfg.KernelDir),
			compute.WithDevicePreference(kinds...),
		)
		if err != nil {
			return fmt.Errorf("kernel %q: %w", kc.Name, err)
		}
		k := &kernel{resource: res}
		s.kernels = append(s.kernels, k)

		w, h, d := int32(size[0]), int32(size[1]), int32(size[2])
		if kc.Dimensions == 3 {
			k.input = texture.NewTexture3D(s.ctx, w, h, d, checkerboard(w, h, d), texture.WithName(kc.Name+".input"))
			k.output = texture.NewTexture3D(s.ctx, w, h, d, nil, texture.WithName(kc.Name+".output"))
			err = errors.Join(
				res.SetReadImage3DArgument(readArgument, k.input.Handle()),
				res.SetWriteImage3DArgument(writeArgument, k.output.Handle()),
			)
		} else {
			k.input = texture.NewTexture2D(s.ctx, w, h, checkerboard(w, h, 1), texture.WithName(kc.Name+".input"))
			k.output = texture.NewTexture2D(s.ctx, w, h, nil, texture.WithName(kc.Name+".output"))
			err = errors.Join(
				res.SetReadImage2DArgument(readArgument, k.input.Handle()),
				res.SetWriteImage2DArgument(writeArgument, k.output.Handle()),
			)
		}
		if err != nil {
			return fmt.Errorf("kernel %q images: %w", kc.Name, err)
		}
	}
	return nil
}

func (s *scene) buildMaterials(cfg *config.Config) error {
	var sources []shader.StageSource
	for _, mc := range cfg.Materials {
		for _, st := range stagesOf(mc) {
			sources = append(sources, shader.StageSource{
				Key:  mc.Name + "." + st.suffix,
				Type: st.stage,
				Path: resolve(cfg.ShaderDir, st.path),
			})
		}
	}
	shaders, err := shader.LoadStages(s.ctx, sources, cfg.Workers)
	if err != nil {
		return err
	}
	// Programs keep their own reference to linked stages.
	defer func() {
		for _, sh := range shaders {
			sh.Release()
		}
	}()

	byKey := make(map[string]shader.Shader, len(shaders))
	for _, sh := range shaders {
		byKey[sh.Key()] = sh
	}

	var image texture.Texture
	for _, k := range s.kernels {
		if k.output.Target() == graphics.Texture2D {
			image = k.output
			break
		}
	}

	for _, mc := range cfg.Materials {
		opts := []material.MaterialBuilderOption{material.WithName(mc.Name)}
		if sh, ok := byKey[mc.Name+".geom"]; ok {
			opts = append(opts, material.WithGeometryShader(sh))
		}
		if sh, ok := byKey[mc.Name+".tesc"]; ok {
			opts = append(opts, material.WithTessControlShader(sh))
		}
		if sh, ok := byKey[mc.Name+".tese"]; ok {
			opts = append(opts, material.WithTessEvaluationShader(sh))
		}
		m := material.NewMaterial(s.ctx, byKey[mc.Name+".vert"], byKey[mc.Name+".frag"], opts...)

		params := material.NewParameterGroup()
		if image != nil {
			params.Set("image", material.Sampler2D(image))
		}
		s.drawables = append(s.drawables, drawable{material: m, params: params})
	}
	return nil
}

type stageFile struct {
	suffix string
	stage  shader.ShaderType
	path   string
}

func stagesOf(mc config.Material) []stageFile {
	stages := []stageFile{
		{"vert", shader.ShaderTypeVertex, mc.Vertex},
		{"frag", shader.ShaderTypeFragment, mc.Fragment},
		{"geom", shader.ShaderTypeGeometry, mc.Geometry},
		{"tesc", shader.ShaderTypeTessControl, mc.TessControl},
		{"tese", shader.ShaderTypeTessEvaluation, mc.TessEvaluation},
	}
	out := stages[:0]
	for _, st := range stages {
		if st.path != "" {
			out = append(out, st)
		}
	}
	return out
}

func (s *scene) Active() bool {
	return true
}

func (s *scene) Compute(deltaTime float32) error {
	if s.paused {
		return nil
	}
	var errs []error
	for _, k := range s.kernels {
		if err := k.resource.SetFloatArgument(timeArgument, s.elapsed); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := k.resource.Run(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", k.resource.Label(), err))
		}
	}
	return errors.Join(errs...)
}

func (s *scene) Draw(b *material.Binder, deltaTime float32) {
	s.quad.Clear()
	s.camera.WriteParameters(s.frame)
	s.frame.SetPointLights(s.lights...).
		SetModel(mgl32.Ident4()).
		SetState(s.state).
		Set("time", material.Float(s.elapsed))

	for _, d := range s.drawables {
		b.With(d.material, func(session *material.Session) {
			session.Upload(s.frame)
			session.Upload(d.params)
			s.quad.Draw()
		})
	}
}

// Tick advances the animation clock and orbits the first light.
func (s *scene) Tick(deltaTime float32) {
	if s.paused {
		return
	}
	s.elapsed += deltaTime
	angle := float64(s.elapsed)
	s.lights[0].SetPosition(float32(2*math.Cos(angle)), 2, float32(2*math.Sin(angle)))
}

func (s *scene) Resize(width, height int) {
	s.quad.Viewport(width, height)
	s.camera.SetAspect(aspect(width, height))
	s.frame.SetScreenSize(float32(width), float32(height))
}

func (s *scene) Scroll(delta float32) {
	p := s.camera.Position()
	s.camera.SetPosition(p.X(), p.Y(), max(p.Z()-delta*0.25, 0.5))
}

func (s *scene) KeyDown(keyCode uint32) {
	switch {
	case keyCode == common.KeySpace:
		s.paused = !s.paused
		common.Logger().Info("compute paused", "paused", s.paused)
	case keyCode >= common.Key0 && keyCode <= common.Key9:
		s.state = int32(keyCode - common.Key0)
	}
}

// Release frees kernels before the textures they lease.
func (s *scene) Release() {
	for _, d := range s.drawables {
		d.material.Release()
	}
	for _, k := range s.kernels {
		k.resource.Close()
		if k.input != nil {
			k.input.Release()
		}
		if k.output != nil {
			k.output.Release()
		}
	}
	s.quad.Release()
	s.drawables, s.kernels = nil, nil
}

func aspect(width, height int) float32 {
	if height <= 0 {
		return 1
	}
	return float32(width) / float32(height)
}

func resolve(dir, path string) string {
	if dir == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// checkerboard builds an RGBA8 pattern of 8 texel cells.
func checkerboard(w, h, d int32) []byte {
	pixels := make([]byte, 0, int(w*h*d)*4)
	for z := range d {
		for y := range h {
			for x := range w {
				v := byte(40)
				if (x/8+y/8+z/8)%2 == 0 {
					v = 220
				}
				pixels = append(pixels, v, v, v, 255)
			}
		}
	}
	return pixels
}
