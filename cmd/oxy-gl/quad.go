package main

import "github.com/go-gl/gl/v4.1-core/gl"

// fullscreenTriangle draws three vertices without attributes; the vertex stage derives
// positions from gl_VertexID. Core profiles still require a bound vertex array.
type fullscreenTriangle struct {
	vao uint32
}

func newFullscreenTriangle() *fullscreenTriangle {
	t := &fullscreenTriangle{}
	gl.GenVertexArrays(1, &t.vao)
	return t
}

func (t *fullscreenTriangle) Clear() {
	gl.ClearColor(0.05, 0.05, 0.08, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

func (t *fullscreenTriangle) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (t *fullscreenTriangle) Draw() {
	gl.BindVertexArray(t.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}

func (t *fullscreenTriangle) Release() {
	if t.vao != 0 {
		gl.DeleteVertexArrays(1, &t.vao)
		t.vao = 0
	}
}
