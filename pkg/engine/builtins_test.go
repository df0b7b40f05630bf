package engine

import (
	"testing"

	"github.com/chazu/meshdump/pkg/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"simple keyword", `(sphere :radius 4)`, `(sphere "__kw_radius" 4)`},
		{"multiple keywords", `(cylinder :height 4 :radius 1)`, `(cylinder "__kw_height" 4 "__kw_radius" 1)`},
		{"keyword in string preserved", `"thing with :keyword inside"`, `"thing with :keyword inside"`},
		{"escaped quote in string", `"a \" :b" :c`, `"a \" :b" "__kw_c"`},
		{"backtick string preserved", "`raw :kw`", "`raw :kw`"},
		{"assignment operator preserved", `(def x := 10)`, `(def x := 10)`},
		{"kebab-case identifier", `(color-channel "Wear")`, `(color_channel "Wear")`},
		{"minus operator preserved", `(- 10 5)`, `(- 10 5)`},
		{"negative literal preserved", `(vec3 -1 0 0)`, `(vec3 -1 0 0)`},
		{"comment converted to // style", `;; comment with :keyword`, `// comment with :keyword`},
		{"single semicolon comment", `; simple comment`, `// simple comment`},
		{"hyphen in keyword preserved", `:head-dia`, `"__kw_head-dia"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}

func evalScene(t *testing.T, source string) *scene.Scene {
	t.Helper()
	sc, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	require.NotNil(t, sc)
	return sc
}

func evalErrors(t *testing.T, source string) []EvalError {
	t.Helper()
	sc, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	assert.Nil(t, sc)
	require.NotEmpty(t, evalErrs)
	return evalErrs
}

func TestBoxForms(t *testing.T) {
	sc := evalScene(t, `
(part "a" (box 600 300 18))
(part "b" (box :size (vec3 1 2 3)))
`)
	require.Equal(t, 2, sc.PartCount())
	assert.Equal(t, scene.ShapeBox, sc.Parts[0].Shape.Kind)
	assert.Equal(t, mgl64.Vec3{600, 300, 18}, sc.Parts[0].Shape.Size)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, sc.Parts[1].Shape.Size)
}

func TestPartPlacementAndColor(t *testing.T) {
	sc := evalScene(t, `
; a rotated, colored shelf
(def thickness 19)
(part "shelf" (box 400 200 thickness)
      :at (vec3 10 -5 2.5)
      :rotate (vec3 0 0 90)
      :color (rgba 1 0.5 0))
(part "knob" (sphere :radius 6) :color "#0000ff80")
`)
	shelf := sc.Lookup("shelf")
	require.NotNil(t, shelf)
	assert.Equal(t, mgl64.Vec3{400, 200, 19}, shelf.Shape.Size)
	assert.Equal(t, mgl64.Vec3{10, -5, 2.5}, shelf.Translation)
	assert.Equal(t, mgl64.Vec3{0, 0, 90}, shelf.Rotation)
	require.NotNil(t, shelf.Color)
	assert.Equal(t, mgl32.Vec4{1, 0.5, 0, 1}, *shelf.Color)

	knob := sc.Lookup("knob")
	require.NotNil(t, knob)
	assert.Equal(t, scene.ShapeSphere, knob.Shape.Kind)
	assert.InDelta(t, 128.0/255, float64((*knob.Color)[3]), 1e-6)
}

func TestBooleanBuiltins(t *testing.T) {
	sc := evalScene(t, `
(def slab (box 40 40 10))
(part "drilled" (difference slab (cylinder :height 30 :radius 4) (sphere :radius 2)))
(part "both" (intersection slab (sphere :radius 30)))
(part "joined" (union slab (box 5 5 50)))
`)
	require.Equal(t, 3, sc.PartCount())

	drilled := sc.Lookup("drilled").Shape
	assert.Equal(t, scene.ShapeDifference, drilled.Kind)
	require.Len(t, drilled.Operands, 3)
	assert.Equal(t, scene.ShapeCylinder, drilled.Operands[1].Kind)
	assert.Equal(t, 4.0, drilled.Operands[1].Radius)

	assert.Equal(t, scene.ShapeIntersection, sc.Lookup("both").Shape.Kind)
	assert.Equal(t, scene.ShapeUnion, sc.Lookup("joined").Shape.Kind)
}

func TestColorChannel(t *testing.T) {
	sc := evalScene(t, `
(color-channel "Wear")
(part "a" (box 1 1 1))
`)
	assert.Equal(t, "Wear", sc.ColorChannel)
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"vec3 arity", `(vec3 1 2)`},
		{"vec3 non-number", `(vec3 1 2 "x")`},
		{"rgba out of range", `(rgba 2 0 0)`},
		{"box missing size", `(box)`},
		{"box negative", `(box -1 2 3)`},
		{"cylinder missing radius", `(cylinder :height 2)`},
		{"sphere zero", `(sphere :radius 0)`},
		{"union single operand", `(union (box 1 1 1))`},
		{"difference non-shape", `(difference (box 1 1 1) 4)`},
		{"part missing shape", `(part "a")`},
		{"part bad shape", `(part "a" 12)`},
		{"part duplicate", `(part "a" (box 1 1 1)) (part "a" (box 1 1 1))`},
		{"part bad color", `(part "a" (box 1 1 1) :color "#zzz")`},
		{"part bad placement", `(part "a" (box 1 1 1) :at 4)`},
		{"color-channel empty", `(color-channel "")`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evalErrors(t, tt.source)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}

func TestArithmeticInsideBuiltins(t *testing.T) {
	sc := evalScene(t, `
(def w 100)
(part "half" (box (/ w 2) (* 2 w) (+ 1 2)))
`)
	assert.Equal(t, mgl64.Vec3{50, 200, 3}, sc.Parts[0].Shape.Size)
}
