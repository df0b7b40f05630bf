package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/meshdump/pkg/scene"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites scene source for zygomys:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords need
//     no global symbols.
//  2. kebab-case identifiers become snake_case (color-channel ->
//     color_channel); zygomys reads a bare hyphen as subtraction.
//  3. ; comments become // comments.
//
// String literals are copied untouched.
func preprocessSource(source string) string {
	b := []byte(source)
	out := make([]byte, 0, len(b)+len(b)/4)

	for i := 0; i < len(b); {
		c := b[i]
		switch {
		case c == '"':
			j := skipQuoted(b, i, '"', true)
			out = append(out, b[i:j]...)
			i = j

		case c == '`':
			j := skipQuoted(b, i, '`', false)
			out = append(out, b[i:j]...)
			i = j

		case c == ';':
			out = append(out, '/', '/')
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				out = append(out, b[i])
				i++
			}

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out = append(out, ':', '=')
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out = append(out, '"')
			out = append(out, kwPrefix...)
			out = append(out, b[i+1:j]...)
			out = append(out, '"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out = append(out, '_')
			i++

		default:
			out = append(out, c)
			i++
		}
	}
	return string(out)
}

// skipQuoted returns the index just past the literal opening at i.
func skipQuoted(b []byte, i int, quote byte, escapes bool) int {
	j := i + 1
	for j < len(b) && b[j] != quote {
		if escapes && b[j] == '\\' && j+1 < len(b) {
			j++
		}
		j++
	}
	if j < len(b) {
		j++
	}
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Custom Sexp types for passing Go values through the zygomys environment
// ---------------------------------------------------------------------------

type sexpVec3 struct {
	vec mgl64.Vec3
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.vec[0], v.vec[1], v.vec[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

type sexpColor struct {
	rgba mgl32.Vec4
}

func (c *sexpColor) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(rgba %g %g %g %g)", c.rgba[0], c.rgba[1], c.rgba[2], c.rgba[3])
}
func (c *sexpColor) Type() *zygo.RegisteredType { return nil }

// sexpShape wraps a shape tree so it can be returned from primitives and
// boolean builtins and consumed by `part`.
type sexpShape struct {
	shape *scene.Shape
}

func (s *sexpShape) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s ...)", s.shape.Kind)
}
func (s *sexpShape) Type() *zygo.RegisteredType { return nil }

type sexpPartRef struct {
	name string
}

func (p *sexpPartRef) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(part %q)", p.name)
}
func (p *sexpPartRef) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i++
		} else {
			result.kw[name] = zygo.SexpNull
		}
	}
	return result
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func toVec3(s zygo.Sexp) (mgl64.Vec3, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.vec, nil
	}
	return mgl64.Vec3{}, fmt.Errorf("expected vec3, got %T (%s)", s, s.SexpString(nil))
}

func toShape(s zygo.Sexp) (*scene.Shape, error) {
	if sh, ok := s.(*sexpShape); ok {
		return sh.shape, nil
	}
	return nil, fmt.Errorf("expected shape, got %T (%s)", s, s.SexpString(nil))
}

// toColor accepts (rgba ...) or a hex string.
func toColor(s zygo.Sexp) (mgl32.Vec4, error) {
	switch v := s.(type) {
	case *sexpColor:
		return v.rgba, nil
	case *zygo.SexpStr:
		return scene.ParseHexColor(v.S)
	}
	return mgl32.Vec4{}, fmt.Errorf("expected color, got %T (%s)", s, s.SexpString(nil))
}

// floatKW reads a required numeric keyword argument.
func floatKW(pa kwArgs, fn, key string) (float64, error) {
	v, ok := pa.kw[key]
	if !ok {
		return 0, fmt.Errorf("%s requires :%s", fn, key)
	}
	f, err := toFloat64(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %s: %w", fn, key, err)
	}
	return f, nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the scene builtins into a zygomys environment.
// They populate sc during evaluation.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that :keyword tokens are converted to recognizable string literals.
func registerBuiltins(env *zygo.Zlisp, sc *scene.Scene) {

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var v mgl64.Vec3
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: component %d: %w", i, err)
			}
			v[i] = f
		}
		return &sexpVec3{vec: v}, nil
	})

	// (rgba 1 0.5 0) or (rgba 1 0.5 0 0.25)
	env.AddFunction("rgba", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 && len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rgba requires 3 or 4 arguments, got %d", len(args))
		}
		c := mgl32.Vec4{0, 0, 0, 1}
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rgba: component %d: %w", i, err)
			}
			if f < 0 || f > 1 {
				return zygo.SexpNull, fmt.Errorf("rgba: component %d = %g outside [0,1]", i, f)
			}
			c[i] = float32(f)
		}
		return &sexpColor{rgba: c}, nil
	})

	// (box :size (vec3 600 300 18)) or (box 600 300 18)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		sh := &scene.Shape{Kind: scene.ShapeBox}
		switch {
		case pa.kw["size"] != nil:
			v, err := toVec3(pa.kw["size"])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("box: size: %w", err)
			}
			sh.Size = v
		case len(pa.positional) == 3:
			for i, a := range pa.positional {
				f, err := toFloat64(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("box: dimension %d: %w", i, err)
				}
				sh.Size[i] = f
			}
		default:
			return zygo.SexpNull, fmt.Errorf("box requires :size or three dimensions")
		}
		if err := sh.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("box: %w", err)
		}
		return &sexpShape{shape: sh}, nil
	})

	// (cylinder :height 50 :radius 10)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		h, err := floatKW(pa, "cylinder", "height")
		if err != nil {
			return zygo.SexpNull, err
		}
		r, err := floatKW(pa, "cylinder", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		sh := &scene.Shape{Kind: scene.ShapeCylinder, Height: h, Radius: r}
		if err := sh.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("cylinder: %w", err)
		}
		return &sexpShape{shape: sh}, nil
	})

	// (sphere :radius 10)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		r, err := floatKW(pa, "sphere", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		sh := &scene.Shape{Kind: scene.ShapeSphere, Radius: r}
		if err := sh.Validate(); err != nil {
			return zygo.SexpNull, fmt.Errorf("sphere: %w", err)
		}
		return &sexpShape{shape: sh}, nil
	})

	// (union a b ...), (difference a b ...), (intersection a b ...)
	booleans := map[string]scene.ShapeKind{
		"union":        scene.ShapeUnion,
		"difference":   scene.ShapeDifference,
		"intersection": scene.ShapeIntersection,
	}
	for fn, kind := range booleans {
		kind := kind
		env.AddFunction(fn, func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			sh := &scene.Shape{Kind: kind}
			for i, a := range args {
				op, err := toShape(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", name, i, err)
				}
				sh.Operands = append(sh.Operands, op)
			}
			if err := sh.Validate(); err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", name, err)
			}
			return &sexpShape{shape: sh}, nil
		})
	}

	// (part "shelf" (box ...) :at (vec3 0 0 19) :rotate (vec3 0 0 90) :color "#aa5500")
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) < 2 {
			return zygo.SexpNull, fmt.Errorf("part requires a name and a shape")
		}

		partName, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		sh, err := toShape(pa.positional[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part %q: %w", partName, err)
		}

		p := &scene.Part{Name: partName, Shape: sh}
		if v, ok := pa.kw["at"]; ok {
			if p.Translation, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: at: %w", partName, err)
			}
		}
		if v, ok := pa.kw["rotate"]; ok {
			if p.Rotation, err = toVec3(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: rotate: %w", partName, err)
			}
		}
		if v, ok := pa.kw["color"]; ok {
			c, err := toColor(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("part %q: color: %w", partName, err)
			}
			p.Color = &c
		}

		if err := sc.AddPart(p); err != nil {
			return zygo.SexpNull, fmt.Errorf("part: %w", err)
		}
		return &sexpPartRef{name: partName}, nil
	})

	// (color-channel "Wear")
	//
	// Registered as "color_channel"; the preprocessor rewrites the hyphen.
	env.AddFunction("color_channel", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("color-channel requires exactly 1 argument, got %d", len(args))
		}
		ch, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("color-channel: %w", err)
		}
		if ch == "" {
			return zygo.SexpNull, fmt.Errorf("color-channel: name must not be empty")
		}
		sc.ColorChannel = ch
		return zygo.SexpNull, nil
	})
}
