package glfake

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// The stand-in compiler does not parse GLSL. It catches the mistakes the
// tests make on purpose: unbalanced delimiters, a statement missing its
// semicolon before a closing brace, #error directives, a missing main, and a
// fragment stage that never assigns anything.

var (
	mainRe    = regexp.MustCompile(`\bvoid\s+main\s*\(\s*(void)?\s*\)`)
	uniformRe = regexp.MustCompile(`\buniform\s+(?:(?:lowp|mediump|highp)\s+)?(\w+)\s+(\w+)\s*(?:\[\s*(\d+)\s*\])?\s*;`)
)

// uniformDecl is one `uniform <type> <name>;` declaration.
type uniformDecl struct {
	typ   string
	name  string
	count int
}

// uniformTypes maps a GLSL type to its component count and whether it is
// stored as integers.
var uniformTypes = map[string]struct {
	components int
	integer    bool
}{
	"float":       {1, false},
	"vec2":        {2, false},
	"vec3":        {3, false},
	"vec4":        {4, false},
	"mat3":        {9, false},
	"mat4":        {16, false},
	"int":         {1, true},
	"ivec2":       {2, true},
	"ivec3":       {3, true},
	"ivec4":       {4, true},
	"bool":        {1, true},
	"sampler2D":   {1, true},
	"samplerCube": {1, true},
}

// stripComments blanks out comments, keeping newlines so line numbers hold.
func stripComments(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	for i := 0; i < len(src); i++ {
		switch {
		case strings.HasPrefix(src[i:], "//"):
			for i < len(src) && src[i] != '\n' {
				i++
			}
			if i < len(src) {
				b.WriteByte('\n')
			}
		case strings.HasPrefix(src[i:], "/*"):
			i += 2
			for i < len(src) && !strings.HasPrefix(src[i:], "*/") {
				if src[i] == '\n' {
					b.WriteByte('\n')
				}
				i++
			}
			i++
		default:
			b.WriteByte(src[i])
		}
	}
	return b.String()
}

// stripDirectives blanks out preprocessor lines.
func stripDirectives(src string) string {
	lines := strings.Split(src, "\n")
	for i, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

func compileError(line int, format string, args ...any) string {
	return fmt.Sprintf("0:%d(1): error: %s\n", line, fmt.Sprintf(format, args...))
}

// compile checks src and returns the info log on failure.
func compile(src string) (ok bool, log string) {
	code := stripComments(src)

	for n, l := range strings.Split(code, "\n") {
		t := strings.TrimSpace(l)
		if strings.HasPrefix(t, "#error") {
			return false, compileError(n+1, "%s", strings.TrimSpace(strings.TrimPrefix(t, "#error")))
		}
	}

	code = stripDirectives(code)
	if strings.TrimSpace(code) == "" {
		return false, compileError(1, "syntax error, unexpected end of file")
	}

	pairs := map[byte]byte{')': '(', '}': '{', ']': '['}
	var stack []byte
	line := 1
	var prev byte
	for i := 0; i < len(code); i++ {
		c := code[i]
		switch c {
		case '\n':
			line++
			continue
		case '(', '{', '[':
			stack = append(stack, c)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[c] {
				return false, compileError(line, "syntax error, unexpected '%c'", c)
			}
			stack = stack[:len(stack)-1]
			if c == '}' && prev != 0 && !strings.ContainsRune(";{}", rune(prev)) {
				return false, compileError(line, "syntax error, unexpected '}', expecting ',' or ';'")
			}
		}
		if c != ' ' && c != '\t' && c != '\r' {
			prev = c
		}
	}
	if len(stack) > 0 {
		return false, compileError(line, "syntax error, unexpected end of file")
	}
	return true, ""
}

// hasMain reports whether src defines a main entry point.
func hasMain(src string) bool {
	return mainRe.MatchString(stripComments(src))
}

// writesOutput reports whether the body of main assigns anything.
func writesOutput(src string) bool {
	code := stripDirectives(stripComments(src))
	loc := mainRe.FindStringIndex(code)
	if loc == nil {
		return false
	}
	body := code[loc[1]:]
	for i := 0; i < len(body); i++ {
		if body[i] != '=' {
			continue
		}
		if i+1 < len(body) && body[i+1] == '=' {
			i++
			continue
		}
		if i > 0 && strings.ContainsRune("=!<>", rune(body[i-1])) {
			continue
		}
		return true
	}
	return false
}

// parseUniforms returns the uniform declarations of src in source order.
func parseUniforms(src string) []uniformDecl {
	code := stripComments(src)
	var decls []uniformDecl
	for _, m := range uniformRe.FindAllStringSubmatch(code, -1) {
		d := uniformDecl{typ: m[1], name: m[2], count: 1}
		if m[3] != "" {
			if n, err := strconv.Atoi(m[3]); err == nil && n > 0 {
				d.count = n
			}
		}
		decls = append(decls, d)
	}
	return decls
}

// link checks an attached vertex/fragment pair and lays out its uniforms.
func link(vertex, fragment *shaderObject) (map[string]*uniform, string) {
	switch {
	case vertex == nil:
		return nil, "error: program lacks a vertex shader\n"
	case fragment == nil:
		return nil, "error: program lacks a fragment shader\n"
	case !vertex.compiled || !fragment.compiled:
		return nil, "error: linking with uncompiled/unspecialized shader\n"
	case !hasMain(vertex.source):
		return nil, "error: vertex shader lacks `main'\n"
	case !hasMain(fragment.source):
		return nil, "error: fragment shader lacks `main'\n"
	case !writesOutput(fragment.source):
		return nil, "error: fragment shader does not write to any output\n"
	}

	uniforms := map[string]*uniform{}
	var order []string
	for _, src := range []string{vertex.source, fragment.source} {
		for _, d := range parseUniforms(src) {
			t, known := uniformTypes[d.typ]
			if !known {
				continue
			}
			if u, seen := uniforms[d.name]; seen {
				if u.typ != d.typ {
					return nil, fmt.Sprintf("error: uniform `%s' declared as type `%s' and type `%s'\n", d.name, u.typ, d.typ)
				}
				continue
			}
			u := &uniform{typ: d.typ, integer: t.integer}
			if t.integer {
				u.ints = make([]int32, t.components*d.count)
			} else {
				u.floats = make([]float32, t.components*d.count)
			}
			uniforms[d.name] = u
			order = append(order, d.name)
		}
	}
	// Locations follow declaration order, vertex stage first.
	for i, name := range order {
		uniforms[name].location = int32(i)
	}
	return uniforms, ""
}

// uniformNames returns the uniform names of a program sorted by location.
func uniformNames(uniforms map[string]*uniform) []string {
	names := make([]string, 0, len(uniforms))
	for n := range uniforms {
		names = append(names, n)
	}
	sort.Slice(names, func(i, j int) bool {
		return uniforms[names[i]].location < uniforms[names[j]].location
	})
	return names
}
