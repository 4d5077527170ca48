package cpp

import (
	"errors"
	"strings"
	"testing"
)

func TestPreprocessConditionalAndDefine(t *testing.T) {
	source := "#version 330 core\n" +
		"#define COLOR vec4(1.0)\n" +
		"#ifdef MISSING\n" +
		"float a;\n" +
		"#else\n" +
		"float b;\n" +
		"#endif\n" +
		"out vec4 c = COLOR;\n"
	want := "#version 330 core\n" +
		"\n\n\n\n" +
		"float b;\n" +
		"\n" +
		"out vec4 c = vec4(1.0);\n"

	got, err := PreprocessString(source, nil)
	if err != nil {
		t.Fatalf("PreprocessString error: %v", err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestPreprocessKeepsLineCount(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"continued define", "#define A 1 + \\\n 2\nint x = A;\n"},
		{"skipped group", "#if 0\nfloat a;\nfloat b;\n#endif\nfloat c;\n"},
		{"block comment", "float a; /* one\ntwo\nthree */ float b;\n"},
		{"invocation across lines", "#define ADD(a, b) a + b\nfloat x = ADD(1,\n 2);\nfloat y;\n"},
		{"no trailing newline", "#define A 1\nint x = A;"},
		{"trailing directives", "float a;\n#define A\n#undef A\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PreprocessString(tt.source, nil)
			if err != nil {
				t.Fatalf("PreprocessString error: %v", err)
			}
			if n, want := strings.Count(got, "\n"), strings.Count(tt.source, "\n"); n != want {
				t.Errorf("got %d lines in %q, want %d", n, got, want)
			}
		})
	}
}

func TestPreprocessOutput(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		defines  map[string]string
		expected string
	}{
		{
			name:     "continued define",
			source:   "#define A 1 + \\\n 2\nint x = A;\n",
			expected: "int x = 1 + 2;",
		},
		{
			name:     "invocation across lines",
			source:   "#define ADD(a, b) a + b\nfloat x = ADD(1,\n 2);\nfloat y;\n",
			expected: "float x = 1 + 2 ; float y;",
		},
		{
			name:     "undef",
			source:   "#define A 1\n#undef A\nA\n",
			expected: "A",
		},
		{
			name:     "predefined macro in condition",
			source:   "#if FOO > 1\nyes\n#else\nno\n#endif\n",
			defines:  map[string]string{"FOO": "2"},
			expected: "yes",
		},
		{
			name:     "line number",
			source:   "float a;\nint l = __LINE__;\n",
			expected: "float a; int l = 2;",
		},
		{
			name:     "passthrough directives",
			source:   "#version 150\n#extension GL_ARB_foo : enable\n#pragma optimize(off)\n#line 10\n",
			expected: "#version 150 #extension GL_ARB_foo : enable #pragma optimize(off) #line 10",
		},
		{
			name:     "passthrough directive not expanded",
			source:   "#define GL_ARB_foo bar\n#extension GL_ARB_foo : enable\n",
			expected: "#extension GL_ARB_foo : enable",
		},
		{
			name:     "passthrough skipped in inactive group",
			source:   "#if 0\n#extension GL_ARB_foo : enable\n#endif\n",
			expected: "",
		},
		{
			name:     "unknown directive in inactive group",
			source:   "#ifdef X\n#foo\n#endif\nok\n",
			expected: "ok",
		},
		{
			name:     "empty directive",
			source:   "#\nok\n",
			expected: "ok",
		},
		{
			name:     "include is kept",
			source:   "#include \"common.glsl\"\n",
			expected: "#include \"common.glsl\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PreprocessString(tt.source, tt.defines)
			if err != nil {
				t.Fatalf("PreprocessString error: %v", err)
			}
			if got := normalizeWhitespace(got); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestPreprocessErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		line   int
		errMsg string
	}{
		{"error directive", "#version 330\n\n#error broken shader\n", 3, "#error broken shader"},
		{"unterminated conditional", "#ifdef A\nfloat x;\n", 3, "unterminated conditional"},
		{"unknown directive", "float a;\n#foo\n", 2, "invalid preprocessing directive #foo"},
		{"endif without if", "#endif\n", 1, "#endif without #if"},
		{"redefine builtin", "#define __LINE__ 3\n", 1, "cannot redefine builtin"},
		{"bad argument count", "#define F(a) a\n\nF(1, 2)\n", 3, "requires 1 arguments, got 2"},
		{"duplicate parameter", "#define F(a, a) a\n", 1, "duplicate macro parameter"},
		{"missing macro name", "#ifdef\n#endif\n", 1, "no macro name given"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PreprocessString(tt.source, nil)
			if err == nil {
				t.Fatalf("expected error containing %q, got nil", tt.errMsg)
			}
			var ppErr *Error
			if !errors.As(err, &ppErr) {
				t.Fatalf("error %v is not a *Error", err)
			}
			if ppErr.Line != tt.line {
				t.Errorf("error at line %d, want %d", ppErr.Line, tt.line)
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.errMsg)
			}
		})
	}
}

func TestPreprocessDefinesPersist(t *testing.T) {
	mt := NewMacroTable()
	if _, err := NewPreprocessor(mt).Preprocess("#define SIZE 4\n#define DROP\n#undef DROP\n"); err != nil {
		t.Fatalf("Preprocess error: %v", err)
	}
	if got := mt.Lookup("SIZE"); got == nil || got.Text() != "4" {
		t.Errorf("SIZE = %v, want 4", got)
	}
	if mt.IsDefined("DROP") {
		t.Error("DROP still defined")
	}
}
