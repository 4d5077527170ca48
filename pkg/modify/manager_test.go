package modify

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/parser"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// recorder appends its ID to a shared log when applied
type recorder struct {
	Base
	mu  *sync.Mutex
	log *[]string
}

func (r *recorder) Inject(*glsl.Tree, Params) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	*r.log = append(*r.log, r.Name)
	return nil
}

func TestApplyPriorityOrder(t *testing.T) {
	var mu sync.Mutex
	var log []string
	m := NewManager()
	for _, b := range []Base{{"c", 10}, {"a", 5}, {"b", 10}, {"d", -1}} {
		if err := m.Register("shader", &recorder{Base: b, mu: &mu, log: &log}); err != nil {
			t.Fatalf("Register(%s): %v", b.Name, err)
		}
	}

	var ids []string
	for _, mod := range m.Modifications("shader") {
		ids = append(ids, mod.ID())
	}
	if got := strings.Join(ids, ","); got != "d,a,b,c" {
		t.Errorf("Modifications order = %s, want d,a,b,c", got)
	}

	res, err := m.Apply("shader", "void main() {}\n", nil, Params{})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if got := strings.Join(log, ","); got != "d,a,b,c" {
		t.Errorf("applied in order %s, want d,a,b,c", got)
	}
	if got := strings.Join(res.Applied, ","); got != "d,a,b,c" {
		t.Errorf("Result.Applied = %s", got)
	}
}

func TestApplyLaterPrioritySeesEarlierResult(t *testing.T) {
	m := NewManager()
	err := m.RegisterAll([]Entry{
		{"basic.fsh", &Input{Base: Base{"late", 20}, Source: "uniform float late;"}},
		{"basic.fsh", &Input{Base: Base{"early", 10}, Source: "uniform float early;"}},
	})
	if err != nil {
		t.Fatalf("RegisterAll error: %v", err)
	}
	res, err := m.Apply("basic.fsh", "void main() {}\n", nil, Params{})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	want := "#version 110\n\nuniform float late;\nuniform float early;\nvoid main() {\n}\n\n"
	if res.Source != want {
		t.Errorf("got:\n%s\nwant:\n%s", res.Source, want)
	}
}

func TestApplyScenarios(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		mod      Modification
		params   Params
		expected string
		check    func(t *testing.T, err error)
	}{
		{
			name:   "simple",
			source: "#version 150\nvoid main() {}\n",
			mod: &Simple{
				Base:      Base{"example:color", 1000},
				Version:   330,
				Output:    "out vec4 FragColor;",
				Functions: []FunctionEdit{{Name: "main", Params: AnyParams, Code: "FragColor = vec4(1.0);"}},
			},
			params:   Params{AllowVersionRaise: true},
			expected: "#version 330 core\n\nout vec4 FragColor;\nvoid main() {\n\tFragColor = vec4(1.0);\n}\n\n",
		},
		{
			name:   "vertex rename",
			source: "#version 330\nlayout(location=0) in vec3 Pos;\nvoid main() {}\n",
			mod: &Vertex{
				Simple: Simple{
					Base:      Base{"example:pos", 1000},
					Functions: []FunctionEdit{{Name: "main", Params: AnyParams, Code: "gl_Position = vec4($(Position), 1.0);"}},
				},
				Attributes: []Attribute{{Index: 0, Type: "vec3", Name: "Position"}},
			},
			expected: "#version 330 core\n\nlayout(location = 0) in vec3 Pos;\nvoid main() {\n\tgl_Position = vec4(Pos, 1.0);\n}\n\n",
		},
		{
			name:   "vertex type mismatch",
			source: "#version 330\nlayout(location=0) in vec4 Pos;\nvoid main() {}\n",
			mod: &Vertex{
				Simple:     Simple{Base: Base{"example:pos", 1000}},
				Attributes: []Attribute{{Index: 0, Type: "vec3", Name: "Position"}},
			},
			check: func(t *testing.T, err error) {
				var mismatch *AttributeTypeMismatchError
				if !errors.As(err, &mismatch) || mismatch.Index != 0 || mismatch.Expected != "vec3" || mismatch.Found != "vec4" {
					t.Errorf("error %v is not the slot 0 vec3/vec4 mismatch", err)
				}
			},
		},
		{
			name:   "target not found",
			source: "float shade(float x) { return x; }\nfloat shade();\nvoid main() {}\n",
			mod: &Simple{
				Base:      Base{"example:shade", 1000},
				Functions: []FunctionEdit{{Name: "shade", Params: 2, Code: "x = 1.0;"}},
			},
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrTargetNotFound) {
					t.Errorf("error %v is not ErrTargetNotFound", err)
				}
			},
		},
		{
			name:   "shader syntax error",
			source: "void main() { x = ; }\n",
			mod:    &Simple{Base: Base{"example:any", 0}},
			check: func(t *testing.T, err error) {
				var pErr *Error
				if !errors.As(err, &pErr) || pErr.ModificationID != "" {
					t.Errorf("error %v should not name a modification", err)
				}
				var synErr *parser.SyntaxError
				if !errors.As(err, &synErr) || synErr.Line != 1 {
					t.Errorf("error %v is not a line 1 *parser.SyntaxError", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			if err := m.Register("shader.vsh", tt.mod); err != nil {
				t.Fatalf("Register error: %v", err)
			}
			res, err := m.Apply("shader.vsh", tt.source, nil, tt.params)
			if tt.check != nil {
				if err == nil {
					t.Fatal("expected an error")
				}
				if res.Source != "" {
					t.Errorf("partial output returned: %q", res.Source)
				}
				var pErr *Error
				if !errors.As(err, &pErr) || pErr.ShaderID != "shader.vsh" {
					t.Errorf("error %v does not name the shader", err)
				}
				tt.check(t, err)
				return
			}
			if err != nil {
				t.Fatalf("Apply error: %v", err)
			}
			if res.Source != tt.expected {
				t.Errorf("got:\n%s\nwant:\n%s", res.Source, tt.expected)
			}
		})
	}
}

func TestApplyErrorContext(t *testing.T) {
	m := NewManager()
	mod := &Simple{Base: Base{"example:broken", 1}, Uniform: "uniform float"}
	if err := m.Register("a.fsh", mod); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	_, err := m.Apply("a.fsh", "void main() {}\n", nil, Params{})
	var pErr *Error
	if !errors.As(err, &pErr) {
		t.Fatalf("error %v is not a *Error", err)
	}
	if pErr.ShaderID != "a.fsh" || pErr.ModificationID != "example:broken" {
		t.Errorf("got %+v", pErr)
	}
	if !strings.HasPrefix(err.Error(), "shader a.fsh: modification example:broken: line 1") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestApplyWithoutModifications(t *testing.T) {
	source := "this is not glsl"
	res, err := NewManager().Apply("missing", source, nil, Params{})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if res.Source != source || res.ReplacedBy != "" {
		t.Errorf("got %+v", res)
	}
}

func TestApplyMacros(t *testing.T) {
	m := NewManager()
	if err := m.Register("s", &Simple{Base: Base{"noop", 0}}); err != nil {
		t.Fatal(err)
	}
	macros := map[string]string{"QUALITY": "2"}
	source := "#define SCALE 2.0\nvoid main() {\n#if QUALITY > 1\n    x = SCALE;\n#endif\n}\n"
	res, err := m.Apply("s", source, macros, Params{})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if !strings.Contains(res.Source, "\tx = 2.0;\n") {
		t.Errorf("macros not applied:\n%s", res.Source)
	}
	if res.Macros["SCALE"] != "2.0" || res.Macros["QUALITY"] != "2" {
		t.Errorf("result macros = %v", res.Macros)
	}
	if len(macros) != 1 || macros["QUALITY"] != "2" {
		t.Errorf("caller macros modified: %v", macros)
	}
}

func TestApplySharedMacros(t *testing.T) {
	m := NewManager()
	if err := m.Register("s", &Simple{Base: Base{"noop", 0}}); err != nil {
		t.Fatal(err)
	}
	macros := map[string]string{"QUALITY": "2"}

	const workers = 16
	var wg sync.WaitGroup
	errs := make([]error, workers)
	results := make([]Result, workers)
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			source := fmt.Sprintf("#define LEVEL%d %d.0\nvoid main() { x = LEVEL%d; }\n", i, i, i)
			results[i], errs[i] = m.Apply("s", source, macros, Params{})
		}()
	}
	wg.Wait()

	for i := range workers {
		if errs[i] != nil {
			t.Fatalf("worker %d: %v", i, errs[i])
		}
		name := fmt.Sprintf("LEVEL%d", i)
		if got := results[i].Macros[name]; got != fmt.Sprintf("%d.0", i) {
			t.Errorf("worker %d: %s = %q", i, name, got)
		}
		if len(results[i].Macros) != 2 {
			t.Errorf("worker %d sees macros of other runs: %v", i, results[i].Macros)
		}
	}
	if len(macros) != 1 {
		t.Errorf("shared macros modified: %v", macros)
	}
}

func TestReplace(t *testing.T) {
	m := NewManager()
	if err := m.Register("a.vsh", &Replace{Base: Base{"swap", 0}, Target: "b.vsh"}); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	res, err := m.Apply("a.vsh", "not parsed at all", nil, Params{})
	if err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	if res.ReplacedBy != "b.vsh" || res.Source != "" {
		t.Errorf("got %+v", res)
	}
}

func TestRegisterConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		first  Modification
		second Modification
	}{
		{"replace after simple", &Simple{Base: Base{"s", 0}}, &Replace{Base: Base{"r", 0}, Target: "x"}},
		{"simple after replace", &Replace{Base: Base{"r", 0}, Target: "x"}, &Simple{Base: Base{"s", 0}}},
		{"two replaces", &Replace{Base: Base{"r1", 0}, Target: "x"}, &Replace{Base: Base{"r2", 0}, Target: "y"}},
		{"duplicate id", &Simple{Base: Base{"s", 0}}, &Input{Base: Base{"s", 1}}},
		{"nil modification", &Simple{Base: Base{"s", 0}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			if err := m.Register("shader", tt.first); err != nil {
				t.Fatalf("first Register error: %v", err)
			}
			err := m.Register("shader", tt.second)
			if !errors.Is(err, ErrConfiguration) {
				t.Fatalf("error %v is not ErrConfiguration", err)
			}
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) || cfgErr.ShaderID != "shader" {
				t.Errorf("error %v does not name the shader", err)
			}
			if n := len(m.Modifications("shader")); n != 1 {
				t.Errorf("%d modifications registered, want 1", n)
			}
		})
	}
}

func TestRegisterAllCombinesErrors(t *testing.T) {
	m := NewManager()
	err := m.RegisterAll([]Entry{
		{"a", &Simple{Base: Base{"s", 0}}},
		{"a", &Replace{Base: Base{"r", 0}, Target: "x"}},
		{"b", &Simple{Base: Base{"s", 0}}},
		{"b", &Simple{Base: Base{"s", 1}}},
		{"c", &Input{Base: Base{"i", 0}}},
	})
	if errs := multierr.Errors(err); len(errs) != 2 {
		t.Fatalf("got %d errors, want 2: %v", len(errs), err)
	}
	if got := strings.Join(m.Shaders(), ","); got != "a,b,c" {
		t.Errorf("Shaders() = %s", got)
	}

	m.Clear()
	if len(m.Shaders()) != 0 {
		t.Errorf("Shaders() after Clear = %v", m.Shaders())
	}
}

func TestManagerLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	m := NewManager(WithLogger(zap.New(core)))
	err := m.RegisterAll([]Entry{
		{"a.fsh", &Simple{Base: Base{"one", 1}}},
		{"a.fsh", &Simple{Base: Base{"two", 2}, Uniform: "uniform"}},
		{"b.fsh", &Replace{Base: Base{"swap", 0}, Target: "c.fsh"}},
	})
	if err != nil {
		t.Fatalf("RegisterAll error: %v", err)
	}
	if n := logs.FilterMessage("registered modification").Len(); n != 3 {
		t.Errorf("%d registration entries, want 3", n)
	}

	if _, err := m.Apply("a.fsh", "void main() {}\n", nil, Params{}); err == nil {
		t.Fatal("expected an error")
	}
	applied := logs.FilterMessage("applied modification").All()
	if len(applied) != 1 || applied[0].ContextMap()["modification"] != "one" {
		t.Errorf("applied entries = %v", applied)
	}
	failed := logs.FilterMessage("failed to transform shader").All()
	if len(failed) != 1 || failed[0].Level != zap.WarnLevel || failed[0].ContextMap()["modification"] != "two" {
		t.Errorf("failure entries = %v", failed)
	}

	if _, err := m.Apply("b.fsh", "", nil, Params{}); err != nil {
		t.Fatalf("Apply error: %v", err)
	}
	replaced := logs.FilterMessage("shader replaced").All()
	if len(replaced) != 1 || replaced[0].ContextMap()["target"] != "c.fsh" {
		t.Errorf("replace entries = %v", replaced)
	}
}

func TestApplyConcurrent(t *testing.T) {
	m := NewManager()
	const shaders = 8
	for i := range shaders {
		mod := &Simple{
			Base:    Base{"uniform", 0},
			Uniform: fmt.Sprintf("uniform float u%d;", i),
		}
		if err := m.Register(fmt.Sprintf("s%d", i), mod); err != nil {
			t.Fatal(err)
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, shaders*4)
	for i := range shaders {
		id := fmt.Sprintf("s%d", i)
		for range 4 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				res, err := m.Apply(id, "void main() {}\n", nil, Params{})
				if err != nil {
					errs <- err
					return
				}
				if want := fmt.Sprintf("uniform float u%d;\n", i); !strings.Contains(res.Source, want) {
					errs <- fmt.Errorf("%s: output %q lacks %q", id, res.Source, want)
				}
			}()
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Register(id+"-extra", &Simple{Base: Base{"extra", 1}}); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
