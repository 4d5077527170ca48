// Package preproc runs the GLSL preprocessor ahead of parsing. It seeds the
// macro table the way a driver would (__VERSION__ and the profile macro
// taken from the #version line) and reports the macros a shader defines.
package preproc

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/raymyers/glslmod/pkg/cpp"
)

// Error is a preprocessing failure at a source line. Line is 0 when a
// caller supplied macro is invalid.
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

const defaultVersion = 110

// predefined names are never written back to the caller
var predefined = map[string]bool{
	"__VERSION__":              true,
	"GL_core_profile":          true,
	"GL_compatibility_profile": true,
	"GL_es_profile":            true,
}

// Preprocess expands macros and resolves conditionals in source. macros
// seeds the macro table; afterwards every object-like macro the shader
// defined with a non-blank value is written back into it. A nil map is
// treated as empty and receives nothing.
func Preprocess(source string, macros map[string]string) (string, error) {
	mt := cpp.NewMacroTable()
	version, profile := DetectVersion(source)
	mt.DefineSimple("__VERSION__", strconv.Itoa(version))
	mt.DefineSimple("GL_"+profile+"_profile", "1")

	names := make([]string, 0, len(macros))
	for name := range macros {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := mt.DefineSimple(name, macros[name]); err != nil {
			return "", &Error{Msg: err.Error()}
		}
	}

	out, err := cpp.NewPreprocessor(mt).Preprocess(source)
	if err != nil {
		var ppErr *cpp.Error
		if errors.As(err, &ppErr) {
			return "", &Error{Line: ppErr.Line, Msg: ppErr.Msg}
		}
		return "", &Error{Line: 1, Msg: err.Error()}
	}

	if macros != nil {
		for _, name := range mt.Names() {
			m := mt.Lookup(name)
			if predefined[name] || m.Kind != cpp.MacroObject {
				continue
			}
			if value := m.Text(); value != "" {
				macros[name] = value
			}
		}
	}
	return out, nil
}

// DetectVersion returns the number and profile of the first #version
// directive, defaulting to 110 core. Profiles other than compatibility
// and es count as core.
func DetectVersion(source string) (int, string) {
	tokens := significant(source)
	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Type != cpp.PP_HASH || tokens[i+1].Text != "version" {
			continue
		}
		n, err := strconv.Atoi(tokens[i+2].Text)
		if err != nil {
			break
		}
		profile := "core"
		if i+3 < len(tokens) && tokens[i+3].Loc.Line == tokens[i].Loc.Line {
			switch p := tokens[i+3].Text; p {
			case "compatibility", "es":
				profile = p
			}
		}
		return n, profile
	}
	return defaultVersion, "core"
}

func significant(source string) []cpp.Token {
	var tokens []cpp.Token
	for _, tok := range cpp.NewLexer(source).AllTokens() {
		if tok.Type != cpp.PP_WHITESPACE && tok.Type != cpp.PP_NEWLINE && tok.Type != cpp.PP_EOF {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
