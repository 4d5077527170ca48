package cpp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MacroKind distinguishes object-like, function-like and builtin macros.
type MacroKind int

const (
	MacroObject MacroKind = iota
	MacroFunction
	MacroBuiltin
)

// Macro is one #define.
type Macro struct {
	Name        string
	Kind        MacroKind
	Params      []string
	Replacement []Token
	BuiltinFunc func(loc SourceLoc) []Token
}

// Text returns the replacement list as written, without surrounding space.
func (m *Macro) Text() string {
	return strings.TrimSpace(TokensToString(m.Replacement))
}

// MacroTable holds the macros in scope.
type MacroTable struct {
	macros map[string]*Macro
}

// NewMacroTable creates a table holding the GLSL builtin macros __LINE__
// and __FILE__.
func NewMacroTable() *MacroTable {
	mt := &MacroTable{macros: make(map[string]*Macro)}
	mt.macros["__LINE__"] = &Macro{
		Name: "__LINE__",
		Kind: MacroBuiltin,
		BuiltinFunc: func(loc SourceLoc) []Token {
			return []Token{{Type: PP_NUMBER, Text: strconv.Itoa(loc.Line), Loc: loc}}
		},
	}
	// a single source string is always string number 0
	mt.macros["__FILE__"] = &Macro{
		Name: "__FILE__",
		Kind: MacroBuiltin,
		BuiltinFunc: func(loc SourceLoc) []Token {
			return []Token{{Type: PP_NUMBER, Text: "0", Loc: loc}}
		},
	}
	return mt
}

// Lookup returns the macro named name, or nil.
func (mt *MacroTable) Lookup(name string) *Macro {
	return mt.macros[name]
}

// IsDefined reports whether name is a macro.
func (mt *MacroTable) IsDefined(name string) bool {
	_, ok := mt.macros[name]
	return ok
}

// Define adds or replaces a macro. Builtin macros cannot be redefined.
func (mt *MacroTable) Define(m *Macro) error {
	if old, ok := mt.macros[m.Name]; ok && old.Kind == MacroBuiltin {
		return fmt.Errorf("cannot redefine builtin macro %s", m.Name)
	}
	if strings.HasPrefix(m.Name, "GL_") && m.Kind != MacroObject {
		return fmt.Errorf("macro names beginning with GL_ are reserved: %s", m.Name)
	}
	mt.macros[m.Name] = m
	return nil
}

// DefineSimple defines an object-like macro from replacement text.
func (mt *MacroTable) DefineSimple(name, value string) error {
	var repl []Token
	for _, tok := range NewLexer(value).AllTokens() {
		if tok.Type == PP_EOF || tok.Type == PP_NEWLINE {
			break
		}
		repl = append(repl, tok)
	}
	return mt.Define(&Macro{Name: name, Kind: MacroObject, Replacement: trimWhitespace(repl)})
}

// Undefine removes a macro. Builtin macros stay defined.
func (mt *MacroTable) Undefine(name string) {
	if m, ok := mt.macros[name]; ok && m.Kind != MacroBuiltin {
		delete(mt.macros, name)
	}
}

// Names returns the names of the user macros in sorted order.
func (mt *MacroTable) Names() []string {
	var names []string
	for name, m := range mt.macros {
		if m.Kind != MacroBuiltin {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// DefineFromDirective defines the macro described by a #define directive.
func (mt *MacroTable) DefineFromDirective(dir *Directive) error {
	m := &Macro{Name: dir.Identifier, Kind: MacroObject, Replacement: trimWhitespace(dir.Body)}
	if dir.FunctionLike {
		m.Kind = MacroFunction
		m.Params = dir.Params
	}
	return mt.Define(m)
}
