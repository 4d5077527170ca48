package modify

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/parser"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Manager holds the modifications registered for each shader and applies
// them. It is safe for concurrent use: runs work on a snapshot of the
// registry, so pipelines for different shaders proceed in parallel.
type Manager struct {
	mu      sync.RWMutex
	shaders map[string][]Modification
	logger  *zap.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates an empty Manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		shaders: make(map[string][]Modification),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Entry pairs a modification with the shader it applies to
type Entry struct {
	ShaderID     string
	Modification Modification
}

// Result is the outcome of Apply. ReplacedBy is set instead of Source when
// the shader is replaced by another one. Macros holds the caller's macros
// plus the object-like macros the shader defines.
type Result struct {
	Source     string
	ReplacedBy string
	Applied    []string
	Macros     map[string]string
}

// Register adds mod to the modifications of shaderID. A Replace cannot share
// a shader with any other modification, and IDs are unique per shader.
func (m *Manager) Register(shaderID string, mod Modification) error {
	if mod == nil {
		return &ConfigurationError{ShaderID: shaderID, Msg: "nil modification"}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.shaders[shaderID]
	for _, other := range existing {
		if other.ID() == mod.ID() {
			return &ConfigurationError{ShaderID: shaderID, Msg: fmt.Sprintf("duplicate modification %s", mod.ID())}
		}
	}
	if len(existing) > 0 {
		if r, ok := mod.(*Replace); ok {
			return &ConfigurationError{ShaderID: shaderID,
				Msg: fmt.Sprintf("replace %s cannot be combined with other modifications", r.ID())}
		}
		if r, ok := existing[0].(*Replace); ok {
			return &ConfigurationError{ShaderID: shaderID,
				Msg: fmt.Sprintf("%s cannot be combined with replace %s", mod.ID(), r.ID())}
		}
	}

	m.shaders[shaderID] = append(existing, mod)
	m.logger.Debug("registered modification",
		zap.String("shader", shaderID),
		zap.String("modification", mod.ID()),
		zap.Int("priority", mod.Priority()))
	return nil
}

// RegisterAll registers every entry and returns all failures combined
func (m *Manager) RegisterAll(entries []Entry) error {
	var err error
	for _, e := range entries {
		err = multierr.Append(err, m.Register(e.ShaderID, e.Modification))
	}
	return err
}

// Modifications returns the modifications of shaderID ordered by ascending
// priority, then by ID
func (m *Manager) Modifications(shaderID string) []Modification {
	m.mu.RLock()
	mods := slices.Clone(m.shaders[shaderID])
	m.mu.RUnlock()

	slices.SortStableFunc(mods, func(a, b Modification) int {
		return cmp.Or(cmp.Compare(a.Priority(), b.Priority()), strings.Compare(a.ID(), b.ID()))
	})
	return mods
}

// Shaders returns the IDs of every shader with registered modifications
func (m *Manager) Shaders() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.shaders))
	for id := range m.shaders {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Clear removes every registered modification
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shaders = make(map[string][]Modification)
}

// Apply runs the modifications of shaderID over source. The source is
// preprocessed with a copy of macros first; macros is never modified, so
// one map can be shared by concurrent calls. A shader without
// modifications is returned unchanged. On error no text is returned.
func (m *Manager) Apply(shaderID, source string, macros map[string]string, params Params) (Result, error) {
	mods := m.Modifications(shaderID)
	if len(mods) == 0 {
		return Result{Source: source}, nil
	}
	if r, ok := mods[0].(*Replace); ok && len(mods) == 1 {
		m.logger.Warn("shader replaced",
			zap.String("shader", shaderID),
			zap.String("modification", r.ID()),
			zap.String("target", r.Target))
		return Result{ReplacedBy: r.Target, Applied: []string{r.ID()}}, nil
	}

	defines := maps.Clone(macros)
	if defines == nil {
		defines = make(map[string]string)
	}
	tree, err := parser.PreprocessParse(source, defines)
	if err != nil {
		return Result{}, m.fail(&Error{ShaderID: shaderID, Err: err})
	}

	applied := make([]string, 0, len(mods))
	for _, mod := range mods {
		if err := mod.Inject(tree, params); err != nil {
			return Result{}, m.fail(&Error{ShaderID: shaderID, ModificationID: mod.ID(), Err: err})
		}
		applied = append(applied, mod.ID())
		m.logger.Debug("applied modification",
			zap.String("shader", shaderID),
			zap.String("modification", mod.ID()),
			zap.Int("priority", mod.Priority()))
	}

	var sb strings.Builder
	if err := glsl.Write(&sb, tree); err != nil {
		return Result{}, m.fail(&Error{ShaderID: shaderID, Err: err})
	}
	return Result{Source: sb.String(), Applied: applied, Macros: defines}, nil
}

func (m *Manager) fail(err *Error) error {
	m.logger.Warn("failed to transform shader",
		zap.String("shader", err.ShaderID),
		zap.String("modification", err.ModificationID),
		zap.Error(err.Err))
	return err
}
