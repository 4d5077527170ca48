package modify

import (
	"path"
	"slices"
	"strings"

	"github.com/raymyers/glslmod/pkg/glsl"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// nextStage maps a shader stage extension to the stage after it
var nextStage = map[string]string{
	".vsh": ".gsh",
	".gsh": ".fsh",
}

// NextStage returns the shader that consumes the outputs of shaderID: the
// nearest later stage with the same base name for which exists reports
// true. A vertex shader without a geometry stage feeds the fragment stage.
func NextStage(shaderID string, exists func(shaderID string) bool) (string, bool) {
	ext := path.Ext(shaderID)
	base := strings.TrimSuffix(shaderID, ext)
	for {
		next, ok := nextStage[ext]
		if !ok {
			return "", false
		}
		if exists(base + next) {
			return base + next, true
		}
		ext = next
	}
}

// PropagateOutputs declares the outputs of every Simple and Vertex
// modification as inputs of the next stage (see NextStage). Each output
// becomes an Input with the same ID and priority, its out qualifiers turned
// into in. Replaced stages are skipped. Call it once, after everything is
// registered; failures are combined.
func (m *Manager) PropagateOutputs(exists func(shaderID string) bool) error {
	var err error
	for _, shader := range m.Shaders() {
		next, ok := NextStage(shader, exists)
		if !ok {
			continue
		}
		for _, mod := range m.Modifications(shader) {
			output := outputOf(mod)
			if output == "" {
				continue
			}
			if m.replaced(next) {
				m.logger.Debug("skipped output of replaced stage",
					zap.String("shader", next),
					zap.String("modification", mod.ID()))
				continue
			}
			source, perr := stageInputs(output)
			if perr != nil {
				err = multierr.Append(err, &Error{ShaderID: shader, ModificationID: mod.ID(), Err: perr})
				continue
			}
			if rerr := m.Register(next, &Input{Base: Base{mod.ID(), mod.Priority()}, Source: source}); rerr != nil {
				err = multierr.Append(err, rerr)
				continue
			}
			m.logger.Debug("propagated output",
				zap.String("shader", shader),
				zap.String("next", next),
				zap.String("modification", mod.ID()))
		}
	}
	return err
}

func (m *Manager) replaced(shaderID string) bool {
	mods := m.Modifications(shaderID)
	if len(mods) == 0 {
		return false
	}
	_, ok := mods[0].(*Replace)
	return ok
}

func outputOf(mod Modification) string {
	switch m := mod.(type) {
	case *Simple:
		return m.Output
	case *Vertex:
		return m.Output
	}
	return ""
}

// stageInputs renders an output snippet with its out declarations turned
// into in declarations
func stageInputs(output string) (string, error) {
	snippet, err := parseDecls(output, Identity)
	if err != nil {
		return "", err
	}
	snippet.OutputsToInputs()
	lines := slices.Clone(snippet.Directives)
	for _, item := range snippet.Body {
		lines = append(lines, glsl.Source(item))
	}
	return strings.Join(lines, "\n"), nil
}
