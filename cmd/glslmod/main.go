package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/raymyers/glslmod/pkg/config"
	"github.com/raymyers/glslmod/pkg/glsl"
	"github.com/raymyers/glslmod/pkg/modify"
	"github.com/raymyers/glslmod/pkg/parser"
	"github.com/raymyers/glslmod/pkg/preproc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "0.1.0"

// Debug flags
var (
	dParse bool
	dPP    bool // preprocess only
	list   bool
)

// Transform options
var (
	configPath   string
	shaderID     string
	outputPath   string
	defineFlags  []string
	allowVersion bool
	propagate    bool
	verbose      bool
)

func main() {
	os.Exit(run())
}

func run() int {
	rootCmd := newRootCmd(os.Stdout, os.Stderr)
	rootCmd.SetArgs(normalizeFlags(os.Args[1:]))
	if err := rootCmd.Execute(); err != nil {
		return 1
	}
	return 0
}

// singleDashFlags accept the -dparse style as well as --dparse
var singleDashFlags = []string{"dparse", "dpp"}

// normalizeFlags converts single-dash long flags like -dparse to --dparse
func normalizeFlags(args []string) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg
		for _, name := range singleDashFlags {
			if arg == "-"+name {
				result[i] = "--" + name
				break
			}
		}
	}
	return result
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "glslmod [file]",
		Short: "glslmod rewrites GLSL shaders with configured modifications",
		Long: `glslmod parses a GLSL shader, applies the modifications a config
file registers for it in priority order, and writes the resulting source.
Pass - as the file to read the shader from standard input.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := dispatch(cmd, args, out, errOut)
			if err != nil {
				fmt.Fprintf(errOut, "glslmod: %v\n", err)
			}
			return err
		},
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	rootCmd.Flags().BoolVar(&dParse, "dparse", false, "Dump the shader after parsing")
	rootCmd.Flags().BoolVar(&dPP, "dpp", false, "Dump the shader after preprocessing")
	rootCmd.Flags().BoolVar(&list, "list", false, "List the modifications in the config file")

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "Modification config file (.yaml, .yml or .toml)")
	rootCmd.Flags().StringVar(&shaderID, "shader", "", "Shader id to look up in the config (default: file name)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the result to a file instead of stdout")
	rootCmd.Flags().StringArrayVarP(&defineFlags, "define", "D", nil, "Define macro (NAME or NAME=VALUE)")
	rootCmd.Flags().BoolVar(&allowVersion, "allow-version", false, "Allow modifications to raise the #version")
	rootCmd.Flags().BoolVar(&propagate, "propagate-outputs", false, "Declare stage outputs as inputs of the next stage found next to the shader")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each modification as it is applied")

	return rootCmd
}

func dispatch(cmd *cobra.Command, args []string, out, errOut io.Writer) error {
	if list {
		return doList(out)
	}
	if len(args) == 0 {
		cmd.Help()
		return nil
	}
	filename := args[0]

	source, err := readSource(cmd, filename)
	if err != nil {
		return err
	}

	switch {
	case dPP:
		return doPreprocess(source, out)
	case dParse:
		return doParse(source, out)
	}
	return doTransform(filename, source, out, errOut)
}

// buildDefines parses -D flags (NAME or NAME=VALUE)
func buildDefines() map[string]string {
	defines := make(map[string]string)
	for _, d := range defineFlags {
		if name, value, ok := strings.Cut(d, "="); ok {
			defines[name] = value
		} else {
			defines[d] = "1"
		}
	}
	return defines
}

func readSource(cmd *cobra.Command, filename string) (string, error) {
	var content []byte
	var err error
	if filename == "-" {
		content, err = io.ReadAll(cmd.InOrStdin())
	} else {
		content, err = os.ReadFile(filename)
	}
	if err != nil {
		return "", fmt.Errorf("error reading %s: %w", filename, err)
	}
	return string(content), nil
}

// doPreprocess expands macros and conditionals and prints the result (-dpp)
func doPreprocess(source string, out io.Writer) error {
	content, err := preproc.Preprocess(source, buildDefines())
	if err != nil {
		return fmt.Errorf("preprocessing error: %w", err)
	}
	fmt.Fprint(out, content)
	return nil
}

// doParse parses the shader and prints it back (-dparse)
func doParse(source string, out io.Writer) error {
	tree, err := parser.PreprocessParse(source, buildDefines())
	if err != nil {
		return err
	}
	return glsl.Write(out, tree)
}

// loadManager registers the config file's modifications. With
// --propagate-outputs, stages are looked up as files in dir.
func loadManager(logger *zap.Logger, dir string) (*modify.Manager, error) {
	if configPath == "" {
		return nil, errors.New("no config file given (use --config)")
	}
	file, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	m := modify.NewManager(modify.WithLogger(logger))
	if err := file.Register(m); err != nil {
		return nil, err
	}
	if propagate {
		if err := m.PropagateOutputs(stageExists(dir)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func stageExists(dir string) func(string) bool {
	return func(shaderID string) bool {
		info, err := os.Stat(filepath.Join(dir, shaderID))
		return err == nil && !info.IsDir()
	}
}

// doList prints one line per registered modification in application order
func doList(out io.Writer) error {
	m, err := loadManager(zap.NewNop(), filepath.Dir(configPath))
	if err != nil {
		return err
	}
	for _, shader := range m.Shaders() {
		for _, mod := range m.Modifications(shader) {
			fmt.Fprintf(out, "%s\t%d\t%s\t%s\n", shader, mod.Priority(), mod.ID(), kindOf(mod))
		}
	}
	return nil
}

func kindOf(mod modify.Modification) string {
	switch mod.(type) {
	case *modify.Input:
		return config.TypeInput
	case *modify.Vertex:
		return config.TypeVertex
	case *modify.Replace:
		return config.TypeReplace
	case *modify.Simple:
		return config.TypeSimple
	}
	return fmt.Sprintf("%T", mod)
}

// doTransform applies the configured modifications for the shader
func doTransform(filename, source string, out, errOut io.Writer) error {
	logger := newLogger(errOut)
	defer logger.Sync()

	dir := filepath.Dir(filename)
	if filename == "-" {
		dir = filepath.Dir(configPath)
	}
	m, err := loadManager(logger, dir)
	if err != nil {
		return err
	}

	id := shaderID
	if id == "" {
		id = filepath.Base(filename)
	}
	res, err := m.Apply(id, source, buildDefines(), modify.Params{AllowVersionRaise: allowVersion})
	if err != nil {
		return err
	}
	if res.ReplacedBy != "" {
		fmt.Fprintf(errOut, "glslmod: %s is replaced by %s\n", id, res.ReplacedBy)
		return nil
	}

	if outputPath == "" {
		fmt.Fprint(out, res.Source)
		return nil
	}
	if err := os.WriteFile(outputPath, []byte(res.Source), 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", outputPath, err)
	}
	return nil
}

// newLogger logs to errOut at debug level with -v and discards otherwise
func newLogger(errOut io.Writer) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	encoder := zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	core := zapcore.NewCore(encoder, zapcore.AddSync(errOut), zapcore.DebugLevel)
	return zap.New(core)
}
