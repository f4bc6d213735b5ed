// Package compdb parses a JSON compilation database (compile_commands.json),
// the clang tooling format that tells the engine which files exist and
// which flags to parse them with (spec.md §6's "backing compilation
// database").
package compdb

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Command is a single compilation database entry: one source file, the
// directory its command line is relative to, and either a pre-split
// Arguments list or a single Command string to be split ourselves.
type Command struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Arguments []string `json:"arguments,omitempty"`
	Command   string   `json:"command,omitempty"`
	Output    string   `json:"output,omitempty"`
}

// AbsFile resolves File against Directory, the way a tool consuming the
// database is expected to.
func (c Command) AbsFile() string {
	if filepath.IsAbs(c.File) {
		return c.File
	}

	return filepath.Join(c.Directory, c.File)
}

// Args returns the compiler invocation as an argument slice, splitting
// Command on whitespace if Arguments wasn't provided. This is a
// best-effort split: a database using Command (rather than Arguments) with
// quoted or escaped arguments is not fully supported, matching the
// JSONCompilationDatabase spec's recommendation to prefer "arguments".
func (c Command) Args() []string {
	if len(c.Arguments) > 0 {
		return c.Arguments
	}

	return strings.Fields(c.Command)
}

// Load parses the compilation database at path.
func Load(path string) ([]Command, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compilation database %s: %w", path, err)
	}

	var cmds []Command
	if err := json.Unmarshal(data, &cmds); err != nil {
		return nil, fmt.Errorf("parse compilation database %s: %w", path, err)
	}

	return cmds, nil
}
