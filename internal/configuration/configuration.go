// Package configuration layers flags, a config file, and environment
// variables into a single source of truth via Viper, the way the teacher's
// own configuration package does for its CLI.
package configuration

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// This is the list of the keys available in config files and as flags.
const (
	DreddSilentKey             = "silent"
	MutateNoMutationOptsKey    = "mutate.no-mutation-opts"
	MutateOnlyTrackCoverageKey = "mutate.only-track-mutant-coverage"
	MutateMutationInfoFileKey  = "mutate.mutation-info-file"
	MutateExcludeFilesKey      = "mutate.exclude-files"
	MutateWorkersKey           = "mutate.workers"
	MutateDumpASTsKey          = "mutate.dump-asts"
	MutateShowASTNodeTypesKey  = "mutate.show-ast-node-types"
	MutateCompileCommandsKey   = "mutate.compile-commands"
)

const (
	dreddCfgName      = ".dredd"
	dreddEnvVarPrefix = "DREDD"

	xdgConfigHomeKey = "XDG_CONFIG_HOME"

	windowsOs = "windows"

	compileCommandsFile = "compile_commands.json"
)

// Init initializes the Viper configuration for dredd.
//
// It sets the configuration file name as .dredd.yaml, adds the passed paths as ConfigPaths,
// and enables AutomaticEnv with a DREDD prefix.
// Environment variables take precedence over the configuration file and must be set in the
// format below, with every dot and dash of the key replaced by an underscore
// (DREDD_SILENT, DREDD_MUTATE_WORKERS):
//
//	DREDD_<COMMAND NAME>_<FLAG NAME>
func Init(cPaths []string) error {
	replacer := strings.NewReplacer(".", "_", "-", "_")
	viper.SetEnvKeyReplacer(replacer)
	viper.SetEnvPrefix(dreddEnvVarPrefix)
	viper.AutomaticEnv()
	viper.SetConfigName(dreddCfgName)
	viper.SetConfigType("yaml")

	if isSpecificFile(cPaths) {
		viper.SetConfigFile(cPaths[0])
		err := viper.ReadInConfig()
		if err != nil {
			return err
		}
	} else if arePathsNotSet(cPaths) {
		cPaths = defaultConfigPaths()
	}

	for _, p := range cPaths {
		viper.AddConfigPath(p)
	}

	_ = viper.ReadInConfig() // ignoring error if file not present

	return nil
}

func isSpecificFile(cPaths []string) bool {
	return len(cPaths) == 1 && filepath.Ext(cPaths[0]) != ""
}

func arePathsNotSet(cPaths []string) bool {
	return len(cPaths) == 0 || len(cPaths) == 1 && cPaths[0] == ""
}

func defaultConfigPaths() []string {
	result := make([]string, 0, 4)

	// First global config
	if runtime.GOOS != windowsOs {
		result = append(result, "/etc/dredd")
	}

	// Then $XDG_CONFIG_HOME
	xchLocation, _ := homedir.Expand("~/.config")
	if x := os.Getenv(xdgConfigHomeKey); x != "" {
		xchLocation = x
	}
	xchLocation = filepath.Join(xchLocation, "dredd", "dredd")
	result = append(result, xchLocation)

	// Then $HOME
	homeLocation, err := homedir.Expand("~/.dredd")
	if err != nil {
		return result
	}
	result = append(result, homeLocation)

	// Then the compilation database root, the natural project anchor for a
	// C/C++ tool (the closest ancestor directory carrying a
	// compile_commands.json), in place of a Go module root.
	if root := findCompileCommandsRoot(); root != "" {
		result = append(result, root)
	}

	// Finally the current directory
	result = append(result, ".")

	return result
}

func findCompileCommandsRoot() string {
	path, _ := os.Getwd()
	for {
		if fi, err := os.Stat(filepath.Join(path, compileCommandsFile)); err == nil && !fi.IsDir() {
			return path
		}
		d := filepath.Dir(path)
		if d == path {
			break
		}
		path = d
	}

	return ""
}

var mutex sync.RWMutex

// Set offers synchronised access to Viper.
func Set[T any](k string, v T) {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Set(k, v)
}

// Get offers synchronised access to Viper.
func Get[T any](k string) T {
	var r T
	mutex.RLock()
	defer mutex.RUnlock()
	r, _ = viper.Get(k).(T)

	return r
}

// Reset is used mainly for testing purposes, in order to clean up the Viper
// instance.
func Reset() {
	mutex.Lock()
	defer mutex.Unlock()
	viper.Reset()
}
