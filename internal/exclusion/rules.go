// Package exclusion provides source-file exclusion rules based on regex
// patterns, so a compilation database can list files a run should never
// mutate (generated code, vendored headers) without editing the database
// itself.
package exclusion

import (
	"fmt"
	"regexp"

	"github.com/spf13/viper"

	"github.com/dredd-go/dredd/internal/configuration"
)

// Rules represents a collection of regex patterns for file exclusion.
type Rules []*regexp.Regexp

// New creates exclusion rules from the configuration.
func New() (Rules, error) {
	var rules Rules

	// viper.GetStringSlice is used directly rather than configuration.Get,
	// because a value loaded from a YAML config file is []interface{}, not
	// []string, and configuration.Get's type assertion would silently
	// return the zero value for the wrong element type.
	flagValues := viper.GetStringSlice(configuration.MutateExcludeFilesKey)

	for i, s := range flagValues {
		r, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("error in exclude-files param value #%d: %w", i, err)
		}

		rules = append(rules, r)
	}

	return rules, nil
}

// IsFileExcluded returns true if the given path matches any of the exclusion rules.
func (r Rules) IsFileExcluded(path string) bool {
	if len(r) == 0 {
		return false
	}

	for _, rule := range r {
		if rule.MatchString(path) {
			return true
		}
	}

	return false
}
