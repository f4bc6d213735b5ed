package main

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildVersion(t *testing.T) {
	platform := fmt.Sprintf(" %s/%s", runtime.GOOS, runtime.GOARCH)
	testCases := []struct {
		name    string
		version string
		want    string
	}{
		{name: "dev build", version: "dev", want: "dev" + platform},
		{name: "tagged release", version: "1.2.3", want: "1.2.3" + platform},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := buildVersion(tc.version)
			if got != tc.want {
				t.Errorf(cmp.Diff(got, tc.want))
			}
		})
	}
}
