// +build mage

package main

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/magefile/mage/sh"
)

// Default target to run when none is specified
// If not set, running mage will list available targets
var Default = Build

// Build compiles anb with version information stamped in.
func Build() error {
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", "bin/anb", ".")
}

// Install installs anb into GOBIN with version information stamped in.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), ".")
}

// Test runs the unit and integration suites.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

func ldflags() string {
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	check(err)
	commit, err := sh.Output("git", "rev-parse", "--short", "HEAD")
	check(err)

	const pkg = "github.com/naveego/anb/pkg/core"
	return strings.Join([]string{
		fmt.Sprintf("-X %s.Version=%s", pkg, version),
		fmt.Sprintf("-X %s.Timestamp=%s", pkg, time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("-X %s.Commit=%s", pkg, commit),
	}, " ")
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
