// Command ci-lint runs static analysis on puzzle registration.
//
// Usage:
//
//	ci-lint ./...
//
// This tool detects registration mistakes that panic at init time:
//   - Literal days outside 1-25 passed to puzzle.Register()
//   - Duplicate literal day registrations within a package
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/example/aoc2019/pkg/lint"
)

func main() {
	singlechecker.Main(lint.Analyzer)
}
