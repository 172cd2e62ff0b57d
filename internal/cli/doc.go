// Package cli defines the pathmodelfit command tree: run executes the
// analyses of a config file, validate checks config and model syntax
// without estimating, history lists recorded runs, serve exposes the
// computation over HTTP, and version prints build information. Usage
// problems carry exit code 2 through ExitError; everything else exits 1.
package cli
