// Package config loads and validates the HCL analysis configuration. A
// config file declares one or more analysis blocks (model syntax plus the
// sample covariance data), the estimation engine endpoint, and optionally
// a run-history store.
//
// Loading resolves everything eagerly: referenced model and covariance
// files are read (relative paths are taken from the config file's
// directory), the model syntax is parsed, the engine token is pulled from
// its environment variable, and the result is a self-contained model the
// app layer can execute without touching the filesystem again.
//
// Config expressions can read the process environment through the env
// object, e.g. base_url = env.PATHFIT_ENGINE_URL. Referencing a variable
// that is not set fails the load.
package config
