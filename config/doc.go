// Package config loads the engine configuration from a YAML file, a
// .env file, and the process environment, in that order of precedence
// (environment wins). Every section delegates its defaults and
// validation to the package that consumes it.
package config
