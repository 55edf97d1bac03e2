// Package config loads application configuration from an optional
// YAML file and COMPASS_-prefixed environment variables, environment
// taking precedence, and validates the result.
//
// It also owns the built-in FRED series catalog: which series feed the
// pipeline, which are absolute levels needing the year-over-year
// transform, and how series group into dashboard categories.
package config
