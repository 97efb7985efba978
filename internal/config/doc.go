// Package config loads, normalizes, and validates booktrack configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GITHUB_TOKEN, GITHUB_REPOSITORY, and GOOGLE_BOOKS_API_KEY so the same binary
// runs unchanged inside a GitHub Actions job. The Config type centralizes every
// knob the CLI and webhook receiver need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
