// Package config loads, normalizes, and validates shelf configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and builds the active category table from
// optional [[categories]] rules. Always obtain settings through this package
// so downstream code receives sanitized paths, canonical log formats, and
// clear validation errors.
package config
