// Package config loads and validates the YAML settings shared by n3h-pin:
// release host coordinates, manifest output path, and HTTP timeout.
// Every field has a default pointing at the public n3h release host, so the
// tool works without a settings file.
package config
