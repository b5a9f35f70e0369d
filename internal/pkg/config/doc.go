// Package config provides functionality for loading and managing application configuration.
//
// Settings are read from an optional YAML file and from RV_-prefixed environment
// variables, validated, and handed to the components that need them. The record
// encryption key may additionally be baked into the binary at build time through
// BuildKey.
package config
