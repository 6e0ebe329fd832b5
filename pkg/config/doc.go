// Package config defines the segvault configuration structure and its
// loading, defaulting, and validation logic.
//
// Configuration is loaded once at startup from a YAML file, optionally
// overridden by SEGVAULT_* environment variables, validated, and then passed
// by pointer to every component. Nothing reads configuration from ambient
// state after startup.
package config
