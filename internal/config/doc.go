// Package config defines the application configuration and loads it from
// environment variables and optional config files.
package config
