// Package config reads the runtime configuration of the circulation binaries and builds
// the infrastructure they need: database connections, the logger and the tracer provider.
//
// Values come from the environment, optionally seeded from a .env file.
package config
