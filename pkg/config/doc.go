// Package config loads typed configuration structs from environment
// variables, optionally seeded from .env files.
//
// Packages in this module declare their own Config structs with `env` tags
// (see pkg/mongo, pkg/email, pkg/billing) and call config.Load at startup.
// Parsed configurations are cached per type, so repeated loads are cheap and
// consistent within a process.
package config
