// Package config provides configuration for the htmleditor tool.
// It defines the runtime options populated from CLI flags and the field
// catalog file (.htmleditor) that lists the account's personalization
// fields and their aliases.
package config
