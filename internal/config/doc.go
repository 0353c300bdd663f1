// Package config loads calhelper's settings.
//
// Values are resolved in three layers: built-in defaults, an optional YAML
// file, and environment variables. Command-line flags are applied on top by
// the cmd package. API keys are only demanded by the commands that use them,
// through the Require* accessors.
package config
