// Package actions decodes loosely typed action payloads (JSON bodies, YAML scripts,
// MCP tool arguments) into domain.Action values.
package actions
