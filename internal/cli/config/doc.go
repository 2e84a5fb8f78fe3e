// Package config resolves the settings of the waifuvault CLI.
//
// Values are layered: defaults, then the JSON file named by -c/-config, then
// the global flags. Later sources take precedence.
package config
