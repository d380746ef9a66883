// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in ~/.stance/config.toml. Keys use dot notation
// (classifier.threshold) and are written back as TOML tables.
package file
