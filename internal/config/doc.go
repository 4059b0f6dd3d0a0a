// Package config loads wgsldoc settings.
//
// Settings come from three layers, highest priority first:
//
//	flags          -D ./site
//	environment    WGSLDOC_TARGET_DIR=./site
//	config file    .wgsldoc.yaml: "target-dir: ./site"
//
// Relative target and database paths are anchored at the working directory.
package config
