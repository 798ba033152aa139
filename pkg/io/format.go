package io

import (
	"path/filepath"
	"strings"

	pqerrors "github.com/matzehuels/pathquery/pkg/errors"
)

// Format identifies a network file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatSIF  Format = "sif"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTOML, FormatSIF:
		return f, nil
	}
	return "", pqerrors.New(pqerrors.ErrCodeInvalidFormat, "unknown network format %q (want json, toml or sif)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".sif", ".txt":
		return FormatSIF, nil
	}
	return "", pqerrors.New(pqerrors.ErrCodeInvalidFormat, "cannot infer network format from %q", path)
}
