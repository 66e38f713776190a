package schema

import (
	"strings"

	"github.com/pkg/errors"
)

// ParseAttrPath parses an attribute path into object path and attribute name.
// Path format: /group/subgroup/object@attribute_name
//
// Examples:
//   - "/@title" -> objectPath="/", attrName="title"
//   - "/temperature@units" -> objectPath="/temperature", attrName="units"
func ParseAttrPath(path string) (objectPath, attrName string, err error) {
	if path == "" {
		return "", "", errors.Wrap(ErrInvalidPath, "empty attribute path")
	}

	at := strings.LastIndex(path, "@")
	if at == -1 {
		return "", "", errors.Wrapf(ErrInvalidPath, "attribute path must contain '@': %s", path)
	}
	objectPath = path[:at]
	attrName = path[at+1:]
	if attrName == "" {
		return "", "", errors.Wrapf(ErrInvalidPath, "attribute name cannot be empty: %s", path)
	}
	return CleanPath(objectPath), attrName, nil
}

// JoinAttrPath creates an attribute path from object path and attribute name.
func JoinAttrPath(objectPath, attrName string) string {
	if objectPath == "/" {
		return "/@" + attrName
	}
	return objectPath + "@" + attrName
}

// SplitPath splits a path into its components, dropping empty ones.
//
// Examples:
//   - "/" -> []string{}
//   - "/foo//bar/" -> []string{"foo", "bar"}
func SplitPath(path string) []string {
	parts := strings.Split(path, "/")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// CleanPath normalizes a path so that it starts with "/" and has no trailing
// or repeated slashes.
func CleanPath(path string) string {
	return "/" + strings.Join(SplitPath(path), "/")
}

// JoinPath appends a link name to a group path.
func JoinPath(group, name string) string {
	if group == "/" || group == "" {
		return "/" + name
	}
	return group + "/" + name
}

// baseName returns the last component of path, or "/" for the root.
func baseName(path string) string {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return "/"
	}
	return parts[len(parts)-1]
}
