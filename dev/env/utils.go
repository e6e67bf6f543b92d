package devenv

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// StatePrefix marks a path as living under the workspace's dev/.state.
const StatePrefix = "<dev_state>"

const moduleName = "siteqa"

var modName = regexp.MustCompile(`(?m)^module *([\w\-_]+)$`)

func isWorkspaceRoot(dir string) bool {
	mod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return false
	}
	matches := modName.FindSubmatch(mod)
	return len(matches) >= 2 && string(matches[1]) == moduleName
}

// GetWorkspaceRoot walks up from the working directory until it finds the
// siteqa go.mod, it returns os.ErrNotExist outside of a checkout.
func GetWorkspaceRoot() (string, error) {
	current, err := filepath.Abs(".")
	if err != nil {
		return "", err
	}
	for {
		if isWorkspaceRoot(current) {
			return current, nil
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", os.ErrNotExist
		}
		current = parent
	}
}

// StateDir returns (and creates) the dev/.state directory of the workspace.
func StateDir() (string, error) {
	root, err := GetWorkspaceRoot()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, "dev", ".state")
	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return "", err
	}
	return dir, nil
}

// ResolvePath replaces a leading <dev_state> with the state directory,
// other paths are returned as is.
func ResolvePath(path string) (string, error) {
	rest, ok := strings.CutPrefix(path, StatePrefix)
	if !ok {
		return path, nil
	}
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, rest), nil
}
