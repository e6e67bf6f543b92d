package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

func splitExt(f string) (string, string) {
	for i := len(f) - 1; i >= 0; i-- {
		if f[i] == '.' {
			return f[0:i], f[i+1:]
		}
	}
	return f, ""
}

// LocalPath returns the path of the local override file for name,
// `siteqa.json5` becomes `siteqa.local.json5`.
func LocalPath(name string) string {
	prefixname, ext := splitExt(filepath.Base(name))
	return filepath.Join(
		filepath.Dir(name),
		fmt.Sprintf("%s.local.%s", prefixname, ext),
	)
}

func readOverride[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}

	var override T
	err = json5.Unmarshal(contents, &override)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	err = mergo.Merge(out, override, mergo.WithOverride, mergo.WithoutDereference)
	if err != nil {
		return false, err
	}
	return true, nil
}

// ReadConfig reads a configuration file, `name` should come with a file extension,
// it will automatically be lopped off to produce the other extensions.
// this function will merge the following, where higher number is more prioritized.
// 0. defaults
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// zero values never override, use pointers for fields where the zero value is meaningful.
func ReadConfig[T any](name string, defaults T) (T, error) {
	out := defaults

	found, err := readOverride(name, &out)
	if err != nil {
		return defaults, err
	}

	localFilepath := LocalPath(name)
	foundLocal, err := readOverride(localFilepath, &out)
	if err != nil {
		return defaults, err
	}
	if foundLocal {
		slog.Info("merging config with local overrides", "local", localFilepath)
	}

	if !found && !foundLocal {
		return defaults, os.ErrNotExist
	}
	return out, nil
}

// ReadRecursively is ReadConfig but it recursively goes up the filesystem until the root
// to find a configuration file matching the name. It returns the config and the
// directory it was found in.
func ReadRecursively[T any](name string) (T, error) {
	var zero T
	out, _, err := FindRecursively(name, zero)
	return out, err
}

// FindRecursively is ReadRecursively with defaults, it also returns the directory
// the configuration was found in.
func FindRecursively[T any](name string, defaults T) (T, string, error) {
	root, err := filepath.Abs("/")
	if err != nil {
		return defaults, "", err
	}
	current, err := os.Getwd()
	if err != nil {
		return defaults, "", err
	}

	for {
		config, err := ReadConfig(filepath.Join(current, name), defaults)
		if err == nil {
			return config, current, nil
		}
		if !os.IsNotExist(err) {
			return defaults, "", err
		}
		if current == root {
			break
		}
		current = filepath.Dir(current)
	}

	return defaults, "", os.ErrNotExist
}
