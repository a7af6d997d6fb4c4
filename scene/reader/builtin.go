package reader

import (
	"bytes"
	"embed"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/achilleasa/go-spheretrace/scene"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

// The name of the scene rendered when no scene file is specified.
const DefaultScene = "default"

// List the names of the scenes bundled with the renderer.
func BuiltinScenes() []string {
	entries, err := builtinFS.ReadDir("builtin")
	if err != nil {
		return nil
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, strings.TrimSuffix(entry.Name(), path.Ext(entry.Name())))
	}
	sort.Strings(names)
	return names
}

// Load one of the bundled scenes by name.
func BuiltinScene(name string) (*scene.Scene, error) {
	data, err := builtinFS.ReadFile("builtin/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("reader: unknown builtin scene %q; available scenes: %s", name, strings.Join(BuiltinScenes(), ", "))
	}

	sc, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("reader: builtin scene %q: %w", name, err)
	}
	return sc, nil
}

// Load a scene by builtin name or from a file/url. Names that match a bundled
// scene take precedence over files in the working directory.
func Load(nameOrPath string) (*scene.Scene, error) {
	if nameOrPath == "" {
		nameOrPath = DefaultScene
	}
	for _, name := range BuiltinScenes() {
		if name == nameOrPath {
			return BuiltinScene(name)
		}
	}
	return ReadScene(nameOrPath)
}
