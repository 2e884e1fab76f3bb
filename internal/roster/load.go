package roster

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// cookieFile is the YAML document shape for catalog files. Each file holds
// one or more cookies under a top-level "cookies" key.
type cookieFile struct {
	Cookies []Cookie `yaml:"cookies"`
}

// LoadCatalog reads all .yaml files in dir and builds a Catalog from the
// cookies they declare.
//
// Precondition: dir must be a readable directory path.
// Postcondition: Returns a valid Catalog or a non-nil error.
func LoadCatalog(dir string) (*Catalog, error) {
	files, err := yamlFiles(dir)
	if err != nil {
		return nil, err
	}
	var cookies []*Cookie
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var cf cookieFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("parsing cookie file %s: %w", path, err)
		}
		for i := range cf.Cookies {
			cookies = append(cookies, &cf.Cookies[i])
		}
	}
	catalog, err := NewCatalog(cookies)
	if err != nil {
		return nil, fmt.Errorf("building catalog from %s: %w", dir, err)
	}
	return catalog, nil
}

func yamlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			paths = append(paths, filepath.Join(dir, name))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
