package scraper

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a site definition from a .yaml/.yml or .json/.json5 file
// and validates it.
func LoadFile(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read site file: %w", err)
	}

	var site Site
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &site)
	case ".json", ".json5":
		err = json5.Unmarshal(data, &site)
	default:
		return nil, fmt.Errorf("unsupported site file extension %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("decode site file %s: %w", path, err)
	}

	if site.Name == "" {
		site.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if err := site.Validate(); err != nil {
		return nil, err
	}
	return &site, nil
}
