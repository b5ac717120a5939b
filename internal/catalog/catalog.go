// Package catalog loads the services and methods offered in the selection tab.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrNoServices is returned when the configured files declare no service
var ErrNoServices = errors.New("no services found")

// Method is one callable procedure
type Method struct {
	Service     string
	Name        string
	Description string
	// Request is the JSON template loaded into the request editor
	Request string
	// Address overrides the default address for this method's service
	Address string
}

// FullName returns "Service/Method"
func (m Method) FullName() string {
	return m.Service + "/" + m.Name
}

// Service groups methods under a name
type Service struct {
	Name    string
	Address string
	Methods []Method
}

// Catalog is the sorted set of services
type Catalog struct {
	Services []Service
}

type fileFormat struct {
	Services []struct {
		Name    string `yaml:"name" json:"name"`
		Address string `yaml:"address" json:"address"`
		Methods []struct {
			Name        string `yaml:"name" json:"name"`
			Description string `yaml:"description" json:"description"`
			Request     any    `yaml:"request" json:"request"`
		} `yaml:"methods" json:"methods"`
	} `yaml:"services" json:"services"`
}

// Load reads every file, resolving relative names against includes.
// Services with the same name are merged.
func Load(files, includes []string) (*Catalog, error) {
	byName := make(map[string]*Service)

	for _, file := range files {
		path, err := Resolve(file, includes)
		if err != nil {
			return nil, err
		}

		parsed, err := parseFile(path)
		if err != nil {
			return nil, err
		}

		for _, svc := range parsed.Services {
			if svc.Name == "" {
				return nil, fmt.Errorf("%s: service without name", path)
			}
			existing, ok := byName[svc.Name]
			if !ok {
				existing = &Service{Name: svc.Name, Address: svc.Address}
				byName[svc.Name] = existing
			}
			if existing.Address == "" {
				existing.Address = svc.Address
			}

			for _, m := range svc.Methods {
				if m.Name == "" {
					return nil, fmt.Errorf("%s: method without name in service %s", path, svc.Name)
				}
				request, err := templateString(m.Request)
				if err != nil {
					return nil, fmt.Errorf("%s: %s/%s: %w", path, svc.Name, m.Name, err)
				}
				existing.Methods = append(existing.Methods, Method{
					Service:     svc.Name,
					Name:        m.Name,
					Description: m.Description,
					Request:     request,
				})
			}
		}
	}

	cat := &Catalog{}
	for _, svc := range byName {
		sort.SliceStable(svc.Methods, func(i, j int) bool {
			return svc.Methods[i].Name < svc.Methods[j].Name
		})
		for i := range svc.Methods {
			svc.Methods[i].Address = svc.Address
		}
		cat.Services = append(cat.Services, *svc)
	}
	sort.Slice(cat.Services, func(i, j int) bool {
		return cat.Services[i].Name < cat.Services[j].Name
	})

	if len(cat.Services) == 0 {
		return cat, ErrNoServices
	}
	return cat, nil
}

// Resolve finds file: absolute paths are used as is, then each include
// directory is tried, then the working directory
func Resolve(file string, includes []string) (string, error) {
	if filepath.IsAbs(file) {
		if _, err := os.Stat(file); err != nil {
			return "", fmt.Errorf("catalogue file %s: %w", file, err)
		}
		return file, nil
	}

	for _, dir := range includes {
		candidate := filepath.Join(dir, file)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	if _, err := os.Stat(file); err != nil {
		return "", fmt.Errorf("catalogue file %s not found in %v: %w", file, includes, err)
	}
	return file, nil
}

func parseFile(path string) (*fileFormat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var parsed fileFormat
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(data), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	}
	return &parsed, nil
}

// templateString accepts the request template either as a JSON string or as
// a structured value
func templateString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		data, err := json.MarshalIndent(t, "", "  ")
		if err != nil {
			return "", fmt.Errorf("invalid request template: %w", err)
		}
		return string(data), nil
	}
}

// Find returns the method with the given full name
func (c *Catalog) Find(fullName string) (Method, bool) {
	service, name, ok := strings.Cut(fullName, "/")
	if !ok {
		return Method{}, false
	}
	for _, svc := range c.Services {
		if svc.Name != service {
			continue
		}
		for _, m := range svc.Methods {
			if m.Name == name {
				return m, true
			}
		}
	}
	return Method{}, false
}

// MethodCount returns the number of methods over all services
func (c *Catalog) MethodCount() int {
	n := 0
	for _, svc := range c.Services {
		n += len(svc.Methods)
	}
	return n
}
