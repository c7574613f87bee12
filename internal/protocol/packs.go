package protocol

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"gopkg.in/yaml.v3"
)

const packDefinitionFuncName = "ProtocolDefinitions"

// PackFile pairs a parsed protocol definition with its on-disk source.
type PackFile struct {
	Protocol Protocol
	Path     string
}

// ParsePackYAML decodes and validates a single protocol pack payload.
func ParsePackYAML(data []byte) (Protocol, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Protocol{}, fmt.Errorf("protocol: pack payload is empty")
	}
	var p Protocol
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Protocol{}, fmt.Errorf("protocol: decode pack: %w", err)
	}
	p = p.Normalized()
	if err := p.Validate(); err != nil {
		return Protocol{}, err
	}
	return p, nil
}

// LoadPackFile reads a YAML file from disk and returns the parsed protocol.
func LoadPackFile(path string) (PackFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return PackFile{}, fmt.Errorf("protocol: stat %s: %w", path, err)
	}
	if info.IsDir() {
		return PackFile{}, fmt.Errorf("protocol: %s is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return PackFile{}, fmt.Errorf("protocol: read %s: %w", path, err)
	}
	p, err := ParsePackYAML(data)
	if err != nil {
		return PackFile{}, fmt.Errorf("protocol: %s: %w", path, err)
	}
	return PackFile{Protocol: p, Path: filepath.Clean(path)}, nil
}

// LoadPackDir scans a directory for protocol packs: *.yaml definitions plus
// *.go files interpreted for ProtocolDefinitions(). A missing directory
// means "no packs".
func LoadPackDir(dir string) ([]PackFile, error) {
	trimmed := strings.TrimSpace(dir)
	if trimmed == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(trimmed)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("protocol: read %s: %w", trimmed, err)
	}
	var packs []PackFile
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(trimmed, entry.Name())
		switch {
		case isYAMLFile(entry.Name()):
			pack, err := LoadPackFile(path)
			if err != nil {
				return nil, err
			}
			packs = append(packs, pack)
		case filepath.Ext(entry.Name()) == ".go":
			goPacks, err := loadGoPackFile(path)
			if err != nil {
				return nil, err
			}
			packs = append(packs, goPacks...)
		}
	}
	if len(packs) == 0 {
		return nil, nil
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Path < packs[j].Path })
	return packs, nil
}

// InstallPacks registers every pack from dir into the registry. Built-in ids
// cannot be shadowed; the first error aborts the install.
func InstallPacks(registry *Registry, dir string) ([]PackFile, error) {
	packs, err := LoadPackDir(dir)
	if err != nil {
		return nil, err
	}
	for _, pack := range packs {
		if err := registry.Register(pack.Protocol); err != nil {
			return nil, fmt.Errorf("protocol: %s: %w", pack.Path, err)
		}
	}
	return packs, nil
}

// loadGoPackFile evaluates a .go pack and collects protocols declared via
// ProtocolDefinitions().
func loadGoPackFile(path string) ([]PackFile, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("protocol: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		return nil, fmt.Errorf("protocol: %s is empty", path)
	}
	i := interp.New(interp.Options{})
	i.Use(stdlib.Symbols)
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("protocol: interpret %s: %w", path, err)
	}
	fnValue, err := i.Eval(packDefinitionFuncName)
	if err != nil {
		return nil, fmt.Errorf("protocol: %s must define %s() ([]map[string]any, error): %w", path, packDefinitionFuncName, err)
	}
	defs, callErr := invokePackFunc(fnValue)
	if callErr != nil {
		return nil, fmt.Errorf("protocol: %s: %w", path, callErr)
	}
	packs := make([]PackFile, 0, len(defs))
	for idx, raw := range defs {
		payload, err := yaml.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("protocol: %s definition[%d]: %w", path, idx, err)
		}
		parsed, err := ParsePackYAML(payload)
		if err != nil {
			return nil, fmt.Errorf("protocol: %s definition[%d]: %w", path, idx, err)
		}
		packs = append(packs, PackFile{Protocol: parsed, Path: fmt.Sprintf("%s#%d", path, idx+1)})
	}
	return packs, nil
}

func invokePackFunc(value reflect.Value) ([]map[string]any, error) {
	if !value.IsValid() {
		return nil, fmt.Errorf("missing %s function", packDefinitionFuncName)
	}
	fn := value
	if fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%s is not a function", packDefinitionFuncName)
	}
	results := fn.Call(nil)
	if len(results) == 0 || len(results) > 2 {
		return nil, fmt.Errorf("%s must return ([]map[string]any[, error])", packDefinitionFuncName)
	}
	defsVal := results[0]
	if len(results) == 2 {
		if !results[1].IsNil() {
			if e, ok := results[1].Interface().(error); ok && e != nil {
				return nil, e
			}
			return nil, fmt.Errorf("%s returned non-error second value", packDefinitionFuncName)
		}
	}
	defs, ok := defsVal.Interface().([]map[string]any)
	if ok {
		return defs, nil
	}
	if defsVal.Kind() == reflect.Slice {
		result := make([]map[string]any, defsVal.Len())
		for i := 0; i < defsVal.Len(); i++ {
			entry := defsVal.Index(i).Interface()
			m, ok := entry.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("%s[%d] is not map[string]any", packDefinitionFuncName, i)
			}
			result[i] = m
		}
		return result, nil
	}
	return nil, fmt.Errorf("%s must return []map[string]any", packDefinitionFuncName)
}

func isYAMLFile(name string) bool {
	lower := strings.ToLower(strings.TrimSpace(name))
	return strings.HasSuffix(lower, ".yaml") || strings.HasSuffix(lower, ".yml")
}
