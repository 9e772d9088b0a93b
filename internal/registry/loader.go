package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"

	"github.com/RonoHenry/Design-Synapse-sub002/internal/infrastructure/config"
)

// servicesFile is the on-disk shape shared by every supported format.
type servicesFile struct {
	Services []Definition `json:"services" yaml:"services" toml:"services"`
}

// DefinitionsFromConfig seeds the standard peer set from environment
// configuration.
func DefinitionsFromConfig(peers config.PeersConfig) []Definition {
	return []Definition{
		{Name: "user", BaseURL: peers.UserURL},
		{Name: "project", BaseURL: peers.ProjectURL},
		{Name: "knowledge", BaseURL: peers.KnowledgeURL},
		{Name: "design", BaseURL: peers.DesignURL},
	}
}

// LoadDefinitions reads service definitions from path, picking the codec
// by file extension: .json, .yaml, .yml, or .toml.
func LoadDefinitions(path string) ([]Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("services file: %w", err)
	}

	var file servicesFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = sonic.Unmarshal(data, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &file)
	case ".toml":
		err = toml.Unmarshal(data, &file)
	default:
		return nil, fmt.Errorf("services file %s: unsupported format %q", path, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("services file %s: %w", path, err)
	}

	for i, def := range file.Services {
		if def.Name == "" {
			return nil, fmt.Errorf("services file %s: entry %d has no name", path, i)
		}
	}
	return file.Services, nil
}

// Merge overlays file definitions on top of environment ones. A file
// entry overrides the matching base entry field by field and may add
// services the environment never named. Order follows base, with new
// entries appended in file order.
func Merge(base, overlay []Definition) []Definition {
	merged := make([]Definition, len(base))
	index := make(map[string]int, len(base))
	for i, def := range base {
		merged[i] = def
		index[def.Name] = i
	}

	for _, def := range overlay {
		i, ok := index[def.Name]
		if !ok {
			index[def.Name] = len(merged)
			merged = append(merged, def)
			continue
		}
		merged[i] = overlayDefinition(merged[i], def)
	}
	return merged
}

func overlayDefinition(base, over Definition) Definition {
	out := base
	if over.BaseURL != "" {
		out.BaseURL = over.BaseURL
	}
	if over.Timeout != "" {
		out.Timeout = over.Timeout
	}
	if over.MaxRetries != nil {
		out.MaxRetries = over.MaxRetries
	}
	if over.BackoffBase != "" {
		out.BackoffBase = over.BackoffBase
	}
	if over.BackoffMultiplier > 0 {
		out.BackoffMultiplier = over.BackoffMultiplier
	}
	if over.BackoffMax != "" {
		out.BackoffMax = over.BackoffMax
	}
	if over.BreakerThreshold > 0 {
		out.BreakerThreshold = over.BreakerThreshold
	}
	if over.BreakerReset != "" {
		out.BreakerReset = over.BreakerReset
	}
	if over.RateLimit > 0 {
		out.RateLimit = over.RateLimit
	}
	if over.RateBurst > 0 {
		out.RateBurst = over.RateBurst
	}
	return out
}

// Bootstrap registers the environment peer set merged with the optional
// services file named by peers.File.
func Bootstrap(r *Registry, peers config.PeersConfig) error {
	defs := DefinitionsFromConfig(peers)

	if peers.File != "" {
		fileDefs, err := LoadDefinitions(peers.File)
		if err != nil {
			return err
		}
		defs = Merge(defs, fileDefs)
	}

	return r.RegisterAll(defs)
}
