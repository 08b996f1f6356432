package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// StationRecord is the persisted form of one registry slot.
type StationRecord struct {
	Name       string `yaml:"name,omitempty"`
	ShortName  string `yaml:"short_name,omitempty"`
	RomPath    string `yaml:"rom_path,omitempty"`
	CorePath   string `yaml:"core_path,omitempty"`
	Extensions string `yaml:"extensions,omitempty"`
	Enabled    bool   `yaml:"enabled"`
}

// Registry is the fixed slot array written to the registry file.
type Registry [MaxStations]StationRecord

type registryFile struct {
	Stations []StationRecord `yaml:"stations"`
}

// LoadRegistry reads the station slots from path.
// A missing file yields an empty registry.
func LoadRegistry(path string) (Registry, error) {
	var reg Registry

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return reg, nil
		}
		return reg, fmt.Errorf("error reading registry file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return reg, fmt.Errorf("error parsing registry file: %w", err)
	}
	if len(file.Stations) > MaxStations {
		return reg, fmt.Errorf("registry has %d slots, max is %d", len(file.Stations), MaxStations)
	}

	copy(reg[:], file.Stations)
	return reg, nil
}

// SaveRegistry writes every slot to path, creating parent directories.
func SaveRegistry(path string, reg Registry) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := yaml.Marshal(registryFile{Stations: reg[:]})
	if err != nil {
		return fmt.Errorf("failed to marshal registry: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write registry file: %w", err)
	}
	return nil
}
