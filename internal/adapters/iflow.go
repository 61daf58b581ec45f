package adapters

import (
	"strings"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// iflow manages iFlow's ~/.iflow/config.toml, which keeps an indexed
// [[models]] array. Indices shift as users edit the file, so managed
// entries are matched by the display-name convention and refreshed with
// a filter-then-append pass instead of positional updates. iFlow has no
// MCP table.
type iflow struct {
	home string
	noMCP
}

func (f *iflow) Name() string { return ToolIFlow }

func (f *iflow) configPath() string { return joinHome(f.home, ".iflow", "config.toml") }

func modelEntries(doc configfile.Doc) []interface{} {
	entries, _ := doc["models"].([]interface{})
	return entries
}

func isManagedModel(v interface{}) bool {
	entry, ok := v.(map[string]interface{})
	return ok && strings.HasPrefix(str(entry, "name"), managedPrefix)
}

func (f *iflow) DetectConfig() (Detected, error) {
	doc, err := configfile.ReadTOML(f.configPath())
	if err != nil {
		return Detected{}, err
	}
	for _, v := range modelEntries(doc) {
		if !isManagedModel(v) {
			continue
		}
		entry := v.(map[string]interface{})
		plan, ok := registry.DetectPlan(str(entry, "base_url"))
		if !ok {
			continue
		}
		return Detected{
			Plan:   plan,
			APIKey: str(entry, "api_key"),
			Model:  str(entry, "model"),
		}, nil
	}
	return Detected{}, nil
}

func (f *iflow) LoadConfig(s registry.ProviderSettings, apiKey string) error {
	doc, err := configfile.ReadTOML(f.configPath())
	if err != nil {
		return err
	}

	// Filter, then append: refreshing must not duplicate the managed
	// entry or disturb user-defined ones.
	var kept []interface{}
	for _, v := range modelEntries(doc) {
		if !isManagedModel(v) {
			kept = append(kept, v)
		}
	}
	name := managedPrefix + s.Source
	entry := map[string]interface{}{
		"name":     name,
		"base_url": s.BaseURL,
		"api_key":  apiKey,
		"model":    s.Model,
	}
	if s.MaxContextSize > 0 {
		entry["context_window"] = int64(s.MaxContextSize)
	}
	doc["models"] = append(kept, entry)

	settings := ensureMap(doc, "settings")
	settings["selected"] = name
	return configfile.WriteTOML(f.configPath(), doc)
}

func (f *iflow) UnloadConfig() error {
	doc, err := configfile.ReadTOML(f.configPath())
	if err != nil {
		return err
	}
	entries := modelEntries(doc)
	if len(entries) == 0 {
		return nil
	}
	var kept []interface{}
	for _, v := range entries {
		if !isManagedModel(v) {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(entries) {
		return nil
	}
	if len(kept) == 0 {
		delete(doc, "models")
	} else {
		doc["models"] = kept
	}
	if settings := subMap(doc, "settings"); settings != nil {
		if strings.HasPrefix(str(settings, "selected"), managedPrefix) {
			delete(settings, "selected")
		}
		deleteIfEmpty(doc, "settings")
	}
	return configfile.WriteTOML(f.configPath(), doc)
}
