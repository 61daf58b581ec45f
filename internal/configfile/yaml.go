package configfile

import (
	"gopkg.in/yaml.v3"
)

// ReadYAML parses a YAML config file with the same contract as
// ReadJSON: missing/empty yields an empty document, corruption yields a
// *CorruptError after a best-effort backup.
func ReadYAML(path string) (Doc, error) {
	data, ok, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Doc{}, nil
	}
	var doc Doc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: path, BackupPath: backupCorrupt(path, data), Err: err}
	}
	if doc == nil {
		doc = Doc{}
	}
	return doc, nil
}

// WriteYAML overwrites path with the marshalled document.
func WriteYAML(path string, doc Doc) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return atomicWrite(path, data, 0600)
}

// ReadYAMLInto decodes a YAML file into a typed destination, used by
// the user-config store. Same missing/corrupt contract; reports whether
// the file existed.
func ReadYAMLInto(path string, dst interface{}) (bool, error) {
	data, ok, err := readRaw(path)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return true, &CorruptError{Path: path, BackupPath: backupCorrupt(path, data), Err: err}
	}
	return true, nil
}

// WriteYAMLValue marshals any value (typically a struct) to path.
func WriteYAMLValue(path string, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	return atomicWrite(path, data, 0600)
}
