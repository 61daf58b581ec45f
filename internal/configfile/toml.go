package configfile

import (
	"github.com/pelletier/go-toml/v2"
)

// ReadTOML parses a TOML config file with the same contract as
// ReadJSON: missing/empty yields an empty document, corruption yields a
// *CorruptError after a best-effort backup.
func ReadTOML(path string) (Doc, error) {
	data, ok, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Doc{}, nil
	}
	var doc Doc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: path, BackupPath: backupCorrupt(path, data), Err: err}
	}
	if doc == nil {
		doc = Doc{}
	}
	return doc, nil
}

// WriteTOML overwrites path with the marshalled document.
func WriteTOML(path string, doc Doc) error {
	data, err := toml.Marshal(doc)
	if err != nil {
		return err
	}
	return atomicWrite(path, data, 0600)
}
