package configfile

import (
	"encoding/json"

	"github.com/titanous/json5"
)

// ReadJSON parses a JSON config file. Missing or empty files yield an
// empty document.
func ReadJSON(path string) (Doc, error) {
	data, ok, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Doc{}, nil
	}
	var doc Doc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: path, BackupPath: backupCorrupt(path, data), Err: err}
	}
	if doc == nil {
		doc = Doc{}
	}
	return doc, nil
}

// WriteJSON overwrites path with the pretty-printed document.
func WriteJSON(path string, doc Doc) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, append(data, '\n'), 0600)
}

// ReadJSON5 parses a JSON5 config file (comments and trailing commas
// tolerated). Writes go back out as plain JSON, which is valid JSON5;
// hand-written comments in the file do not survive a rewrite.
func ReadJSON5(path string) (Doc, error) {
	data, ok, err := readRaw(path)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Doc{}, nil
	}
	var doc Doc
	if err := json5.Unmarshal(data, &doc); err != nil {
		return nil, &CorruptError{Path: path, BackupPath: backupCorrupt(path, data), Err: err}
	}
	if doc == nil {
		doc = Doc{}
	}
	return doc, nil
}
