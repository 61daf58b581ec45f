package adapters

import (
	"sort"
	"strings"

	"github.com/nextlevelbuilder/coderlink/internal/configfile"
	"github.com/nextlevelbuilder/coderlink/internal/mcp"
	"github.com/nextlevelbuilder/coderlink/internal/registry"
)

// subMap returns doc[key] as a map, or nil when absent or another type.
func subMap(doc map[string]interface{}, key string) map[string]interface{} {
	m, _ := doc[key].(map[string]interface{})
	return m
}

// ensureMap returns doc[key] as a map, creating it when needed.
func ensureMap(doc map[string]interface{}, key string) map[string]interface{} {
	if m, ok := doc[key].(map[string]interface{}); ok {
		return m
	}
	m := map[string]interface{}{}
	doc[key] = m
	return m
}

// str returns m[key] as a string ("" otherwise).
func str(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

// deleteIfEmpty removes doc[key] when it is an empty container, so an
// emptied parent never lingers as {}.
func deleteIfEmpty(doc map[string]interface{}, key string) {
	switch v := doc[key].(type) {
	case map[string]interface{}:
		if len(v) == 0 {
			delete(doc, key)
		}
	case []interface{}:
		if len(v) == 0 {
			delete(doc, key)
		}
	}
}

// splitBaseURL separates a base URL into scheme://host and its path.
func splitBaseURL(base string) (hostPart, path string) {
	rest := base
	prefix := ""
	if i := strings.Index(rest, "://"); i >= 0 {
		prefix = rest[:i+3]
		rest = rest[i+3:]
	}
	if i := strings.Index(rest, "/"); i >= 0 {
		return prefix + rest[:i], rest[i:]
	}
	return prefix + rest, ""
}

// mcpTable manages one tool's MCP-service map inside a structured
// config file. The JSON-backed tools share this; TOML-backed codex has
// its own variant.
type mcpTable struct {
	path string
	key  string
	// read defaults to configfile.ReadJSON; openclaw swaps in JSON5.
	read  func(string) (configfile.Doc, error)
	write func(string, configfile.Doc) error
	// build translates the neutral descriptor into the tool's entry
	// shape, or fails for transports the tool cannot represent.
	build func(svc mcp.Service, apiKey string) (map[string]interface{}, error)
}

func (t *mcpTable) readDoc() (configfile.Doc, error) {
	read := t.read
	if read == nil {
		read = configfile.ReadJSON
	}
	return read(t.path)
}

func (t *mcpTable) writeDoc(doc configfile.Doc) error {
	write := t.write
	if write == nil {
		write = configfile.WriteJSON
	}
	return write(t.path, doc)
}

func (t *mcpTable) install(svc mcp.Service, apiKey string, _ registry.Plan) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	entry, err := t.build(svc, apiKey)
	if err != nil {
		return err
	}
	doc, err := t.readDoc()
	if err != nil {
		return err
	}
	servers := ensureMap(doc, t.key)
	servers[svc.ID] = entry
	return t.writeDoc(doc)
}

func (t *mcpTable) uninstall(id string) error {
	doc, err := t.readDoc()
	if err != nil {
		return err
	}
	servers := subMap(doc, t.key)
	if servers == nil {
		return nil
	}
	delete(servers, id)
	deleteIfEmpty(doc, t.key)
	return t.writeDoc(doc)
}

func (t *mcpTable) isInstalled(id string) (bool, error) {
	doc, err := t.readDoc()
	if err != nil {
		return false, err
	}
	servers := subMap(doc, t.key)
	_, ok := servers[id]
	return ok, nil
}

func (t *mcpTable) installed() ([]string, error) {
	doc, err := t.readDoc()
	if err != nil {
		return nil, err
	}
	servers := subMap(doc, t.key)
	ids := make([]string, 0, len(servers))
	for id := range servers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (t *mcpTable) all() (map[string]map[string]interface{}, error) {
	doc, err := t.readDoc()
	if err != nil {
		return nil, err
	}
	servers := subMap(doc, t.key)
	out := make(map[string]map[string]interface{}, len(servers))
	for id, v := range servers {
		if entry, ok := v.(map[string]interface{}); ok {
			out[id] = entry
		} else {
			out[id] = map[string]interface{}{}
		}
	}
	return out, nil
}

func (t *mcpTable) others(builtinIDs []string) ([]string, error) {
	installed, err := t.installed()
	if err != nil {
		return nil, err
	}
	builtin := make(map[string]bool, len(builtinIDs))
	for _, id := range builtinIDs {
		builtin[id] = true
	}
	var out []string
	for _, id := range installed {
		if !builtin[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// stringsToAny converts args for documents that round-trip through
// interface{} slices.
func stringsToAny(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// envToAny converts an env/header map for document embedding.
func envToAny(in map[string]string) map[string]interface{} {
	out := make(map[string]interface{}, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// noMCP is embedded by tools whose config has no MCP-service table.
type noMCP struct{}

func (n noMCP) IsMCPInstalled(string) (bool, error) { return false, ErrNotSupported }
func (n noMCP) InstallMCP(mcp.Service, string, registry.Plan) error {
	return ErrNotSupported
}
func (n noMCP) UninstallMCP(string) error        { return ErrNotSupported }
func (n noMCP) InstalledMCPs() ([]string, error) { return nil, ErrNotSupported }
func (n noMCP) AllMCPServers() (map[string]map[string]interface{}, error) {
	return nil, ErrNotSupported
}
func (n noMCP) OtherMCPs([]string) ([]string, error) { return nil, ErrNotSupported }
