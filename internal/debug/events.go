package debug

// TableData describes a glyph table after the row-aligned build.
type TableData struct {
	Dir       string         `json:"dir"`
	Rows      int            `json:"rows"`
	Slots     int            `json:"slots"`
	Populated int            `json:"populated"`
	Classes   map[string]int `json:"classes"`
}

// CompoundData describes a parsed and expanded compound map.
type CompoundData struct {
	Dir          string   `json:"dir"`
	Declarations int      `json:"declarations"`
	Codepoints   int      `json:"codepoints"`
	Collisions   []string `json:"collisions,omitempty"` // Codepoints overwritten by a later declaration
}

// ProfileData describes a finished game profile.
type ProfileData struct {
	Game       string   `json:"game"`
	Name       string   `json:"name"`
	Dir        string   `json:"dir"`
	Aliases    []string `json:"aliases"`
	Reserved   string   `json:"reserved,omitempty"`
	Exclusions string   `json:"fullwidth_exclusions"`
}

// CatalogData summarizes a catalog build.
type CatalogData struct {
	Profiles  int   `json:"profiles"`
	ElapsedMs int64 `json:"elapsed_ms"`
}

// ErrorData contains error information.
type ErrorData struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}
