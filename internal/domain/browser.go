package domain

// BrowserState is the state of one database-browser session. Operations take the
// current state and return the next one; nothing here is persisted.
type BrowserState struct {
	HostID           string            `json:"hostId"`
	SelectedDatabase string            `json:"selectedDatabase,omitempty"`
	SelectedTable    string            `json:"selectedTable,omitempty"`
	Databases        []DatabaseSummary `json:"databases"`
	Tables           []TableSummary    `json:"tables"`
	Page             *TablePage        `json:"tableData,omitempty"`
	Result           *QueryResult      `json:"queryResult,omitempty"`
}

// WithDatabase selects a database and drops everything derived from the previous one.
func (s BrowserState) WithDatabase(name string) BrowserState {
	s.SelectedDatabase = name
	s.SelectedTable = ""
	s.Tables = nil
	s.Page = nil
	return s
}

// WithTable selects a table and drops the previous page. It is a no-op when no
// database is selected.
func (s BrowserState) WithTable(name string) BrowserState {
	if s.SelectedDatabase == "" {
		return s
	}
	s.SelectedTable = name
	s.Page = nil
	return s
}

// HasTable reports whether name is in the current table listing.
func (s BrowserState) HasTable(name string) bool {
	for _, t := range s.Tables {
		if t.Name == name {
			return true
		}
	}
	return false
}

// TableNames returns the names of the current table listing.
func (s BrowserState) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// DatabaseNames returns the names of the current database listing.
func (s BrowserState) DatabaseNames() []string {
	names := make([]string, len(s.Databases))
	for i, d := range s.Databases {
		names[i] = d.Name
	}
	return names
}
