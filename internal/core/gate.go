package core

import "strings"

// GateState is the confirmation gate's position.
type GateState int

const (
	GateIdle GateState = iota
	GateAwaitingConfirmation
)

func (g GateState) String() string {
	switch g {
	case GateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "idle"
	}
}

// QueryKind labels a pending statement for the confirmation prompt.
type QueryKind struct {
	Type    string
	Message string
	Color   string
}

var queryKinds = []QueryKind{
	{Type: "UPDATE", Message: "This will modify existing data", Color: "#f39c12"},
	{Type: "DELETE", Message: "This will permanently delete data", Color: "#e74c3c"},
	{Type: "DROP", Message: "This will permanently drop a table/database", Color: "#c0392b"},
	{Type: "TRUNCATE", Message: "This will delete all rows from the table", Color: "#e67e22"},
	{Type: "INSERT", Message: "This will add new data", Color: "#27ae60"},
	{Type: "ALTER", Message: "This will modify the table structure", Color: "#8e44ad"},
}

var genericKind = QueryKind{Type: "MODIFY", Message: "This will modify your database", Color: "#95a5a6"}

// ClassifySQL picks a warning label from the statement's leading keyword.
// It is a case-insensitive prefix check and nothing more; the SQL is not
// parsed or validated.
func ClassifySQL(sql string) QueryKind {
	upper := strings.ToUpper(strings.TrimSpace(sql))
	for _, k := range queryKinds {
		if strings.HasPrefix(upper, k.Type) {
			return k
		}
	}
	return genericKind
}
