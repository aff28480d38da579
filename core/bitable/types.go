package bitable

// Record is a row of the remote table as returned by the API.
type Record struct {
	// RecordID is the remote identifier of the row.
	RecordID string `json:"record_id"`
	// Fields maps remote field names to their values.
	Fields map[string]any `json:"fields"`
}

// RecordUpdate addresses an existing row for a batch update.
type RecordUpdate struct {
	RecordID string         `json:"record_id"`
	Fields   map[string]any `json:"fields"`
}

// Field describes a column of the remote table.
type Field struct {
	FieldID   string `json:"field_id"`
	FieldName string `json:"field_name"`
	Type      int    `json:"type"`
}
