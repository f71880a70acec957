package logging

// Common structured log field keys.
const (
	FieldSeason     = "season"
	FieldTeam       = "team"
	FieldGame       = "game"
	FieldSet        = "set"
	FieldPath       = "path"
	FieldCount      = "count"
	FieldFailed     = "failed"
	FieldDurationMS = "duration_ms"
	FieldError      = "error"
)
