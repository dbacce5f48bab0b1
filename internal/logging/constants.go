package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldComponent  = "component"
	FieldLineItem   = "line_item"
	FieldDriver     = "driver"
	FieldScenario   = "scenario"
	FieldMonths     = "months"
	FieldScore      = "score"
	FieldMethod     = "method"
	FieldCategory   = "category"
	FieldReason     = "reason"
	FieldCount      = "count"
	FieldError      = "error"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
