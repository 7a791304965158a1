package logging

// Keys shared by every logger built here. The JSON handler renames the slog
// built-ins to FieldTime, FieldLevel, FieldMessage and FieldSource; the
// console handler lifts FieldComponent, FieldOperation and FieldPassID into
// the line header.
const (
	FieldTime    = "ts"
	FieldLevel   = "level"
	FieldMessage = "msg"
	FieldSource  = "source"

	// FieldComponent names the subsystem writing the line.
	FieldComponent = "component"
	// FieldPassID correlates every line of one save, load or sweep pass.
	FieldPassID = "pass_id"
	// FieldOperation names the pass being run, such as load_queue.
	FieldOperation = "operation"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to an operator.
	FieldErrorHint = "error_hint"
	// FieldImpact says what a warning cost the caller.
	FieldImpact = "impact"
)
