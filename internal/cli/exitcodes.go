package cli

// Exit codes for CLI commands.
// These codes follow Unix conventions and provide consistent error reporting
// across all CLI commands.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitError indicates a general error occurred.
	// Use for: Database errors, daemon errors, unexpected failures,
	// or any error that doesn't fit the specific categories below.
	ExitError = 1

	// ExitUsage indicates incorrect command usage.
	// Use for: Missing required flags or invalid flag combinations.
	ExitUsage = 2

	// ExitNotFound indicates a requested resource was not found.
	// Use for: Pipeline, lane, ticket or tag IDs that don't exist.
	ExitNotFound = 3

	// ExitForbidden indicates the session may not touch the resource.
	ExitForbidden = 4

	// ExitValidation indicates a validation error.
	// Use for: Empty or too long names, negative values, bad colors,
	// or move positions that do not match the board.
	ExitValidation = 5

	// ExitConflict indicates another session changed the board first.
	// Reload and retry.
	ExitConflict = 6
)
