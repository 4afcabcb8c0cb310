package main

// Exit codes used across all commands.
const (
	ExitSuccess     = 0 // Success
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (not initialized, invalid config)
	ExitDataError   = 3 // Data error (database failure, malformed input)
	ExitNotFound    = 4 // Requested paper or record not found
)
