package main

// DefaultActivityLimit is the number of activity entries shown by default.
const DefaultActivityLimit = 20

// Valid values for enum flags.
var (
	validFormats   = []string{"json", "csv"}
	validConflicts = []string{"skip", "overwrite"}
	validStatuses  = []string{"pending", "translated", "approved"}
)
