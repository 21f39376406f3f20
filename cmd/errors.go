package cmd

import "mlog/errs"

// usageErrorf builds a fatal, exit-2 usage error (spec.md §7 item 4): bad
// flag or bad date expression, raised before any work starts.
func usageErrorf(format string, args ...any) error {
	return errs.Usagef(format, args...)
}

// exitCodeFor maps an error to the process exit code (spec.md §6 "Exit
// codes"): usage/IO errors are 2, everything else reaching Execute's error
// path (there shouldn't be anything else) falls back to 2 as well since
// EmptyResult is handled by each RunE returning nil with its own os.Exit(1).
func exitCodeFor(err error) int {
	if errs.IsUsage(err) || errs.IsIO(err) {
		return 2
	}
	return 2
}
