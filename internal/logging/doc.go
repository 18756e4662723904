// Package logging wires [log/slog] for the shareful CLI.
//
// Commands obtain a logger from their context via [FromContext]; root
// command setup builds one from the --verbose/--quiet/--log-format
// flags and attaches it with [NewContext]. The text handler colorizes
// on terminals, masks credential-looking attribute values, and adds a
// trace level below debug for per-file scan output. [NewMultiHandler]
// tees records to a --log-file alongside the terminal.
//
// In tests, [ForTest] routes records through t.Log so they surface only
// on failure:
//
//	r := repo.New(root, repo.WithLogger(logging.ForTest(t)))
package logging
