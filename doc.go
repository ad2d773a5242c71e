/*
Package usermode stores a per-user processing mode, either "real-time" or
"background", and mirrors every change to a durable backend.

Users that never set a mode report DefaultMode (background). Mode strings are
trimmed and lowercased before validation; anything else is rejected with an
*InvalidModeError.

	backend := usermode.NewFileBackend("user_prefs.json")
	store, err := usermode.NewStore(ctx, backend)
	if err != nil {
		return err
	}
	mode, err := store.Toggle(ctx, "42") // real-time

Three backends are provided: FileBackend (JSON or YAML, chosen by file
extension), DynamoBackend and SQLBackend. Each write rewrites the whole table.
A single process is expected to own the backend; concurrent writers from
separate processes overwrite each other.
*/
package usermode
