// Package store provides the SQLite-backed build ledger.
//
// Every Build against an output directory appends one row to the builds
// table recording the provenance tag, the input and artifact digests, and
// whether the artifact was generated or the existing one was kept.
//
// The ledger is an audit trail only. The generation gate never reads it;
// check uses it to report that an artifact predates its current inputs.
//
// The ledger is opt-in (generate --ledger or CDPGEN_LEDGER=1). Open creates
// it; OpenExisting, used by check and history, never does.
//
// # Database Configuration
//
//   - journal_mode=DELETE: no -wal or -shm files beside the artifact
//   - synchronous=FULL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//
// Open reads every pragma back and fails if one did not take effect.
//
// Digests are computed by internal/ir/hash.go using SHA-256 with domain
// separation.
package store
