// Package trust installs and verifies LocalDomain's root CA certificate in
// the OS trust store, so browsers and HTTP clients accept TLS connections
// served with locally-issued leaf certificates.
package trust

import "errors"

// ErrNonInteractive is returned by Install when the OS trust prompt could
// not be satisfied without a user present at a terminal (macOS Keychain
// access dialogs in particular fail this way when run from a background
// daemon). Callers should surface this distinctly from other install
// failures so the desktop client can prompt the user to run the CLI
// trust-ca command interactively instead.
var ErrNonInteractive = errors.New("non-interactive")
