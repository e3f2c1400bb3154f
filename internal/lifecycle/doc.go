// Package lifecycle brings clusters up and down through a workspace shared
// by every cluster.
//
// Each operation follows the same shape:
//
//  1. acquire: declare the target cluster in the workspace, archive the state
//     of whichever cluster occupied it, and restore the target's archive;
//  2. use: run the terraform and aws command sequence;
//  3. release: put the declaration back and return the workspace to its
//     previous occupant.
//
// Release runs on every exit path, including command failures and panics,
// and with a context that survives cancellation of the caller's.
package lifecycle
