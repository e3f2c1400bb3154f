// Package identity switches the cluster name declared in the workspace's
// Terraform project and puts it back afterwards.
//
// The field is located by text: a line of the form
//
//	<field> = "<value>"
//
// No other parsing of the file is attempted. [Mutator.Set] captures the file's
// exact bytes before changing anything, and [Mutator.Revert] writes those
// bytes back, so unrelated edits made before the call survive it.
package identity
