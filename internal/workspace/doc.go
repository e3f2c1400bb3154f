// Package workspace resolves the shared Terraform workspace from the enclosing
// git repository and its project configuration.
//
// The resolved [Location] is an explicit handle: every later operation takes
// the workspace directory from it instead of relying on the process working
// directory.
package workspace
