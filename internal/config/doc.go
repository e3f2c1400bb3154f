// Package config loads the project configuration that tells tfslot where the
// shared Terraform workspace lives and how to drive it.
//
// The file is INI with named sections. Keys in the unnamed/[DEFAULT] section
// locate the workspace ("target_cluster_dir") and the default identity
// ("target_cluster"); the remaining sections tune the declaration marker, the
// terraform and aws binaries, state archive naming and mirroring, and the
// operator policy. Key and section names are case-insensitive.
//
// All failures are reported as [*Error] so callers can distinguish
// configuration problems from runtime ones with errors.As.
package config
