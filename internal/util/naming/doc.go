// Package naming provides consistent naming functions for state archives.
//
// Archive directories follow the pattern {prefix}{cluster} inside the
// workspace (tf.state_my-cluster by default). Identity-less state that has
// to be moved aside is stashed under {prefix}@unclaimed-{timestamp}; the
// "@" never appears in EKS cluster names, so a stash cannot shadow an
// archive. Mirror object keys follow {mirrorPrefix}/{cluster}/{file}.
package naming
