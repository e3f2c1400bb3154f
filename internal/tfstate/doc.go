// Package tfstate tracks which cluster's Terraform state occupies a shared
// workspace and swaps state sets in and out of per-cluster archive
// directories.
//
// A state set is terraform.tfstate plus an optional terraform.tfstate.backup.
// The owning cluster is recovered from the state contents: the name attribute
// of an aws_eks_cluster resource, or the suffix of a kubernetes.io/cluster/
// tag key on an aws_ec2_tag resource. A set whose two files name different
// clusters is inconsistent and is never archived or restored.
//
// Archives live next to the state files as <prefix><cluster>/ directories.
package tfstate
