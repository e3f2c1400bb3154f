// Package s3 mirrors state archives to an S3 bucket.
//
// The mirror is optional. When configured, every archive written locally is
// also uploaded under <prefix>/<cluster>/, a bring-up on a machine without a
// local archive fetches it first, and a confirmed teardown removes it.
package s3
