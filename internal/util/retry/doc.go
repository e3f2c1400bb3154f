// Package retry retries transient failures with exponential backoff.
//
// [Do] is used for archive mirror transfers. Errors wrapped with [Permanent]
// end the loop immediately.
package retry
