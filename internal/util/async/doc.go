// Package async runs independent tasks concurrently with a bounded number in
// flight.
//
// [Run] is used by the archive mirror to upload and delete objects in
// parallel.
package async
