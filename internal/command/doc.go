// Package command runs external tools and ordered sequences of them.
//
// A [Runner] executes one [Command] without a shell and reports its exit
// status; a nonzero exit is a result, not an error. [Sequence] runs named
// steps in order and stops at the first nonzero exit with a [*CommandError].
package command
