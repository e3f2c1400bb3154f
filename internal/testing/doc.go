// Package testing provides test utilities, builders, and fixtures for unit and integration tests.
//
// This package centralizes common testing patterns to avoid duplication across test files:
//   - ConfigBuilder: Fluent builder for creating test configs
//   - State fixtures: Terraform state documents naming a cluster
//   - FakeRunner: Scripted command runner recording every invocation
//   - MockConfirmer: testify mock for the operator confirmation prompt
//
// Usage:
//
//	cfg := testing.NewConfigBuilder().
//	    WithDefaultTarget("alpha").
//	    Build()
//
//	runner := &testing.FakeRunner{}
//	testing.WriteStateSet(t, dir, testing.EKSState("alpha"), "")
package testing
