// Package resource enforces the memory budget of a run and throttles output IO.
package resource
