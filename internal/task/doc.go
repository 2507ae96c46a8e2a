// Package task implements the in-memory generation job queue: a
// single-consumer sequential processor that drains pending jobs in
// submission order, drives the speech-generation capability, and
// publishes playable audio clips onto the jobs it owns.
package task
