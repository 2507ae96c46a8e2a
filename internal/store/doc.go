// Package store defines the persistence interfaces the service layer
// depends on, together with the sentinel errors implementations map
// database failures onto. Concrete implementations live under
// internal/platform.
package store
