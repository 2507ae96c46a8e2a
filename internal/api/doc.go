// Package api contains the HTTP handlers, request/response models, and
// error mapping for the speech studio's REST surface.
package api
