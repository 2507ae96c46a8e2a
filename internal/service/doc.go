// Package service contains the application services that sit between
// the HTTP handlers and the stores: user registration and login,
// per-user speech settings with API-key encryption, and job
// orchestration helpers.
package service
