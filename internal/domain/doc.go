// Package domain defines the core business entities of the speech studio:
// users, their provider settings, generation jobs with their lifecycle
// state machine, and the prebuilt voice catalog.
package domain
