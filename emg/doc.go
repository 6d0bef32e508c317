// Package emg defines the core data model shared by the conditioning
// pipeline: channel records with per-sample validity masks, tables of named
// channels, CSV reading/writing, and the error taxonomy raised at stage
// boundaries.
package emg
