// Package pipeline defines the per-channel conditioning stage contract and
// the chain that runs stages in order. Stages operate on one channel at a
// time and must restrict their effect to valid samples; a stage may narrow
// the validity mask (artifact screens) but never widens it except through
// explicit gap reconstruction.
//
// Concrete stages live in the filter package and are registered by name in
// a Registry, so chains can be built from configuration files.
package pipeline
