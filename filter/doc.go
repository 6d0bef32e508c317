// Package filter provides the concrete conditioning stages: notch and
// bandpass filtering, rectification, Hampel and Wiener artifact screens,
// gap interpolation, and the smoothing family. Every stage works per valid
// run, so filter state and window statistics never cross an invalid gap.
package filter
