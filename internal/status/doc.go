// Package status resolves how each git repository under a root directory
// relates to its upstream branch.
//
// Resolver queries one repository, Classify turns its commit references into
// a SyncState, and Service fans out over every discovered repository while
// keeping results in discovery order. CommandBuilder wires the status Cobra
// command.
package status
