// Package pipeline pulls records from a Source, runs each tray through
// an Aligner, and fans the finished tray out to every Sink.
//
// The only contract a collaborator must implement is Aligner (Align).
// This keeps the alignment engine swappable and the loop testable.
package pipeline
