// Package core defines the shared data model for CareerMesh: role-tagged
// agent descriptors, the append-only conversation log, tool invocation
// records, interview session state and the error taxonomy used by the
// orchestration and model layers.
package core
