// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package registry

import (
	"github.com/bridgen/bridgen/internal/model"
)

// Store defines the interface for all registry operations. This allows for
// multiple database backends to be implemented.
type Store interface {
	// Generation run methods
	RecordRun(run model.GenerationRun) error
	FinishRun(id, status string) error
	GetAllRuns() ([]model.GenerationRun, error)
	GetRun(id string) (*model.GenerationRun, error)

	// Artifact methods
	AddArtifact(artifact model.Artifact) error
	GetArtifactsForRun(runID string) ([]model.Artifact, error)

	// Type mapping cache methods
	SaveMapping(mapping model.Mapping) error
	GetAllMappings() ([]model.Mapping, error)
	ClearMappings() (int, error)

	// Audit log methods
	LogAction(action, details string) error
	GetAllAuditLogEntries() ([]model.AuditLogEntry, error)
}
