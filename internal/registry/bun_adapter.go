// Copyright (c) 2026 Bridgen Authors
// Bridgen - Java binding generator for Go libraries
// This source code is licensed under the MIT license found in the LICENSE file.

package registry

import (
	"context"
	"database/sql"
	"fmt"
	"os/user"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/bridgen/bridgen/internal/model"
	"github.com/bridgen/bridgen/util/slicest"
)

// RunModel maps the generation_runs table for Bun queries.
type RunModel struct {
	bun.BaseModel `bun:"table:generation_runs"`
	ID            string       `bun:"id,pk"`
	Package       string       `bun:"package"`
	Definition    string       `bun:"definition"`
	StartedAt     time.Time    `bun:"started_at"`
	FinishedAt    sql.NullTime `bun:"finished_at"`
	Status        string       `bun:"status"`
}

// ArtifactModel maps the artifacts table.
type ArtifactModel struct {
	bun.BaseModel `bun:"table:artifacts"`
	ID            int    `bun:"id,pk,autoincrement"`
	RunID         string `bun:"run_id"`
	Path          string `bun:"path"`
	Kind          string `bun:"kind"`
	SHA256        string `bun:"sha256"`
}

// MappingModel maps the type_mappings table.
type MappingModel struct {
	bun.BaseModel `bun:"table:type_mappings"`
	ID            int       `bun:"id,pk,autoincrement"`
	HostType      string    `bun:"host_type"`
	ForeignType   string    `bun:"foreign_type"`
	Direction     string    `bun:"direction"`
	CreatedAt     time.Time `bun:"created_at"`
}

// AuditLogModel maps the audit_log table.
type AuditLogModel struct {
	bun.BaseModel `bun:"table:audit_log"`
	ID            int    `bun:"id,pk,autoincrement"`
	Timestamp     string `bun:"timestamp"`
	Username      string `bun:"username"`
	Action        string `bun:"action"`
	Details       string `bun:"details"`
}

// bunStore implements Store on top of a *bun.DB. Dialect differences are
// handled by Bun itself; the store is the same for sqlite, mysql and
// postgres.
type bunStore struct {
	bun *bun.DB
}

func runModelToModel(r RunModel) model.GenerationRun {
	run := model.GenerationRun{
		ID:         r.ID,
		Package:    r.Package,
		Definition: r.Definition,
		StartedAt:  r.StartedAt,
		Status:     r.Status,
	}
	if r.FinishedAt.Valid {
		run.FinishedAt = r.FinishedAt.Time
	}
	return run
}

// RecordRun inserts the manifest row for a new generation run.
func (s *bunStore) RecordRun(run model.GenerationRun) error {
	ctx := context.Background()
	rm := RunModel{
		ID:         run.ID,
		Package:    run.Package,
		Definition: run.Definition,
		StartedAt:  run.StartedAt,
		Status:     run.Status,
	}
	if !run.FinishedAt.IsZero() {
		rm.FinishedAt = sql.NullTime{Time: run.FinishedAt, Valid: true}
	}
	if _, err := s.bun.NewInsert().Model(&rm).Exec(ctx); err != nil {
		return fmt.Errorf("failed to record run %s: %w", run.ID, err)
	}
	return nil
}

// FinishRun stamps a run with its final status and finish time.
func (s *bunStore) FinishRun(id, status string) error {
	ctx := context.Background()
	res, err := s.bun.NewUpdate().Model((*RunModel)(nil)).
		Set("status = ?", status).
		Set("finished_at = ?", time.Now()).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no run with id %s", id)
	}
	return nil
}

// GetAllRuns returns all recorded runs, newest first.
func (s *bunStore) GetAllRuns() ([]model.GenerationRun, error) {
	ctx := context.Background()
	var rows []RunModel
	if err := s.bun.NewSelect().Model(&rows).OrderExpr("started_at DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return slicest.Map(rows, runModelToModel), nil
}

// GetRun returns one run by ID, or nil when it does not exist.
func (s *bunStore) GetRun(id string) (*model.GenerationRun, error) {
	ctx := context.Background()
	var r RunModel
	err := s.bun.NewSelect().Model(&r).Where("id = ?", id).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	run := runModelToModel(r)
	return &run, nil
}

// AddArtifact records one emitted file for a run.
func (s *bunStore) AddArtifact(artifact model.Artifact) error {
	ctx := context.Background()
	am := ArtifactModel{
		RunID:  artifact.RunID,
		Path:   artifact.Path,
		Kind:   artifact.Kind,
		SHA256: artifact.SHA256,
	}
	if _, err := s.bun.NewInsert().Model(&am).Exec(ctx); err != nil {
		return fmt.Errorf("failed to add artifact %s: %w", artifact.Path, err)
	}
	return nil
}

// GetArtifactsForRun returns the artifacts of one run in path order.
func (s *bunStore) GetArtifactsForRun(runID string) ([]model.Artifact, error) {
	ctx := context.Background()
	var rows []ArtifactModel
	err := s.bun.NewSelect().Model(&rows).
		Where("run_id = ?", runID).
		OrderExpr("path ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return slicest.Map(rows, func(a ArtifactModel) model.Artifact {
		return model.Artifact{RunID: a.RunID, Path: a.Path, Kind: a.Kind, SHA256: a.SHA256}
	}), nil
}

// SaveMapping stores a resolved type mapping. The (host_type, direction)
// pair is unique; a re-save replaces the previous resolution inside a
// transaction so there is never a moment without a row.
func (s *bunStore) SaveMapping(mapping model.Mapping) error {
	ctx := context.Background()
	tx, err := s.bun.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.NewDelete().Model((*MappingModel)(nil)).
		Where("host_type = ?", mapping.HostType).
		Where("direction = ?", mapping.Direction).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to replace mapping for %s: %w", mapping.HostType, err)
	}

	createdAt := mapping.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	mm := MappingModel{
		HostType:    mapping.HostType,
		ForeignType: mapping.ForeignType,
		Direction:   mapping.Direction,
		CreatedAt:   createdAt,
	}
	if _, err := tx.NewInsert().Model(&mm).Exec(ctx); err != nil {
		return fmt.Errorf("failed to save mapping for %s: %w", mapping.HostType, err)
	}
	return tx.Commit()
}

// GetAllMappings returns the cached type mappings sorted by host type.
func (s *bunStore) GetAllMappings() ([]model.Mapping, error) {
	ctx := context.Background()
	var rows []MappingModel
	err := s.bun.NewSelect().Model(&rows).
		OrderExpr("host_type ASC, direction ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return slicest.Map(rows, func(m MappingModel) model.Mapping {
		return model.Mapping{
			HostType:    m.HostType,
			ForeignType: m.ForeignType,
			Direction:   m.Direction,
			CreatedAt:   m.CreatedAt,
		}
	}), nil
}

// ClearMappings drops the whole mapping cache and returns how many rows
// were removed.
func (s *bunStore) ClearMappings() (int, error) {
	ctx := context.Background()
	res, err := s.bun.NewDelete().Model((*MappingModel)(nil)).Where("1 = 1").Exec(ctx)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// LogAction inserts an audit log entry with the current OS user.
func (s *bunStore) LogAction(action, details string) error {
	ctx := context.Background()
	curUser, err := user.Current()
	username := "unknown"
	if err == nil {
		if parts := strings.Split(curUser.Username, `\`); len(parts) > 1 {
			username = parts[1]
		} else {
			username = curUser.Username
		}
	}
	am := AuditLogModel{
		Timestamp: time.Now().Format(time.RFC3339),
		Username:  username,
		Action:    action,
		Details:   details,
	}
	_, err = s.bun.NewInsert().Model(&am).Exec(ctx)
	return err
}

// GetAllAuditLogEntries returns the audit trail, newest first.
func (s *bunStore) GetAllAuditLogEntries() ([]model.AuditLogEntry, error) {
	ctx := context.Background()
	var rows []AuditLogModel
	if err := s.bun.NewSelect().Model(&rows).OrderExpr("timestamp DESC").Scan(ctx); err != nil {
		return nil, err
	}
	return slicest.Map(rows, func(a AuditLogModel) model.AuditLogEntry {
		return model.AuditLogEntry{
			ID:        a.ID,
			Timestamp: a.Timestamp,
			Username:  a.Username,
			Action:    a.Action,
			Details:   a.Details,
		}
	}), nil
}
