// Package domain contains core concepts of the meeting translation system.
// This file defines the Meeting record and its lifecycle invariants.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Meeting is the in-memory mirror of a meeting record.
// Once IsActive turns false the meeting accepts no further audio or control
// events; only teardown notifications may still be delivered.
type Meeting struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	Name            string
	SourceLanguage  string
	TargetLanguages []string
	IsActive        bool
	StartTime       time.Time
	EndTime         *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewMeeting(tenantID uuid.UUID, name, sourceLanguage string, targetLanguages []string) Meeting {
	now := time.Now().UTC()
	if sourceLanguage == "" {
		sourceLanguage = DefaultLanguage
	}
	return Meeting{
		ID:              uuid.New(),
		TenantID:        tenantID,
		Name:            name,
		SourceLanguage:  sourceLanguage,
		TargetLanguages: lo.Uniq(targetLanguages),
		IsActive:        true,
		StartTime:       now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// Targets returns the target languages an utterance in the given source
// language must be translated into. TargetLanguages is a set: duplicates and
// ordering are irrelevant, and the source language itself is never a target.
func (m Meeting) Targets(source string) []string {
	return lo.Filter(lo.Uniq(m.TargetLanguages), func(lang string, _ int) bool {
		return lang != source
	})
}

// End marks the meeting terminated. EndTime is set exactly once.
func (m *Meeting) End(at time.Time) {
	if !m.IsActive {
		return
	}
	m.IsActive = false
	m.EndTime = &at
	m.UpdatedAt = at
}
