package journal

import (
	"fmt"

	"github.com/ejournal/backend/internal/domain/shared"
)

// WorkType classifies the kind of construction work an entry records
type WorkType string

const (
	WorkTypePreparation  WorkType = "preparation"
	WorkTypeExcavation   WorkType = "excavation"
	WorkTypeFoundation   WorkType = "foundation"
	WorkTypeConstruction WorkType = "construction"
	WorkTypeUtilities    WorkType = "utilities"
	WorkTypeFinishing    WorkType = "finishing"
	WorkTypeLandscaping  WorkType = "landscaping"
	WorkTypeTesting      WorkType = "testing"
	WorkTypeAcceptance   WorkType = "acceptance"
	WorkTypeOther        WorkType = "other"
)

// IsValid checks if the work type is a known WorkType
func (w WorkType) IsValid() bool {
	switch w {
	case WorkTypePreparation, WorkTypeExcavation, WorkTypeFoundation,
		WorkTypeConstruction, WorkTypeUtilities, WorkTypeFinishing,
		WorkTypeLandscaping, WorkTypeTesting, WorkTypeAcceptance, WorkTypeOther:
		return true
	}
	return false
}

// String returns the string representation of WorkType
func (w WorkType) String() string {
	return string(w)
}

// SequenceTable maps each work type to the work types that must already be
// committed on the site before it may commit. Work types absent from the
// table have no prerequisites.
type SequenceTable map[WorkType][]WorkType

// DefaultSequenceTable returns the standard technology sequence for a
// general construction project
func DefaultSequenceTable() SequenceTable {
	return SequenceTable{
		WorkTypeExcavation:   {WorkTypePreparation},
		WorkTypeFoundation:   {WorkTypeExcavation},
		WorkTypeConstruction: {WorkTypeFoundation},
		WorkTypeUtilities:    {WorkTypeConstruction},
		WorkTypeFinishing:    {WorkTypeConstruction},
		WorkTypeLandscaping:  {WorkTypeConstruction},
		WorkTypeTesting:      {WorkTypeFinishing},
		WorkTypeAcceptance:   {WorkTypeTesting},
	}
}

// Validate checks every table key and prerequisite for unknown work types
func (t SequenceTable) Validate() error {
	for workType, prereqs := range t {
		if !workType.IsValid() {
			return shared.NewDomainError("INVALID_SEQUENCE_TABLE", fmt.Sprintf("Unknown work type %q", workType))
		}
		for _, p := range prereqs {
			if !p.IsValid() {
				return shared.NewDomainError("INVALID_SEQUENCE_TABLE", fmt.Sprintf("Unknown prerequisite %q for %q", p, workType))
			}
		}
	}
	return nil
}

// Check verifies that all prerequisites of workType appear among the work
// types already committed on the site
func (t SequenceTable) Check(workType WorkType, committed []WorkType) error {
	prereqs, ok := t[workType]
	if !ok {
		return nil
	}

	have := make(map[WorkType]bool, len(committed))
	for _, c := range committed {
		have[c] = true
	}

	for _, p := range prereqs {
		if !have[p] {
			return shared.ErrSequenceViolation
		}
	}
	return nil
}
