package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejournal/backend/internal/domain/shared"
)

func TestSequenceTable_Check(t *testing.T) {
	table := DefaultSequenceTable()

	tests := []struct {
		name      string
		workType  WorkType
		committed []WorkType
		wantErr   bool
	}{
		{"no prerequisites", WorkTypePreparation, nil, false},
		{"unlisted type always allowed", WorkTypeOther, nil, false},
		{"prerequisite satisfied", WorkTypeFoundation, []WorkType{WorkTypePreparation, WorkTypeExcavation}, false},
		{"finishing before foundation chain", WorkTypeFinishing, nil, true},
		{"finishing after construction", WorkTypeFinishing, []WorkType{WorkTypePreparation, WorkTypeExcavation, WorkTypeFoundation, WorkTypeConstruction}, false},
		{"acceptance requires testing", WorkTypeAcceptance, []WorkType{WorkTypeFinishing}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := table.Check(tt.workType, tt.committed)
			if tt.wantErr {
				require.ErrorIs(t, err, shared.ErrSequenceViolation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSequenceTable_Validate(t *testing.T) {
	require.NoError(t, DefaultSequenceTable().Validate())

	assert.Error(t, SequenceTable{WorkType("demolition"): nil}.Validate())
	assert.Error(t, SequenceTable{WorkTypeFinishing: {WorkType("demolition")}}.Validate())
}

func TestWorkType_IsValid(t *testing.T) {
	assert.True(t, WorkTypeExcavation.IsValid())
	assert.True(t, WorkTypeOther.IsValid())
	assert.False(t, WorkType("demolition").IsValid())
}
