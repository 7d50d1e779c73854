package overtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransition(t *testing.T) {
	tests := []struct {
		from  ConsentStatus
		to    ConsentStatus
		valid bool
	}{
		{ConsentRequested, ConsentGiven, true},
		{ConsentRequested, ConsentDeclined, true},
		{ConsentRequested, ConsentCompleted, false},
		{ConsentGiven, ConsentCompleted, true},
		{ConsentDeclined, ConsentCompleted, true},
		{ConsentGiven, ConsentDeclined, false},
		{ConsentDeclined, ConsentGiven, false},
		{ConsentCompleted, ConsentRequested, false},
		{ConsentCompleted, ConsentGiven, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			err := Transition(tt.from, tt.to)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition)
			}
		})
	}
}

func TestDecision(t *testing.T) {
	assert.Equal(t, ConsentGiven, Decision(ConsentRequested, ConsentGiven))
	assert.Equal(t, ConsentDeclined, Decision(ConsentRequested, ConsentDeclined))
	assert.Equal(t, ConsentGiven, Decision(ConsentGiven, ConsentCompleted))
	assert.Equal(t, ConsentDeclined, Decision(ConsentDeclined, ConsentCompleted))
}

func TestParseConsentStatus(t *testing.T) {
	status, err := ParseConsentStatus("consented")
	require.NoError(t, err)
	assert.Equal(t, ConsentGiven, status)

	_, err = ParseConsentStatus("maybe")
	assert.Error(t, err)
}
