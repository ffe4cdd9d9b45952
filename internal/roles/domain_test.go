package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	role, err := Parse(" Center_Admin ")
	require.NoError(t, err)
	assert.Equal(t, CenterAdmin, role)

	_, err = Parse("owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = Parse("")
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestAssignmentValidate(t *testing.T) {
	center := int64(3)
	assert.NoError(t, Assignment{Role: CenterAdmin, CenterID: &center}.Validate())
	assert.NoError(t, Assignment{Role: SuperAdmin}.Validate())
	assert.ErrorIs(t, Assignment{Role: CenterAdmin}.Validate(), ErrCenterRequired)
	assert.ErrorIs(t, Assignment{Role: User, CenterID: &center}.Validate(), ErrUnexpectedCenter)
	assert.ErrorIs(t, Assignment{Role: "root"}.Validate(), ErrInvalidRole)
}
