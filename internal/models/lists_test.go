package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringListRoundTrip(t *testing.T) {
	value, err := StringList{"Math", "Physics"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["Math","Physics"]`, value)

	var fromBytes StringList
	require.NoError(t, fromBytes.Scan([]byte(`["Mon","Tue"]`)))
	assert.Equal(t, StringList{"Mon", "Tue"}, fromBytes)

	var fromNil StringList
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)
}

func TestIntListScanString(t *testing.T) {
	var periods IntList
	require.NoError(t, periods.Scan(`[1,2,6]`))
	assert.Equal(t, IntList{1, 2, 6}, periods)

	assert.Error(t, periods.Scan(42))
}

func TestNilListValueIsEmptyArray(t *testing.T) {
	value, err := IntList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestTeacherQualifiedFor(t *testing.T) {
	teacher := Teacher{QualifiedCourses: StringList{"Math"}}
	assert.True(t, teacher.QualifiedFor("Math"))
	assert.False(t, teacher.QualifiedFor("math"))
}
