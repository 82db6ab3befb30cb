package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAircraftNormalizesTailNumber(t *testing.T) {
	db := newTestDB(t)

	id, err := CreateAircraft(db, " n172sp ", "Cessna", "172S")
	require.NoError(t, err)

	items, err := ListAircraft(db)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, id, items[0].ID)
	assert.Equal(t, "N172SP", items[0].TailNumber)
	assert.Equal(t, "ACTIVE", items[0].Status)
}

func TestCreateAircraftRejectsDuplicateTail(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateAircraft(db, "N172SP", "Cessna", "172S")
	require.NoError(t, err)

	_, err = CreateAircraft(db, "n172sp", "Cessna", "172S")
	require.Error(t, err)
	assert.Equal(t, 409, err.(ServiceError).Status)

	_, err = CreateAircraft(db, "  ", "Cessna", "172S")
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)
}

func TestRetireAircraft(t *testing.T) {
	db := newTestDB(t)

	id, err := CreateAircraft(db, "N172SP", "Cessna", "172S")
	require.NoError(t, err)
	require.NoError(t, RetireAircraft(db, id))

	items, err := ListAircraft(db)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "RETIRED", items[0].Status)
}
