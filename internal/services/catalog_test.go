package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateFAARequirementValidation(t *testing.T) {
	db := newTestDB(t)

	cases := []struct {
		name  string
		input RequirementInput
	}{
		{"unknown certificate", RequirementInput{CertificateType: "glider", RequirementType: ReqTotalTime, Description: "x", MinimumValue: 1}},
		{"unknown requirement", RequirementInput{CertificateType: CertPrivatePilot, RequirementType: "yoga", Description: "x", MinimumValue: 1}},
		{"blank description", RequirementInput{CertificateType: CertPrivatePilot, RequirementType: ReqTotalTime, Description: "  ", MinimumValue: 1}},
		{"negative minimum", RequirementInput{CertificateType: CertPrivatePilot, RequirementType: ReqTotalTime, Description: "x", MinimumValue: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CreateFAARequirement(db, tc.input)
			require.Error(t, err)
			assert.Equal(t, 400, err.(ServiceError).Status)
		})
	}
}

func TestRequirementCRUD(t *testing.T) {
	db := newTestDB(t)

	id, err := CreateFAARequirement(db, RequirementInput{
		CertificateType: CertPrivatePilot,
		RequirementType: ReqTotalTime,
		Description:     "Total flight time",
		MinimumValue:    40,
		Reference:       "14 CFR 61.109(a)",
	})
	require.NoError(t, err)

	item, err := GetFAARequirementByID(db, id)
	require.NoError(t, err)
	assert.Equal(t, "Total flight time", item.Description)
	assert.InDelta(t, 40, item.MinimumValue, 1e-9)

	require.NoError(t, UpdateFAARequirement(db, id, RequirementInput{
		CertificateType: CertPrivatePilot,
		RequirementType: ReqTotalTime,
		Description:     "Total flight time",
		MinimumValue:    35,
		Reference:       "14 CFR 61.109(a)",
	}))
	item, err = GetFAARequirementByID(db, id)
	require.NoError(t, err)
	assert.InDelta(t, 35, item.MinimumValue, 1e-9)

	require.NoError(t, DeleteFAARequirement(db, id))
	_, err = GetFAARequirementByID(db, id)
	require.Error(t, err)
}

func TestUpdateFAARequirementMissing(t *testing.T) {
	db := newTestDB(t)

	err := UpdateFAARequirement(db, "no-such-id", RequirementInput{
		CertificateType: CertPrivatePilot,
		RequirementType: ReqTotalTime,
		Description:     "x",
		MinimumValue:    1,
	})
	require.Error(t, err)
	assert.Equal(t, 404, err.(ServiceError).Status)
}

func TestGetFAARequirementsFiltersByCertificate(t *testing.T) {
	db := newTestDB(t)
	seedRequirement(t, db, CertPrivatePilot, ReqTotalTime, 40)
	seedRequirement(t, db, CertCommercialPilot, ReqTotalTime, 250)

	items, err := GetFAARequirements(db, CertPrivatePilot)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, string(CertPrivatePilot), items[0].CertificateType)

	all, err := GetFAARequirements(db, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEnsureRequirementCatalogIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	require.NoError(t, EnsureRequirementCatalog(db))
	var first int
	require.NoError(t, db.Get(&first, `SELECT count(*) FROM faa_requirements`))
	require.Equal(t, len(privatePilotSeed), first)

	require.NoError(t, EnsureRequirementCatalog(db))
	var second int
	require.NoError(t, db.Get(&second, `SELECT count(*) FROM faa_requirements`))
	assert.Equal(t, first, second)
}
