package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	for in, want := range map[string]Role{
		"ADMIN":     RoleAdmin,
		"admin":     RoleAdmin,
		" moderator ": RoleModerator,
		"USER":      RoleUser,
	} {
		got, err := ParseRole(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseRole("superuser")
	require.ErrorIs(t, err, ErrValidation)
}

func TestParseProjectRole(t *testing.T) {
	got, err := ParseProjectRole("member")
	require.NoError(t, err)
	assert.Equal(t, ProjectRoleMember, got)

	_, err = ParseProjectRole("owner")
	require.ErrorIs(t, err, ErrValidation)
}

func TestValidateEmail(t *testing.T) {
	require.NoError(t, ValidateEmail("ana@frio.example"))
	require.ErrorIs(t, ValidateEmail(""), ErrValidation)
	require.ErrorIs(t, ValidateEmail("sin-arroba"), ErrValidation)
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("abc12!"))

	// corto
	require.ErrorIs(t, ValidatePassword("a1!"), ErrValidation)
	// sin dígito
	require.ErrorIs(t, ValidatePassword("abcdef!"), ErrValidation)
	// sin especial
	require.ErrorIs(t, ValidatePassword("abcdef1"), ErrValidation)
}

func TestValidateProjectFields(t *testing.T) {
	require.NoError(t, ValidateProjectFields("P-001", "Cámara Norte", ""))

	require.ErrorIs(t, ValidateProjectFields("", "nombre", ""), ErrValidation)
	require.ErrorIs(t, ValidateProjectFields("P-001", "  ", ""), ErrValidation)

	long := strings.Repeat("x", 251)
	require.ErrorIs(t, ValidateProjectFields(long, "nombre", ""), ErrValidation)
	require.ErrorIs(t, ValidateProjectFields("P-001", "nombre", long), ErrValidation)
}

func TestCoolingCoefficientValidate(t *testing.T) {
	ok := CoolingCoefficient{Category: ColdRoomCF, VolMin: 0, VolMax: 500, Coef: 120}
	require.NoError(t, ok.Validate())

	bad := CoolingCoefficient{Category: "GARAGE", VolMin: 0, VolMax: 500, Coef: 120}
	require.ErrorIs(t, bad.Validate(), ErrValidation)

	inverted := CoolingCoefficient{Category: ColdRoomCF, VolMin: 500, VolMax: 500, Coef: 120}
	require.ErrorIs(t, inverted.Validate(), ErrValidation)

	zeroCoef := CoolingCoefficient{Category: ColdRoomCF, VolMin: 0, VolMax: 500}
	require.ErrorIs(t, zeroCoef.Validate(), ErrValidation)
}
