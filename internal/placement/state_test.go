package placement

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMarkPlacedRequiresCompany(t *testing.T) {
	_, err := MarkPlaced("")
	require.ErrorIs(t, err, ErrCompanyRequired)

	_, err = MarkPlaced("   ")
	require.ErrorIs(t, err, ErrCompanyRequired)
}

func TestMarkPlacedThenNotPlaced(t *testing.T) {
	placed, err := MarkPlaced("Acme")
	require.NoError(t, err)
	require.Equal(t, StatusPlaced, placed.Status)
	require.Equal(t, "Acme", placed.CompanyName())
	require.True(t, placed.Valid())

	reset := MarkNotPlaced()
	require.Equal(t, StatusNotPlaced, reset.Status)
	require.Nil(t, reset.Company)
	require.True(t, reset.Valid())
}

func TestTransition(t *testing.T) {
	company := " Globex "
	placed, err := Transition("placed", &company)
	require.NoError(t, err)
	require.Equal(t, "Globex", placed.CompanyName())

	notPlaced, err := Transition("Not Placed", &company)
	require.NoError(t, err)
	require.Nil(t, notPlaced.Company, "company is cleared when leaving Placed")

	_, err = Transition("Placed", nil)
	require.ErrorIs(t, err, ErrCompanyRequired)

	_, err = Transition("Interviewing", nil)
	require.ErrorIs(t, err, ErrInvalidFormat)
}

func TestPlacementValid(t *testing.T) {
	company := "Acme"
	require.False(t, Placement{Status: StatusPlaced}.Valid())
	require.False(t, Placement{Status: StatusNotPlaced, Company: &company}.Valid())
	require.False(t, Placement{Status: "Unknown"}.Valid())
}
