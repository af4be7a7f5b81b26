package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/jobs-in-germany/internal/logging"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"github.com/stretchr/testify/require"
)

func TestStatsService_Banner(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Create(&[]models.User{
		{Email: "a@example.com", PasswordHash: "x", Role: "candidate"},
		{Email: "b@example.com", PasswordHash: "x", Role: "candidate"},
		{Email: "admin@example.com", PasswordHash: "x", Role: "admin"},
	}).Error)
	companies := []models.Company{{Name: "Charité"}, {Name: "Siemens"}}
	require.NoError(t, db.Create(&companies).Error)
	require.NoError(t, db.Create(&[]models.Job{
		{CompanyID: companies[0].ID, Title: "Pflegefachkraft", Status: models.JobStatusOpen},
		{CompanyID: companies[1].ID, Title: "Elektroniker", Status: models.JobStatusOpen},
		{CompanyID: companies[1].ID, Title: "Monteur", Status: models.JobStatusFilled},
	}).Error)

	payments := NewPaymentService(db, SimulatedGateway{}, logging.Discard())
	_, err := payments.Charge(context.Background(), 1, CardFields{Number: "4242424242424242", Course: "A1"})
	require.NoError(t, err)

	b, err := NewStatsService(db).Banner(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(2), b.OpenPositions)
	require.Equal(t, int64(2), b.PartnerCompanies)
	require.Equal(t, int64(2), b.Candidates)
	require.Equal(t, int64(1), b.Enrolments)
	require.Equal(t, map[string]string{
		"openPositions":    "2",
		"partnerCompanies": "2",
		"candidates":       "2",
		"enrolments":       "1",
	}, b.Display)
}
