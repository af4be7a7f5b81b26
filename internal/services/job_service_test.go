package services

import (
	"context"
	"testing"

	"github.com/justsurfingit/jobs-in-germany/internal/dtos"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"github.com/stretchr/testify/require"
)

func TestJobService_CreateAndList(t *testing.T) {
	db := newTestDB(t)
	s := NewJobService(db)
	ctx := context.Background()

	nurse, err := s.CreateJob(ctx, &dtos.JobCreationRequest{
		CompanyName: "Charité", Title: "Pflegefachkraft", JobLink: "https://example.com/1",
		Description: "Stationäre Pflege", City: "Berlin", GermanLevel: "B2", VisaSponsored: true,
	})
	require.NoError(t, err)
	require.Equal(t, models.JobStatusOpen, nurse.Status)
	require.Equal(t, "Berlin", nurse.Location)

	_, err = s.CreateJob(ctx, &dtos.JobCreationRequest{
		CompanyName: "Charité", Title: "Stationsleitung", JobLink: "https://example.com/2",
		Description: "Teamleitung", City: "Potsdam", Location: "Berlin-Mitte", Status: models.JobStatusFilled,
	})
	require.NoError(t, err)

	var companies []models.Company
	require.NoError(t, db.Find(&companies).Error)
	require.Len(t, companies, 1)
	require.Equal(t, "Berlin", companies[0].City)

	open, err := s.ListOpen(ctx, 10)
	require.NoError(t, err)
	require.Len(t, open, 1)
	require.Equal(t, "Pflegefachkraft", open[0].Title)
	require.Equal(t, "Charité", open[0].Company.Name)
	require.True(t, open[0].VisaSponsored)
}

func TestJobService_ListOpenLimit(t *testing.T) {
	s := NewJobService(newTestDB(t))
	ctx := context.Background()
	for _, title := range []string{"Elektriker", "Koch", "Busfahrer"} {
		_, err := s.CreateJob(ctx, &dtos.JobCreationRequest{
			CompanyName: "Deutsche Bahn", Title: title, JobLink: "https://example.com", Description: title,
		})
		require.NoError(t, err)
	}
	jobs, err := s.ListOpen(ctx, 2)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	all, err := s.ListOpen(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
}
