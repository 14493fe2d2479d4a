package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopifyfeed/internal/db"
)

func TestRunRepository(t *testing.T) {
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL não definido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, url)
	require.NoError(t, err)
	defer pool.Close()

	repo := &RunRepository{DB: pool}
	require.NoError(t, repo.EnsureSchema(ctx))

	run := Run{
		ID:         uuid.New(),
		Domain:     "https://shop.example.com",
		SourceName: "products_export.csv",
		Format:     "csv",
		RowsIn:     3,
		RowsOut:    1,
		Status:     RunStatusOK,
		CreatedAt:  time.Now().UTC().Add(time.Hour),
	}
	require.NoError(t, repo.Save(ctx, run))

	recent, err := repo.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, run.ID, recent[0].ID)
	assert.Equal(t, 1, recent[0].RowsOut)
}
