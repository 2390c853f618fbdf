package app_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/app"
	"review_analyzer/internal/domain"
	"review_analyzer/internal/storage/memory"
)

func TestImport_SkipRules(t *testing.T) {
	st := memory.New()
	svc := app.NewImportService(st, fixedID("generated"))

	rows := []domain.RawReview{
		{Line: 2, ID: "a", Location: "Denver, Colorado", Timestamp: "2021-03-04 05:06:07", Body: "ok"},
		{Line: 3, ID: "b", Location: "Atlantis", Timestamp: "2021-03-04 05:06:07", Body: "ok"},
		{Line: 4, ID: "c", Location: "Denver, Colorado", Timestamp: "2021-03-04 05:06:07", Body: ""},
		{Line: 5, ID: "d", Location: "Denver, Colorado", Timestamp: "03/04/2021", Body: "ok"},
		{Line: 6, ID: "a", Location: "Tucson, Arizona", Timestamp: "2021-03-05 05:06:07", Body: "dup"},
		{Line: 7, ID: "", Location: "Tucson, Arizona", Timestamp: "2021-03-06 05:06:07", Body: "no id"},
		{Line: 8, ID: "e", Location: "Tucson, Arizona", Timestamp: "2021-03-07 05:06:07", Body: "   "},
	}

	res := svc.Import(context.Background(), rows)
	assert.Equal(t, app.ImportResult{Imported: 3, Skipped: 4}, res)

	snap := st.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "a", snap[0].ID)
	assert.Equal(t, "Denver, Colorado", snap[0].Location)
	assert.Equal(t, "2021-03-04 05:06:07", snap[0].Timestamp.Format(domain.TimestampLayout))
	assert.Equal(t, "generated", snap[1].ID)
	assert.Equal(t, "no id", snap[1].Body)
	assert.Equal(t, "   ", snap[2].Body, "whitespace-only bodies are kept")
}

func TestImport_CanceledContextStops(t *testing.T) {
	st := memory.New()
	svc := app.NewImportService(st, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := svc.Import(ctx, []domain.RawReview{
		{Line: 2, ID: "a", Location: "Denver, Colorado", Timestamp: "2021-03-04 05:06:07", Body: "ok"},
	})
	assert.Equal(t, 0, res.Imported)
	assert.Equal(t, 0, st.Len())
}
