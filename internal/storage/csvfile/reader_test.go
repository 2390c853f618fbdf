package csvfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"review_analyzer/internal/storage/csvfile"
)

func TestRead_ByHeaderName(t *testing.T) {
	in := "Extra,ReviewBody,Timestamp,Location,ReviewId\n" +
		`x,"Great, friendly staff",2023-01-02 10:00:00,"Denver, Colorado",id-1` + "\n" +
		`y,Slow service,2023-01-03 11:30:00,"El Paso, Texas", id-2 ` + "\n"

	rows, err := csvfile.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "id-1", rows[0].ID)
	assert.Equal(t, "Denver, Colorado", rows[0].Location)
	assert.Equal(t, "2023-01-02 10:00:00", rows[0].Timestamp)
	assert.Equal(t, "Great, friendly staff", rows[0].Body)
	assert.Equal(t, 2, rows[0].Line)

	assert.Equal(t, "id-2", rows[1].ID)
	assert.Equal(t, "El Paso, Texas", rows[1].Location)
	assert.Equal(t, 3, rows[1].Line)
}

func TestRead_ReviewIdOptional(t *testing.T) {
	in := "Location,Timestamp,ReviewBody\n\"Tucson, Arizona\",2023-05-01 00:00:00,Nice\n"
	rows, err := csvfile.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].ID)
}

func TestRead_ShortRowsKeepEmptyFields(t *testing.T) {
	in := "ReviewId,Location,Timestamp,ReviewBody\nid-1,\"Tucson, Arizona\"\n"
	rows, err := csvfile.Read(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "", rows[0].Timestamp)
	assert.Equal(t, "", rows[0].Body)
}

func TestRead_StripsBOM(t *testing.T) {
	in := "\ufeffReviewId,Location,Timestamp,ReviewBody\nid-1,\"Tucson, Arizona\",2023-05-01 00:00:00,Nice\n"
	rows, err := csvfile.Read(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "id-1", rows[0].ID)
}

func TestRead_MissingColumn(t *testing.T) {
	_, err := csvfile.Read(strings.NewReader("ReviewId,Location,ReviewBody\n"))
	assert.ErrorIs(t, err, csvfile.ErrMissingColumn)

	_, err = csvfile.Read(strings.NewReader(""))
	assert.ErrorIs(t, err, csvfile.ErrMissingColumn)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, []byte("Location,Timestamp,ReviewBody\n\"Fresno, California\",2023-05-01 00:00:00,Ok\n"), 0o600))

	rows, err := csvfile.Open(path)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	_, err = csvfile.Open(filepath.Join(t.TempDir(), "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
