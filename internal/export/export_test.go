package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/internal/view"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	objects   map[string][]byte
	types     map[string]string
	uploadErr error
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeUploader) UploadFile(_ context.Context, key string, r io.Reader, size int64, ct string) error {
	if f.uploadErr != nil {
		return f.uploadErr
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	if int64(len(b)) != size {
		return errors.New("size mismatch")
	}
	f.objects[key] = b
	f.types[key] = ct
	return nil
}

func (f *fakeUploader) GetPresignedURL(_ context.Context, key, filename string, expires time.Duration) (string, error) {
	return "https://minio.local/users-admin/" + key + "?name=" + filename + "&ttl=" + expires.String(), nil
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteCSV(&buf, [][]models.User{
		{{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz"}},
		{{ID: 2, Name: "Graham, Jr.", Email: "jr@example.com"}},
	})
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Equal(t, "id,name,email\n1,Leanne Graham,Sincere@april.biz\n2,\"Graham, Jr.\",jr@example.com\n", buf.String())
}

func TestExportUploadsFilteredSortedView(t *testing.T) {
	up := newFakeUploader()
	e := New(up, 15*time.Minute)
	at := time.Date(2024, 3, 1, 12, 30, 45, 0, time.UTC)
	e.now = func() time.Time { return at }

	users := []models.User{
		{ID: 1, Name: "Bob", Email: "bob@example.com"},
		{ID: 2, Name: "Amy", Email: "amy@example.com"},
		{ID: 3, Name: "Zed", Email: "zed@example.com"},
	}
	res, err := e.Export(context.Background(), users, view.State{Query: "b", Sort: view.SortName, Dir: view.Asc, Page: 1, Size: 1})
	require.NoError(t, err)
	require.Equal(t, "exports/users-20240301T123045Z.csv", res.Key)
	require.Equal(t, 1, res.Rows)
	require.Equal(t, at.Add(15*time.Minute), res.ExpiresAt)
	require.Contains(t, res.URL, res.Key)
	require.Equal(t, "id,name,email\n1,Bob,bob@example.com\n", string(up.objects[res.Key]))
	require.Equal(t, "text/csv", up.types[res.Key])

	res, err = e.Export(context.Background(), users, view.State{Sort: view.SortName, Dir: view.Desc, Page: 2, Size: 1})
	require.NoError(t, err)
	require.Equal(t, 3, res.Rows, "every page is exported regardless of the current one")
	require.Equal(t, "id,name,email\n3,Zed,zed@example.com\n1,Bob,bob@example.com\n2,Amy,amy@example.com\n", string(up.objects[res.Key]))
}

func TestExportEmptyViewWritesHeader(t *testing.T) {
	up := newFakeUploader()
	res, err := New(up, time.Minute).Export(context.Background(), nil, view.State{})
	require.NoError(t, err)
	require.Equal(t, 0, res.Rows)
	require.Equal(t, "id,name,email\n", string(up.objects[res.Key]))
}

func TestExportErrors(t *testing.T) {
	_, err := New(nil, time.Minute).Export(context.Background(), nil, view.State{})
	require.ErrorIs(t, err, ErrDisabled)
	require.False(t, New(nil, time.Minute).Enabled())

	up := newFakeUploader()
	up.uploadErr = errors.New("bucket gone")
	_, err = New(up, time.Minute).Export(context.Background(), []models.User{{ID: 1, Name: "a"}}, view.State{})
	require.ErrorContains(t, err, "bucket gone")
}
