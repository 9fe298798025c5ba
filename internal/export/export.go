// Package export writes the derived user view as CSV to object storage.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/aDevMister/my-assesment/internal/models"
	"github.com/aDevMister/my-assesment/internal/view"
	"github.com/aDevMister/my-assesment/pkg/logger"
)

// ErrDisabled is returned when no object storage is configured.
var ErrDisabled = errors.New("export storage not configured")

const contentType = "text/csv"

// Uploader is the object storage the export lands in.
type Uploader interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	GetPresignedURL(ctx context.Context, key, filename string, expires time.Duration) (string, error)
}

// Result describes an uploaded export.
type Result struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Rows      int       `json:"rows"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Exporter struct {
	up  Uploader
	ttl time.Duration
	now func() time.Time
	log *logger.Component
}

// New returns an exporter. A nil uploader yields one that always fails with
// ErrDisabled.
func New(up Uploader, ttl time.Duration) *Exporter {
	return &Exporter{
		up:  up,
		ttl: ttl,
		now: time.Now,
		log: logger.Named("export"),
	}
}

// Enabled reports whether exports can be uploaded.
func (e *Exporter) Enabled() bool { return e != nil && e.up != nil }

// Key is the object key for an export taken at t.
func Key(t time.Time) string {
	return "exports/users-" + t.UTC().Format("20060102T150405Z") + ".csv"
}

// Export writes every page of the view of users under s as one CSV object
// and returns a presigned link to it.
func (e *Exporter) Export(ctx context.Context, users []models.User, s view.State) (Result, error) {
	if !e.Enabled() {
		return Result{}, ErrDisabled
	}
	var buf bytes.Buffer
	rows, err := WriteCSV(&buf, view.Pages(users, s))
	if err != nil {
		return Result{}, err
	}

	at := e.now()
	key := Key(at)
	if err := e.up.UploadFile(ctx, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), contentType); err != nil {
		e.log.Errorf("upload %s: %v", key, err)
		return Result{}, fmt.Errorf("upload export: %w", err)
	}
	url, err := e.up.GetPresignedURL(ctx, key, "users.csv", e.ttl)
	if err != nil {
		return Result{}, fmt.Errorf("presign export: %w", err)
	}
	e.log.Infof("exported %d users to %s", rows, key)
	return Result{Key: key, URL: url, Rows: rows, ExpiresAt: at.Add(e.ttl)}, nil
}

// WriteCSV writes the header and one record per user, page by page, and
// returns the number of records.
func WriteCSV(w io.Writer, pages [][]models.User) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "name", "email"}); err != nil {
		return 0, err
	}
	n := 0
	for _, page := range pages {
		for _, u := range page {
			if err := cw.Write([]string{strconv.Itoa(u.ID), u.Name, u.Email}); err != nil {
				return n, err
			}
			n++
		}
	}
	cw.Flush()
	return n, cw.Error()
}
