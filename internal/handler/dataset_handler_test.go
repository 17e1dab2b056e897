package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/silverleaf-workload-api/internal/dataset"
	"github.com/noah-isme/silverleaf-workload-api/internal/models"
	"github.com/noah-isme/silverleaf-workload-api/internal/service"
	appErrors "github.com/noah-isme/silverleaf-workload-api/pkg/errors"
)

type fakeDatasetSrv struct {
	snap      *service.DatasetSnapshot
	uploadErr error
	uploaded  []dataset.UploadFile
	reloads   int
	cleared   int
}

func (f *fakeDatasetSrv) Current(context.Context) *service.DatasetSnapshot { return f.snap }

func (f *fakeDatasetSrv) Reload(context.Context) *service.DatasetSnapshot {
	f.reloads++
	return f.snap
}

func (f *fakeDatasetSrv) Upload(_ context.Context, files []dataset.UploadFile) (*service.DatasetSnapshot, error) {
	f.uploaded = files
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	return f.snap, nil
}

func (f *fakeDatasetSrv) ClearOverride(context.Context) *service.DatasetSnapshot {
	f.cleared++
	return f.snap
}

func testSnapshot(source models.DatasetSource) *service.DatasetSnapshot {
	return &service.DatasetSnapshot{
		Bundle: &models.Bundle{
			Source:   source,
			LoadedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
			Requests: []models.Request{{RequestID: 1}, {RequestID: 2}},
		},
		Warnings: []string{"ignored notes.csv: unrecognized file name"},
		Version:  5,
	}
}

func multipartRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := writer.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	req := httptest.NewRequest(http.MethodPost, "/dataset/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestDatasetHandlerInfo(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDatasetHandler(&fakeDatasetSrv{snap: testSnapshot(models.SourceCSV)}, 0)

	c, w := newGinContext(http.MethodGet, "/dataset", nil)
	handler.Info(c)

	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Data models.DatasetInfo     `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, models.SourceCSV, body.Data.Source)
	assert.Equal(t, uint64(5), body.Data.Version)
	assert.Equal(t, 2, body.Data.Requests)
	assert.Equal(t, "csv", body.Meta["source"])
	assert.Len(t, body.Meta["warnings"], 1)
}

func TestDatasetHandlerUpload(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDatasetSrv{snap: testSnapshot(models.SourceUploaded)}
	handler := NewDatasetHandler(srv, 1<<20)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, map[string]string{
		"requests.csv": "request_id,request_type,status,assigned_admin_id\n1,Transcript Request,Pending,1\n",
		"notes.csv":    "a,b\n1,2\n",
	})

	handler.Upload(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, srv.uploaded, 2)
	names := []string{srv.uploaded[0].Name, srv.uploaded[1].Name}
	assert.ElementsMatch(t, []string{"requests.csv", "notes.csv"}, names)
	assert.Contains(t, w.Body.String(), `"source":"uploaded"`)
}

func TestDatasetHandlerUploadRequiresFiles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDatasetSrv{snap: testSnapshot(models.SourceCSV)}
	handler := NewDatasetHandler(srv, 0)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, map[string]string{})

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, srv.uploaded)
}

func TestDatasetHandlerUploadPropagatesValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDatasetSrv{uploadErr: appErrors.Clone(appErrors.ErrValidation, dataset.ErrNoRecognizedFiles.Error())}
	handler := NewDatasetHandler(srv, 0)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = multipartRequest(t, map[string]string{"notes.csv": "a\n1\n"})

	handler.Upload(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "no recognized dataset files")
}

func TestDatasetHandlerReloadAndClear(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDatasetSrv{snap: testSnapshot(models.SourceSample)}
	handler := NewDatasetHandler(srv, 0)

	c, w := newGinContext(http.MethodPost, "/dataset/reload", nil)
	handler.Reload(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newGinContext(http.MethodDelete, "/dataset/override", nil)
	handler.ClearOverride(c)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1, srv.reloads)
	assert.Equal(t, 1, srv.cleared)
}
