// Package httpapi exposes the upload/download boundary. It validates photos
// before the core ever sees them, issues batch ids, and serves the resulting
// artifacts individually or as a ZIP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nbelhadj/registre-extractor/constants"
	"github.com/nbelhadj/registre-extractor/internal/archive"
	"github.com/nbelhadj/registre-extractor/internal/batch"
	"github.com/nbelhadj/registre-extractor/internal/entity"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Runner is the batch pipeline as this layer sees it.
type Runner interface {
	Run(ctx context.Context, batchID string, photos []entity.UploadedPhoto) (entity.BatchManifest, []entity.OutputArtifact, error)
}

type rejectedFile struct {
	PhotoName string `json:"photo_name"`
	Error     string `json:"error"`
}

type uploadResponse struct {
	BatchID  string               `json:"batch_id"`
	Results  []entity.PhotoResult `json:"results"`
	Rejected []rejectedFile       `json:"rejected,omitempty"`
}

type Server struct {
	log            *slog.Logger
	runner         Runner
	store          *batch.Store
	maxUploadBytes int64
}

func NewServer(logger *slog.Logger, runner Runner, store *batch.Store, maxUploadMB int) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if maxUploadMB <= 0 {
		maxUploadMB = constants.MaxUploadMBDefault
	}
	return &Server{
		log:            logger,
		runner:         runner,
		store:          store,
		maxUploadBytes: int64(maxUploadMB) * 1024 * 1024,
	}
}

// Routes wires the gin engine.
func (s *Server) Routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.MaxMultipartMemory = s.maxUploadBytes

	r.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.POST("/upload", s.handleUpload)
	r.GET("/batches/:batch_id", s.handleManifest)
	r.GET("/download/:batch_id/:filename", s.handleDownload)
	r.GET("/download_all/:batch_id", s.handleDownloadAll)
	return r
}

func (s *Server) handleUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files selected"})
		return
	}

	var photos []entity.UploadedPhoto
	var rejected []rejectedFile
	seen := map[string]bool{}
	for _, fh := range files {
		photo, why := s.acceptFile(fh, seen)
		if why != "" {
			rejected = append(rejected, rejectedFile{PhotoName: fh.Filename, Error: why})
			continue
		}
		seen[photo.Name] = true
		photos = append(photos, photo)
	}

	if len(photos) == 0 {
		c.JSON(http.StatusBadRequest, uploadResponse{Rejected: rejected})
		return
	}

	batchID := uuid.New().String()
	manifest, artifacts, err := s.runner.Run(c.Request.Context(), batchID, photos)
	if err != nil {
		s.log.Error("httpapi.upload.batch_error", "batch_id", batchID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "batch processing failed"})
		return
	}
	s.store.Put(manifest, artifacts)

	c.JSON(http.StatusOK, uploadResponse{
		BatchID:  batchID,
		Results:  manifest.Entries,
		Rejected: rejected,
	})
}

// acceptFile applies the boundary gate: sanitized unique name, allowed image
// extension, size ceiling. Returns a non-empty reason when the file is
// rejected.
func (s *Server) acceptFile(fh *multipart.FileHeader, seen map[string]bool) (entity.UploadedPhoto, string) {
	name := filepath.Base(fh.Filename)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return entity.UploadedPhoto{}, "invalid filename"
	}
	if seen[name] {
		return entity.UploadedPhoto{}, "duplicate filename in batch"
	}
	ext := constants.NormalizeExt(filepath.Ext(name))
	if !constants.AllowedExt(ext) {
		return entity.UploadedPhoto{}, "invalid file type, only JPG/PNG allowed"
	}
	if fh.Size > s.maxUploadBytes {
		return entity.UploadedPhoto{}, fmt.Sprintf("file exceeds %d byte limit", s.maxUploadBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return entity.UploadedPhoto{}, "unreadable file"
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.log.Warn("httpapi.upload.close_error", "file", name, "error", cerr)
		}
	}()
	content, err := io.ReadAll(io.LimitReader(f, s.maxUploadBytes+1))
	if err != nil {
		return entity.UploadedPhoto{}, "unreadable file"
	}
	if int64(len(content)) > s.maxUploadBytes {
		return entity.UploadedPhoto{}, fmt.Sprintf("file exceeds %d byte limit", s.maxUploadBytes)
	}

	return entity.UploadedPhoto{Name: name, Content: content, Ext: ext}, ""
}

func (s *Server) handleManifest(c *gin.Context) {
	manifest, err := s.store.Manifest(c.Param("batch_id"))
	if err != nil {
		s.notFoundOrError(c, err)
		return
	}
	c.JSON(http.StatusOK, manifest)
}

func (s *Server) handleDownload(c *gin.Context) {
	name := filepath.Base(c.Param("filename"))
	art, err := s.store.Artifact(c.Param("batch_id"), name)
	if err != nil {
		s.notFoundOrError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", art.Name))
	c.Data(http.StatusOK, xlsxContentType, art.Content)
}

func (s *Server) handleDownloadAll(c *gin.Context) {
	batchID := c.Param("batch_id")
	artifacts, err := s.store.Artifacts(batchID)
	if err != nil {
		s.notFoundOrError(c, err)
		return
	}
	zipped, err := archive.BuildZip(artifacts)
	if err != nil {
		s.log.Error("httpapi.download_all.zip_error", "batch_id", batchID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive failed"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "batch_"+batchID+".zip"))
	c.Data(http.StatusOK, "application/zip", zipped)
}

func (s *Server) notFoundOrError(c *gin.Context, err error) {
	if errors.Is(err, batch.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
