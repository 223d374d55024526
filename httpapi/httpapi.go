// Package httpapi is the thin HTTP surface over the core pipeline: upload
// a song for indexing, or query a snippet against the store. All domain
// logic lives in core/db/blob; handlers only marshal and dispatch.
package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"soundmark/apierr"
	"soundmark/blob"
	"soundmark/bus"
	"soundmark/core"
	"soundmark/db"
	"soundmark/metrics"
	"soundmark/models"
	"soundmark/utils"
)

// Server holds the dependencies the handlers need.
type Server struct {
	Bucket string
	Blobs  blob.Store
	Store  db.Store
	Worker *bus.Worker
	Log    *zap.Logger

	mux *http.ServeMux
}

// NewServer wires the routes and returns the http.Handler to serve. Song
// ingestion is asynchronous: handleUpload stages the upload in the blob
// store and hands it to worker as a SongUploaded event; worker fetches it
// back, fingerprints it, and persists the result.
func NewServer(bucket string, blobs blob.Store, store db.Store, worker *bus.Worker, log *zap.Logger) *Server {
	s := &Server{Bucket: bucket, Blobs: blobs, Store: store, Worker: worker, Log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("POST /songs", s.handleUpload)
	s.mux.HandleFunc("GET /songs/{id}/query", s.handleQuery)
	s.mux.HandleFunc("GET /jobs/{id}", s.handleJobStatus)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.mux.ServeHTTP(rec, r)

	m := metrics.Get()
	route := r.URL.Path
	m.HTTPRequestsTotal.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// statusRecorder captures the status code written through it so
// ServeHTTP can label the request metrics after the handler returns.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

const maxUploadBytes = 64 << 20 // 64 MiB

// handleUpload stages a new song upload: it writes the raw bytes to the
// blob store, then hands a SongUploaded event to the worker pool, which
// fetches it back, fingerprints it, and persists the result
// asynchronously (SPEC_FULL §6.3/§9). The response carries the job id the
// caller polls via handleJobStatus.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	title := r.FormValue("title")
	if title == "" {
		apierr.BadRequest("title is required").WriteJSON(w)
		return
	}

	data, err := readUploadFile(r, "audio")
	if err != nil {
		apierr.BadRequest(err.Error()).WriteJSON(w)
		return
	}

	key := utils.GenerateSongKey(title, r.FormValue("artist"))
	if err := s.Blobs.PutObject(r.Context(), s.Bucket, key, data); err != nil {
		apierr.Internal(err.Error()).WriteJSON(w)
		return
	}

	job, err := s.Worker.Submit(bus.SongUploaded{
		SongID:     title,
		S3Key:      key,
		UploadedAt: time.Now().Unix(),
	})
	if err != nil {
		apierr.Internal(err.Error()).WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{
		"job_id": job.ID,
		"status": job.Status,
	})
}

// handleJobStatus reports the lifecycle state of a previously submitted
// upload job.
func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	job, ok := s.Worker.Status(r.PathValue("id"))
	if !ok {
		apierr.NotFound("job").WriteJSON(w)
		return
	}

	body := map[string]any{"job_id": job.ID, "status": job.Status}
	if job.Err != nil {
		body["error"] = job.Err.Error()
	}
	writeJSON(w, http.StatusOK, body)
}

// handleQuery fingerprints an uploaded snippet, looks it up against the
// store, and resolves the winning song's title via the elector.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	data, err := readUploadFile(r, "audio")
	if err != nil {
		apierr.BadRequest(err.Error()).WriteJSON(w)
		return
	}

	fps, err := core.FingerprintPipeline(r.Context(), data)
	if err != nil {
		s.writePipelineErr(w, err)
		return
	}
	if len(fps) == 0 {
		apierr.NoMatches().WriteJSON(w)
		return
	}

	matches, err := s.Store.Lookup(r.Context(), fps)
	if err != nil {
		apierr.Internal(err.Error()).WriteJSON(w)
		return
	}

	songID, err := core.Elect(matches)
	if err != nil {
		s.writePipelineErr(w, err)
		return
	}

	title, err := s.Store.GetSong(r.Context(), songID)
	if err != nil {
		apierr.NotFound("song").WriteJSON(w)
		return
	}

	writeJSON(w, http.StatusOK, models.Song{ID: songID, Title: title})
}

func (s *Server) writePipelineErr(w http.ResponseWriter, err error) {
	apierr.FromPipelineError(err).WriteJSON(w)
}

func readUploadFile(r *http.Request, field string) ([]byte, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return nil, fmt.Errorf("parsing multipart form: %w", err)
	}
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, fmt.Errorf("reading %q field: %w", field, err)
	}
	defer file.Close()
	return io.ReadAll(file)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
