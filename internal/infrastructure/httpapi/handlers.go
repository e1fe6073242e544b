package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/semaphore"

	"onboarding-bot/internal/application/port/input"
	"onboarding-bot/internal/application/port/output"
	"onboarding-bot/internal/config"
	"onboarding-bot/internal/domain/entity"
	"onboarding-bot/internal/infrastructure/storage"
	"onboarding-bot/internal/usecase/submission"
)

const (
	defaultMaxUploadMB = 32
	multipartMemory    = 8 << 20
)

// Multipart field names accepted by the full onboarding endpoint.
var uploadFields = map[entity.DocumentKind]string{
	entity.DocumentIDBack:         "arquivo_rg_verso",
	entity.DocumentProofOfAddress: "arquivo_comprovante_endereco",
	entity.DocumentProofOfIncome:  "arquivo_comprovante_renda",
}

type Handlers struct {
	submissions input.SubmissionHandler
	logger      output.LoggerPort
	runs        *semaphore.Weighted
	runTimeout  time.Duration
	maxUpload   int64
}

func NewHandlers(submissions input.SubmissionHandler, logger output.LoggerPort, cfg config.ServerConfig) *Handlers {
	limit := cfg.MaxConcurrentRuns
	if limit < 1 {
		limit = 1
	}
	maxMB := cfg.MaxUploadMB
	if maxMB <= 0 {
		maxMB = defaultMaxUploadMB
	}
	return &Handlers{
		submissions: submissions,
		logger:      logger.WithField("component", "http_handlers"),
		runs:        semaphore.NewWeighted(limit),
		runTimeout:  cfg.RunTimeout,
		maxUpload:   maxMB << 20,
	}
}

func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", h.HandleHealthCheck)
	r.Post("/simular-e-cadastrar", h.HandleSimulateAndRegister)
	r.Post("/simular-cartao", h.HandleSimulate)
}

func (h *Handlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// HandleSimulateAndRegister runs the whole workflow. The body is multipart:
// "dados" holds the JSON context and each document arrives as a file part,
// or as a reference inside "dados".
func (h *Handlers) HandleSimulateAndRegister(w http.ResponseWriter, r *http.Request) {
	if !h.runs.TryAcquire(1) {
		h.respondWithError(w, http.StatusServiceUnavailable, "run capacity exhausted")
		return
	}
	defer h.runs.Release(1)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("invalid multipart body: %v", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	payload, err := submission.DecodePayload(strings.NewReader(r.FormValue("dados")))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	req := payload.Request(entity.RunPlan{})
	if err := localReference(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	var saved []string
	defer func() {
		for _, p := range saved {
			_ = os.Remove(p)
		}
	}()
	for kind, field := range uploadFields {
		file, header, err := r.FormFile(field)
		if errors.Is(err, http.ErrMissingFile) {
			continue
		}
		if err != nil {
			h.respondWithError(w, http.StatusBadRequest, fmt.Sprintf("read %s: %v", field, err))
			return
		}
		p, err := saveUpload(file, header)
		file.Close()
		if err != nil {
			h.logger.Error("Upload could not be saved", "field", field, "error", err)
			h.respondWithError(w, http.StatusInternalServerError, "could not store uploaded file")
			return
		}
		saved = append(saved, p)
		req.Documents[kind] = p
	}

	h.submit(w, r, req)
}

// HandleSimulate runs authentication and simulation only; the body is the
// JSON context.
func (h *Handlers) HandleSimulate(w http.ResponseWriter, r *http.Request) {
	if !h.runs.TryAcquire(1) {
		h.respondWithError(w, http.StatusServiceUnavailable, "run capacity exhausted")
		return
	}
	defer h.runs.Release(1)

	payload, err := submission.DecodePayload(http.MaxBytesReader(w, r.Body, h.maxUpload))
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := payload.Request(entity.RunPlan{SimulateOnly: true})
	if err := localReference(req); err != nil {
		h.respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.submit(w, r, req)
}

// localReference rejects document references naming files on this machine.
// Over HTTP a document is either uploaded or fetched from a URL or the bucket.
func localReference(req input.SubmissionRequest) error {
	for kind, ref := range req.Documents {
		if ref != "" && !storage.IsRemote(ref) {
			return fmt.Errorf("document %s must be uploaded or referenced by URL or do:// key", kind)
		}
	}
	return nil
}

// submit detaches the run from the client connection: a browser run stopped
// halfway leaves a half-filled registration behind. Only RunTimeout bounds it.
func (h *Handlers) submit(w http.ResponseWriter, r *http.Request, req input.SubmissionRequest) {
	ctx := context.WithoutCancel(r.Context())
	if h.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.runTimeout)
		defer cancel()
	}

	h.logger.Info("Submission received",
		"cpf", maskTaxID(req.Context.TaxID),
		"simulate_only", req.Plan.SimulateOnly,
		"documents", len(req.Documents),
	)

	outcome, err := h.submissions.Submit(ctx, req)
	if err != nil {
		if errors.Is(err, submission.ErrInvalidRequest) {
			h.respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("Submission failed", "error", err)
		h.respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.respondWithOutcome(w, outcome)
}

type response struct {
	Status  string             `json:"status"`
	Message string             `json:"message,omitempty"`
	Error   string             `json:"error,omitempty"`
	Data    *entity.RunOutcome `json:"data,omitempty"`
}

func (h *Handlers) respondWithOutcome(w http.ResponseWriter, outcome entity.RunOutcome) {
	switch outcome.Status {
	case entity.RunSucceeded:
		h.respondWithStatus(w, http.StatusOK, response{
			Status:  "success",
			Message: "workflow completed",
			Data:    &outcome,
		})
	case entity.RunAuthenticationFailed:
		h.respondWithStatus(w, http.StatusUnauthorized, response{
			Status: "error",
			Error:  "login failed",
			Data:   &outcome,
		})
	default:
		msg := "workflow failed"
		if outcome.FailedStage != "" {
			msg = fmt.Sprintf("%s stage failed", outcome.FailedStage)
		}
		h.respondWithStatus(w, http.StatusInternalServerError, response{
			Status: "error",
			Error:  msg,
			Data:   &outcome,
		})
	}
}

func (h *Handlers) respondWithError(w http.ResponseWriter, statusCode int, message string) {
	h.respondWithStatus(w, statusCode, response{Status: "error", Error: message})
}

func (h *Handlers) respondWithStatus(w http.ResponseWriter, statusCode int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}

func saveUpload(file multipart.File, header *multipart.FileHeader) (string, error) {
	tmp, err := os.CreateTemp("", "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}

func maskTaxID(v string) string {
	if len(v) <= 4 {
		return strings.Repeat("*", len(v))
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}
