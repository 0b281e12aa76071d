package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/convoxai/convoxai/internal/audio"
	"github.com/convoxai/convoxai/internal/models"
	"github.com/convoxai/convoxai/internal/providers/stt"
	mongorepo "github.com/convoxai/convoxai/internal/repositories/mongo"
	"github.com/convoxai/convoxai/internal/services"
	"github.com/convoxai/convoxai/internal/utils"
	"github.com/convoxai/convoxai/internal/workers"
)

const maxUploadBytes = 50 << 20

type SummarizeHandler struct {
	summaries services.SummaryService
	jobs      mongorepo.TranscriptionRepo
	ingest    *workers.IngestWorkerPool
	prefs     services.ModelPrefService
}

func NewSummarizeHandler(summaries services.SummaryService, jobs mongorepo.TranscriptionRepo, ingest *workers.IngestWorkerPool, prefs services.ModelPrefService) *SummarizeHandler {
	return &SummarizeHandler{summaries: summaries, jobs: jobs, ingest: ingest, prefs: prefs}
}

// saveUpload validates the multipart audio_file field and writes it to a temp
// directory. Callers own cleanup of the returned directory.
func (h *SummarizeHandler) saveUpload(c *gin.Context, op string) (dir, path, fileName string, ok bool) {
	fh, err := c.FormFile("audio_file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'audio_file'", err))
		return "", "", "", false
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !audio.SupportedExtension(ext) {
		writeError(c, utils.E(utils.CodeUnsupportedFormat, op, "unsupported audio format "+ext, nil))
		return "", "", "", false
	}
	if fh.Size <= 0 || fh.Size > maxUploadBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max "+strconv.Itoa(maxUploadBytes>>20)+"MB)", nil))
		return "", "", "", false
	}

	dir, err = os.MkdirTemp("", "convox-audio-*")
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to allocate temp dir", err))
		return "", "", "", false
	}
	path = filepath.Join(dir, filepath.Base(fh.Filename))
	if err := c.SaveUploadedFile(fh, path); err != nil {
		_ = os.RemoveAll(dir)
		writeError(c, utils.E(utils.CodeInternal, op, "failed to store upload", err))
		return "", "", "", false
	}
	return dir, path, fh.Filename, true
}

func modelSizeFrom(c *gin.Context) (stt.ModelSize, error) {
	raw := c.PostForm("model_size")
	if raw == "" {
		raw = string(stt.ModelBase)
	}
	return stt.ParseModelSize(raw)
}

// Summarize handles POST /summarize: multipart audio in, structured summary
// out. The transcript is queued for background indexing so later chat queries
// can cite it.
func (h *SummarizeHandler) Summarize(c *gin.Context) {
	const op = "SummarizeHandler.Summarize"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	size, err := modelSizeFrom(c)
	if err != nil {
		writeError(c, err)
		return
	}

	dir, path, fileName, ok := h.saveUpload(c, op)
	if !ok {
		return
	}
	defer os.RemoveAll(dir)

	ctx := c.Request.Context()
	job := &models.TranscriptionJob{
		JobID:      uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		ModelSize:  string(size),
		Status:     models.JobStatusPending,
		IndexState: models.IndexStatusPending,
	}
	if err := h.jobs.Insert(ctx, job); err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to create job", err))
		return
	}

	modelChoice := c.PostForm("model")
	if modelChoice == "" {
		modelChoice = h.prefs.Get(ctx, userID)
	}

	_ = h.jobs.SetStatus(ctx, job.JobID, models.JobStatusTranscribing)
	transcript, err := h.summaries.Transcribe(ctx, path, size)
	if err != nil {
		_ = h.jobs.SetError(ctx, job.JobID, err.Error())
		writeError(c, err)
		return
	}
	_ = h.jobs.SetTranscript(ctx, job.JobID, transcript)

	_ = h.jobs.SetStatus(ctx, job.JobID, models.JobStatusSummarizing)
	out, err := h.summaries.SummarizeTranscript(ctx, userID, transcript, fileName, size, modelChoice)
	if err != nil {
		_ = h.jobs.SetError(ctx, job.JobID, err.Error())
		writeError(c, err)
		return
	}
	_ = h.jobs.SetStatus(ctx, job.JobID, models.JobStatusDone)

	if err := h.ingest.Enqueue(ctx, job.JobID, userID, fileName, out.Transcript); err != nil {
		// summary already produced; indexing will be retried on re-upload
		_ = h.jobs.SetIndexState(ctx, job.JobID, models.IndexStatusFailed)
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":             job.JobID,
		"summary":            out.Result,
		"summary_id":         out.SummaryID,
		"transcript":         out.Transcript,
		"model_used":         out.ModelUsed,
		"whisper_model_size": string(size),
	})
}

// Transcript handles POST /transcript: transcription without summarization.
func (h *SummarizeHandler) Transcript(c *gin.Context) {
	const op = "SummarizeHandler.Transcript"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	size, err := modelSizeFrom(c)
	if err != nil {
		writeError(c, err)
		return
	}

	dir, path, fileName, ok := h.saveUpload(c, op)
	if !ok {
		return
	}
	defer os.RemoveAll(dir)

	ctx := c.Request.Context()
	job := &models.TranscriptionJob{
		JobID:      uuid.NewString(),
		UserID:     userID,
		FileName:   fileName,
		ModelSize:  string(size),
		Status:     models.JobStatusPending,
		IndexState: models.IndexStatusPending,
	}
	if err := h.jobs.Insert(ctx, job); err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to create job", err))
		return
	}

	_ = h.jobs.SetStatus(ctx, job.JobID, models.JobStatusTranscribing)
	text, err := h.summaries.Transcribe(ctx, path, size)
	if err != nil {
		_ = h.jobs.SetError(ctx, job.JobID, err.Error())
		writeError(c, err)
		return
	}

	_ = h.jobs.SetTranscript(ctx, job.JobID, text)
	_ = h.jobs.SetStatus(ctx, job.JobID, models.JobStatusDone)

	if err := h.ingest.Enqueue(ctx, job.JobID, userID, fileName, text); err != nil {
		_ = h.jobs.SetIndexState(ctx, job.JobID, models.IndexStatusFailed)
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id":             job.JobID,
		"transcript":         text,
		"whisper_model_size": string(size),
	})
}

// Job handles GET /jobs/:job_id for polling index progress.
func (h *SummarizeHandler) Job(c *gin.Context) {
	const op = "SummarizeHandler.Job"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	jobID := c.Param("job_id")
	job, err := h.jobs.GetByJobID(c.Request.Context(), userID, jobID)
	if err == utils.ErrNotFound {
		writeError(c, utils.E(utils.CodeNotFound, op, "job not found", nil))
		return
	}
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to load job", err))
		return
	}
	c.JSON(http.StatusOK, job)
}

// Jobs handles GET /jobs.
func (h *SummarizeHandler) Jobs(c *gin.Context) {
	const op = "SummarizeHandler.Jobs"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	rows, err := h.jobs.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to list jobs", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": rows})
}
