package services

import (
	"context"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/convoxai/convoxai/internal/models"
	pgrepo "github.com/convoxai/convoxai/internal/repositories/postgres"
	"github.com/convoxai/convoxai/internal/storage"
	"github.com/convoxai/convoxai/internal/utils"
)

const signedURLTTL = 15 * time.Minute

// AudioFileView is an AudioFile plus a short-lived download URL.
type AudioFileView struct {
	models.AudioFile
	URL string `json:"url,omitempty"`
}

type AudioFileService interface {
	Upload(ctx context.Context, userID, fileName, contentType string, size int64, r io.Reader) (*AudioFileView, error)
	List(ctx context.Context, userID string, limit int) ([]AudioFileView, error)
	Delete(ctx context.Context, userID, fileID string) error
}

type audioFileService struct {
	files    pgrepo.AudioFileRepo
	uploader storage.Uploader
	signer   storage.Signer
}

func NewAudioFileService(files pgrepo.AudioFileRepo, uploader storage.Uploader, signer storage.Signer) AudioFileService {
	return &audioFileService{files: files, uploader: uploader, signer: signer}
}

func (s *audioFileService) Upload(ctx context.Context, userID, fileName, contentType string, size int64, r io.Reader) (*AudioFileView, error) {
	const op = "AudioFileService.Upload"

	if userID == "" || fileName == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id and file_name are required", nil)
	}

	id := uuid.NewString()
	objectName := path.Join("audio", userID, id+path.Ext(fileName))

	storedPath, err := s.uploader.Upload(ctx, objectName, contentType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to upload audio file", err)
	}

	row := &models.AudioFile{
		ID:          id,
		UserID:      userID,
		FileName:    fileName,
		StoragePath: storedPath,
		FileSize:    size,
		MimeType:    contentType,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.files.Insert(ctx, row); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to record audio file", err)
	}

	view := &AudioFileView{AudioFile: *row}
	if url, err := s.signer.SignedGetURL(ctx, storedPath, signedURLTTL); err == nil {
		view.URL = url
	}
	return view, nil
}

func (s *audioFileService) List(ctx context.Context, userID string, limit int) ([]AudioFileView, error) {
	const op = "AudioFileService.List"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	rows, err := s.files.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list audio files", err)
	}

	out := make([]AudioFileView, 0, len(rows))
	for _, row := range rows {
		view := AudioFileView{AudioFile: row}
		if url, err := s.signer.SignedGetURL(ctx, row.StoragePath, signedURLTTL); err == nil {
			view.URL = url
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *audioFileService) Delete(ctx context.Context, userID, fileID string) error {
	const op = "AudioFileService.Delete"

	if userID == "" || fileID == "" {
		return utils.E(utils.CodeInvalidArgument, op, "user_id and file_id are required", nil)
	}

	row, err := s.files.GetByID(ctx, userID, fileID)
	if err == utils.ErrNotFound {
		return utils.E(utils.CodeNotFound, op, "audio file not found", nil)
	}
	if err != nil {
		return utils.E(utils.CodeInternal, op, "failed to load audio file", err)
	}

	if err := s.uploader.Delete(ctx, row.StoragePath); err != nil {
		return utils.E(utils.CodeUnavailable, op, "failed to delete stored object", err)
	}
	if err := s.files.Delete(ctx, userID, fileID); err != nil && err != utils.ErrNotFound {
		return utils.E(utils.CodeInternal, op, "failed to delete audio file record", err)
	}
	return nil
}
