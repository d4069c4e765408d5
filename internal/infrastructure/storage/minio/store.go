package minio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/x-ordo/evidentia/internal/domain/caserecord"
	"github.com/x-ordo/evidentia/internal/domain/evidence"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
	"github.com/x-ordo/evidentia/pkg/errors"
	types "github.com/x-ordo/evidentia/pkg/types/analysis"
	"github.com/x-ordo/evidentia/pkg/types/common"
)

var (
	_ caserecord.TranscriptStore = (*TranscriptStore)(nil)
	_ evidence.AttachmentStore   = (*AttachmentStore)(nil)
)

const transcriptContentType = "application/json"

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == 404
}

// ─────────────────────────────────────────────────────────────────────────────
// Transcript store
// ─────────────────────────────────────────────────────────────────────────────

// TranscriptStore keeps raw transcripts as JSON objects.  Each upload gets a
// fresh key so a re-upload never races a reader of the previous one.
type TranscriptStore struct {
	client *Client
	logger logging.Logger
}

// NewTranscriptStore builds the store on top of an established client.
func NewTranscriptStore(client *Client, log logging.Logger) *TranscriptStore {
	return &TranscriptStore{client: client, logger: log}
}

func (s *TranscriptStore) Put(ctx context.Context, caseID common.ID, msgs []types.Message) (string, error) {
	data, err := json.Marshal(msgs)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode transcript")
	}
	key := fmt.Sprintf("cases/%s/transcripts/%s.json", caseID, uuid.NewString())
	_, err = s.client.api.PutObject(ctx, s.client.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: transcriptContentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to upload transcript")
	}
	s.logger.Debug("transcript stored",
		logging.String("object_key", key),
		logging.Int("bytes", len(data)))
	return key, nil
}

func (s *TranscriptStore) Get(ctx context.Context, objectKey string) ([]types.Message, error) {
	obj, err := s.client.api.GetObject(ctx, s.client.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errors.Newf(errors.ErrCodeNotFound, "transcript object %s not found", objectKey)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to open transcript object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if isNoSuchKey(err) {
			return nil, errors.Newf(errors.ErrCodeNotFound, "transcript object %s not found", objectKey)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read transcript object")
	}

	var msgs []types.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode transcript")
	}
	return msgs, nil
}

func (s *TranscriptStore) Delete(ctx context.Context, objectKey string) error {
	if err := s.client.api.RemoveObject(ctx, s.client.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete transcript object")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Attachment store
// ─────────────────────────────────────────────────────────────────────────────

// AttachmentStore keeps raw evidence files (photos, recordings, documents).
type AttachmentStore struct {
	client        *Client
	logger        logging.Logger
	presignExpiry time.Duration
}

// NewAttachmentStore builds the store on top of an established client.
func NewAttachmentStore(client *Client, log logging.Logger, presignExpiry time.Duration) *AttachmentStore {
	if presignExpiry <= 0 {
		presignExpiry = time.Hour
	}
	return &AttachmentStore{client: client, logger: log, presignExpiry: presignExpiry}
}

func (s *AttachmentStore) Put(ctx context.Context, caseID, evidenceID common.ID, contentType string, data []byte) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("cases/%s/evidence/%s", caseID, evidenceID)
	_, err := s.client.api.PutObject(ctx, s.client.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to upload attachment")
	}
	return key, nil
}

func (s *AttachmentStore) Get(ctx context.Context, objectKey string) ([]byte, string, error) {
	info, err := s.client.api.StatObject(ctx, s.client.bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, "", errors.Newf(errors.ErrCodeNotFound, "attachment %s not found", objectKey)
		}
		return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to stat attachment")
	}

	obj, err := s.client.api.GetObject(ctx, s.client.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to open attachment")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to read attachment")
	}
	return data, info.ContentType, nil
}

func (s *AttachmentStore) Delete(ctx context.Context, objectKey string) error {
	if err := s.client.api.RemoveObject(ctx, s.client.bucket, objectKey, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete attachment")
	}
	return nil
}

// PresignDownload returns a time-limited download URL so attachment bytes
// never stream through the API server.
func (s *AttachmentStore) PresignDownload(ctx context.Context, objectKey string) (string, error) {
	u, err := s.client.api.PresignedGetObject(ctx, s.client.bucket, objectKey, s.presignExpiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to presign download url")
	}
	return u.String(), nil
}
