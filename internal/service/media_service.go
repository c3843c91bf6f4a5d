package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"lifecourse/api/internal/media/sniffer"
	"lifecourse/api/internal/repository"
	"lifecourse/api/internal/storage"
)

var (
	ErrUnsupportedMedia = errors.New("unsupported media format")
	ErrMediaMismatch    = errors.New("declared media type does not match content")
)

// sniffHeadSize covers ID3 headers and ISO ftyp boxes comfortably.
const sniffHeadSize = 512

// MediaService stores session audio in the object store and records the
// resulting URL on the session row.
type MediaService struct {
	sessions *repository.SessionRepository
	store    *storage.ObjectStore
	log      zerolog.Logger
}

func NewMediaService(sessions *repository.SessionRepository, store *storage.ObjectStore, log zerolog.Logger) *MediaService {
	return &MediaService{sessions: sessions, store: store, log: log}
}

// UploadSessionMedia sniffs the payload, verifies the declared MIME
// type when one was sent, uploads the object, and points the session at
// it. Returns the stored URL.
func (s *MediaService) UploadSessionMedia(ctx context.Context, sessionID string, r io.Reader, size int64, declaredMIME string) (string, error) {
	if _, err := s.sessions.GetByID(ctx, sessionID); err != nil {
		return "", err
	}

	buffered := bufio.NewReaderSize(r, sniffHeadSize)
	head, err := buffered.Peek(sniffHeadSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload head: %w", err)
	}

	detected, err := sniffer.DetectHead(head)
	if err != nil {
		return "", ErrUnsupportedMedia
	}
	if declaredMIME != "" && declaredMIME != detected.MIME {
		return "", ErrMediaMismatch
	}

	objectKey := fmt.Sprintf("audio/%s.%s", sessionID, detected.Type)
	url, err := s.store.PutMedia(ctx, objectKey, buffered, size, detected.MIME)
	if err != nil {
		return "", err
	}

	if err := s.sessions.SetMediaURL(ctx, sessionID, url); err != nil {
		return "", err
	}

	s.log.Info().
		Str("session_id", sessionID).
		Str("object_key", objectKey).
		Str("mime", detected.MIME).
		Msg("session media uploaded")
	return url, nil
}
