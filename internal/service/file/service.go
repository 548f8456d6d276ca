package file

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/kintai-check/kintai-backend-go/internal/pkg/storage"
)

// FileService lays out archived uploads and reports on top of a FileStorage.
type FileService interface {
	// ArchiveImport keeps the raw upload of an import batch
	ArchiveImport(ctx context.Context, organizationID, batchID string, content []byte) (string, error)

	// ArchiveReport stores a rendered monthly report
	ArchiveReport(ctx context.Context, organizationID string, month time.Time, ext string, content []byte) (string, error)

	// ReportArchived reports whether a monthly report is already stored
	ReportArchived(ctx context.Context, organizationID string, month time.Time, ext string) (bool, error)

	// OpenReport opens an archived monthly report; storage.ErrNotFound when absent
	OpenReport(ctx context.Context, organizationID string, month time.Time, ext string) (io.ReadCloser, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{storage: storage}
}

func importPath(organizationID, batchID string) string {
	return path.Join("imports", organizationID, batchID+".csv")
}

func reportPath(organizationID string, month time.Time, ext string) string {
	return path.Join("reports", organizationID, month.Format("2006-01")+"."+ext)
}

func contentType(ext string) string {
	switch ext {
	case "pdf":
		return "application/pdf"
	case "csv":
		return "text/csv; charset=utf-8"
	}
	return "application/octet-stream"
}

// ArchiveImport implements FileService.
func (s *fileServiceImpl) ArchiveImport(ctx context.Context, organizationID, batchID string, content []byte) (string, error) {
	key, err := s.storage.Upload(ctx, bytes.NewReader(content), importPath(organizationID, batchID), contentType("csv"))
	if err != nil {
		return "", fmt.Errorf("failed to archive import %s: %w", batchID, err)
	}
	return key, nil
}

// ArchiveReport implements FileService.
func (s *fileServiceImpl) ArchiveReport(ctx context.Context, organizationID string, month time.Time, ext string, content []byte) (string, error) {
	key, err := s.storage.Upload(ctx, bytes.NewReader(content), reportPath(organizationID, month, ext), contentType(ext))
	if err != nil {
		return "", fmt.Errorf("failed to archive report: %w", err)
	}
	return key, nil
}

// ReportArchived implements FileService.
func (s *fileServiceImpl) ReportArchived(ctx context.Context, organizationID string, month time.Time, ext string) (bool, error) {
	return s.storage.Exists(ctx, reportPath(organizationID, month, ext))
}

// OpenReport implements FileService.
func (s *fileServiceImpl) OpenReport(ctx context.Context, organizationID string, month time.Time, ext string) (io.ReadCloser, error) {
	return s.storage.Download(ctx, reportPath(organizationID, month, ext))
}
