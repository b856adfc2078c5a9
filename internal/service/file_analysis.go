package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"khawam-pro/pkg/httpclient"
)

// FileAnalysis is the remote analyzer's verdict on an uploaded design file:
// print dimensions, dominant colors and DPI warnings.
type FileAnalysis struct {
	WidthPX        int      `json:"widthPx"`
	HeightPX       int      `json:"heightPx"`
	DPI            int      `json:"dpi"`
	DominantColors []string `json:"dominantColors"`
	Warnings       []string `json:"warnings"`
}

// FileAnalysisService proxies design files to the remote analysis backend
// through the retrying client. Analysis is advisory: failures surface to the
// caller but never block an order.
type FileAnalysisService struct {
	client  *httpclient.Client
	baseURL string
	logger  *zap.Logger
}

// NewFileAnalysisService creates the service.
func NewFileAnalysisService(client *httpclient.Client, baseURL string, logger *zap.Logger) *FileAnalysisService {
	return &FileAnalysisService{client: client, baseURL: baseURL, logger: logger}
}

// Analyze submits an uploaded file reference for analysis.
func (s *FileAnalysisService) Analyze(ctx context.Context, fileURL string) (*FileAnalysis, error) {
	var result FileAnalysis
	err := s.client.PostJSON(ctx, s.baseURL+"/file-analysis", map[string]string{
		"url": fileURL,
	}, &result)
	if err != nil {
		s.logger.Warn("file analysis failed",
			zap.String("file", fileURL),
			zap.Error(err))
		return nil, fmt.Errorf("analyzing file: %w", err)
	}
	return &result, nil
}
