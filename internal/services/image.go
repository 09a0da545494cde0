package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/learnnow-backend/internal/platform/apierr"
	"github.com/yungbote/learnnow-backend/internal/platform/logger"
)

const maxImageQueryLen = 200

type ImageSearcher interface {
	Search(ctx context.Context, text string) ([]string, error)
}

type ImageService interface {
	Search(ctx context.Context, text string) ([]string, error)
}

type imageService struct {
	log      *logger.Logger
	searcher ImageSearcher
}

func NewImageService(searcher ImageSearcher, baseLog *logger.Logger) ImageService {
	return &imageService{
		log:      baseLog.With("service", "ImageService"),
		searcher: searcher,
	}
}

func (s *imageService) Search(ctx context.Context, text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apierr.BadRequest("invalid_query", "search text is required")
	}
	if len(text) > maxImageQueryLen {
		return nil, apierr.BadRequest("invalid_query", "search text must be at most %d characters", maxImageQueryLen)
	}
	links, err := s.searcher.Search(ctx, text)
	if err != nil {
		s.log.Warn("Image search failed", "error", err)
		return nil, fmt.Errorf("image search: %w", err)
	}
	if links == nil {
		links = []string{}
	}
	return links, nil
}
