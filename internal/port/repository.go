package port

import (
	"github.com/vertextoedge/http-downloader/internal/domain/repository"
)

// HistoryRepository is an alias to domain repository interface
type HistoryRepository = repository.HistoryRepository
