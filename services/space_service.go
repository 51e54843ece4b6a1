package services

import (
	"log/slog"

	"space-chat/domain"
	"space-chat/repositories"
)

type ISpaceService interface {
	Create(owner domain.Identity) (domain.Space, error)
	OwnerOf(spaceID int64) (int64, error)
}

type SpaceService struct {
	log             *slog.Logger
	spaceRepository repositories.ISpaceRepository
}

func NewSpaceService(log *slog.Logger, repo repositories.ISpaceRepository) *SpaceService {
	return &SpaceService{log: log, spaceRepository: repo}
}

func (s *SpaceService) Create(owner domain.Identity) (domain.Space, error) {
	space, err := s.spaceRepository.CreateSpace(owner.UserID)
	if err != nil {
		return domain.Space{}, err
	}
	s.log.Info("Space registered", "space_id", space.ID, "owner_id", owner.UserID)
	return space, nil
}

// OwnerOf returns ErrNotFound when the space does not exist.
func (s *SpaceService) OwnerOf(spaceID int64) (int64, error) {
	space, err := s.spaceRepository.GetSpace(spaceID)
	if err != nil {
		return 0, err
	}
	return space.OwnerID, nil
}
