package controllers

import (
	"context"
	"mime/multipart"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/repositories"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
)

// Thin repository stubs for handler tests. They record the options the
// handlers pass down so tests can assert on query parameter mapping.

type stubClubRepo struct {
	nextID       int64
	clubs        map[int64]*models.Club
	lastListOpts repositories.ClubListOptions
}

func newStubClubRepo() *stubClubRepo {
	return &stubClubRepo{nextID: 1, clubs: make(map[int64]*models.Club)}
}

func (s *stubClubRepo) Create(_ context.Context, club *models.Club) error {
	club.ID = s.nextID
	s.nextID++
	club.IsActive = true
	if club.Phase == "" {
		club.Phase = models.PhaseOperating
	}
	s.clubs[club.ID] = club
	return nil
}

func (s *stubClubRepo) GetByID(_ context.Context, id int64) (*models.Club, error) {
	club, ok := s.clubs[id]
	if !ok || !club.IsActive {
		return nil, apperrors.ErrClubNotFound
	}
	return club, nil
}

func (s *stubClubRepo) GetByIDAny(_ context.Context, id int64) (*models.Club, error) {
	club, ok := s.clubs[id]
	if !ok {
		return nil, apperrors.ErrClubNotFound
	}
	return club, nil
}

func (s *stubClubRepo) List(_ context.Context, opts repositories.ClubListOptions) ([]*repositories.ClubWithMemberCount, int64, error) {
	s.lastListOpts = opts
	return nil, 0, nil
}

func (s *stubClubRepo) Update(_ context.Context, club *models.Club) error {
	if _, ok := s.clubs[club.ID]; !ok {
		return apperrors.ErrClubNotFound
	}
	s.clubs[club.ID] = club
	return nil
}

func (s *stubClubRepo) SoftDelete(_ context.Context, id int64) error {
	club, ok := s.clubs[id]
	if !ok {
		return apperrors.ErrClubNotFound
	}
	club.IsActive = false
	return nil
}

func (s *stubClubRepo) GetMembers(_ context.Context, _ int64) ([]*models.ClubMember, error) {
	return nil, nil
}

func (s *stubClubRepo) IsLeader(_ context.Context, _, _ int64) (bool, error) {
	return false, nil
}

func (s *stubClubRepo) AddMember(_ context.Context, member *models.ClubMember, _ bool) error {
	member.ID = 1
	return nil
}

func (s *stubClubRepo) RemoveMember(_ context.Context, _, _ int64) error {
	return nil
}

type stubUserRepo struct{}

func (stubUserRepo) Create(_ context.Context, _ *models.User) error { return nil }

func (stubUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, IsActive: true, RoleType: models.RoleStudent}, nil
}

func (stubUserRepo) GetByIDAny(_ context.Context, id int64) (*models.User, error) {
	return &models.User{ID: id, IsActive: true, RoleType: models.RoleStudent}, nil
}

func (stubUserRepo) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, apperrors.ErrUserNotFound
}

func (stubUserRepo) EmailExists(_ context.Context, _ string) (bool, error) { return false, nil }

func (stubUserRepo) StudentIDExists(_ context.Context, _ string) (bool, error) { return false, nil }

type stubFileRepo struct {
	created      []*models.UploadedFile
	lastListOpts repositories.FileListOptions
}

func (s *stubFileRepo) CreateBatch(_ context.Context, files []*models.UploadedFile) error {
	for i, file := range files {
		file.ID = int64(len(s.created) + i + 1)
	}
	s.created = append(s.created, files...)
	return nil
}

func (s *stubFileRepo) GetByID(_ context.Context, _ int64) (*models.UploadedFile, error) {
	return nil, apperrors.ErrFileNotFound
}

func (s *stubFileRepo) List(_ context.Context, opts repositories.FileListOptions) ([]*models.UploadedFile, int64, error) {
	s.lastListOpts = opts
	return nil, 0, nil
}

func (s *stubFileRepo) SoftDelete(_ context.Context, _ int64) error { return nil }

type stubStorage struct {
	saved   []string
	deleted []string
}

func (s *stubStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	path := subPath + "/" + fileHeader.Filename
	s.saved = append(s.saved, path)
	return path, nil
}

func (s *stubStorage) URL(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	return "http://localhost:8080/media/" + storedPath
}

func (s *stubStorage) Delete(storedPath string) error {
	s.deleted = append(s.deleted, storedPath)
	return nil
}
