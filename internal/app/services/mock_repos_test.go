package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/app/repositories"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
)

// In-memory repository fakes used by the service tests.

type mockUserRepo struct {
	nextID int64
	users  map[int64]*models.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{nextID: 1, users: make(map[int64]*models.User)}
}

func (m *mockUserRepo) addUser(user *models.User) *models.User {
	if user.ID == 0 {
		user.ID = m.nextID
	}
	if user.ID >= m.nextID {
		m.nextID = user.ID + 1
	}
	user.IsActive = true
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return user
}

func (m *mockUserRepo) Create(_ context.Context, user *models.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return apperrors.ErrEmailAlreadyExists
		}
		if existing.StudentID == user.StudentID {
			return apperrors.ErrStudentIDExists
		}
	}
	m.addUser(user)
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok || !user.IsActive {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByIDAny(_ context.Context, id int64) (*models.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, user := range m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) StudentIDExists(_ context.Context, studentID string) (bool, error) {
	for _, user := range m.users {
		if user.StudentID == studentID {
			return true, nil
		}
	}
	return false, nil
}

type tokenRecord struct {
	userID  int64
	expiry  time.Time
	revoked bool
}

type mockTokenRepo struct {
	tokens map[string]*tokenRecord
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[string]*tokenRecord)}
}

func (m *mockTokenRepo) CreateToken(_ context.Context, token string, userID int64, expiryDate time.Time) error {
	m.tokens[token] = &tokenRecord{userID: userID, expiry: expiryDate}
	return nil
}

func (m *mockTokenRepo) GetUserIDByToken(_ context.Context, token string) (int64, error) {
	record, ok := m.tokens[token]
	if !ok {
		return 0, apperrors.ErrTokenNotFound
	}
	if record.revoked {
		return 0, apperrors.ErrTokenRevoked
	}
	if record.expiry.Before(time.Now()) {
		return 0, apperrors.ErrTokenExpired
	}
	return record.userID, nil
}

func (m *mockTokenRepo) RevokeToken(_ context.Context, token string) error {
	record, ok := m.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	record.revoked = true
	return nil
}

type mockClubRepo struct {
	nextID       int64
	nextMemberID int64
	clubs        map[int64]*models.Club
	members      []*models.ClubMember
	users        *mockUserRepo
}

func newMockClubRepo(users *mockUserRepo) *mockClubRepo {
	return &mockClubRepo{nextID: 1, nextMemberID: 1, clubs: make(map[int64]*models.Club), users: users}
}

func (m *mockClubRepo) addClub(club *models.Club) *models.Club {
	if club.ID == 0 {
		club.ID = m.nextID
	}
	if club.ID >= m.nextID {
		m.nextID = club.ID + 1
	}
	club.IsActive = true
	if club.Phase == "" {
		club.Phase = models.PhaseOperating
	}
	club.CreatedAt = time.Now()
	club.UpdatedAt = club.CreatedAt
	m.clubs[club.ID] = club
	return club
}

func (m *mockClubRepo) Create(_ context.Context, club *models.Club) error {
	m.addClub(club)
	return nil
}

func (m *mockClubRepo) GetByID(_ context.Context, id int64) (*models.Club, error) {
	club, ok := m.clubs[id]
	if !ok || !club.IsActive {
		return nil, apperrors.ErrClubNotFound
	}
	return club, nil
}

func (m *mockClubRepo) GetByIDAny(_ context.Context, id int64) (*models.Club, error) {
	club, ok := m.clubs[id]
	if !ok {
		return nil, apperrors.ErrClubNotFound
	}
	return club, nil
}

func (m *mockClubRepo) List(_ context.Context, opts repositories.ClubListOptions) ([]*repositories.ClubWithMemberCount, int64, error) {
	result := make([]*repositories.ClubWithMemberCount, 0)
	for _, club := range m.clubs {
		if !club.IsActive {
			continue
		}
		if opts.NameContains != "" &&
			!strings.Contains(strings.ToLower(club.Name), strings.ToLower(opts.NameContains)) {
			continue
		}
		if opts.Phase != nil && club.Phase != *opts.Phase {
			continue
		}
		if opts.MemberUserID != nil && !m.isMember(club.ID, *opts.MemberUserID) {
			continue
		}
		result = append(result, &repositories.ClubWithMemberCount{
			Club:        *club,
			MemberCount: m.memberCount(club.ID),
		})
	}
	return result, int64(len(result)), nil
}

func (m *mockClubRepo) isMember(clubID, userID int64) bool {
	for _, member := range m.members {
		if member.ClubID == clubID && member.UserID == userID {
			return true
		}
	}
	return false
}

func (m *mockClubRepo) memberCount(clubID int64) int64 {
	var count int64
	for _, member := range m.members {
		if member.ClubID == clubID {
			count++
		}
	}
	return count
}

func (m *mockClubRepo) Update(_ context.Context, club *models.Club) error {
	existing, ok := m.clubs[club.ID]
	if !ok || !existing.IsActive {
		return apperrors.ErrClubNotFound
	}
	club.UpdatedAt = time.Now()
	m.clubs[club.ID] = club
	return nil
}

func (m *mockClubRepo) SoftDelete(_ context.Context, id int64) error {
	club, ok := m.clubs[id]
	if !ok || !club.IsActive {
		return apperrors.ErrClubNotFound
	}
	club.IsActive = false
	club.UpdatedAt = time.Now()
	return nil
}

// GetMembers returns the roster newest-first, matching the repository's
// joined_at ordering.
func (m *mockClubRepo) GetMembers(_ context.Context, clubID int64) ([]*models.ClubMember, error) {
	result := make([]*models.ClubMember, 0)
	for i := len(m.members) - 1; i >= 0; i-- {
		member := m.members[i]
		if member.ClubID == clubID {
			withUser := *member
			withUser.User = m.users.users[member.UserID]
			result = append(result, &withUser)
		}
	}
	return result, nil
}

func (m *mockClubRepo) IsLeader(_ context.Context, clubID, userID int64) (bool, error) {
	for _, member := range m.members {
		if member.ClubID == clubID && member.UserID == userID && member.Role == models.MemberRoleLeader {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockClubRepo) AddMember(_ context.Context, member *models.ClubMember, promoteToLeader bool) error {
	if m.isMember(member.ClubID, member.UserID) {
		return apperrors.ErrMembershipExists
	}
	member.ID = m.nextMemberID
	m.nextMemberID++
	member.JoinedAt = time.Now()
	m.members = append(m.members, member)

	if promoteToLeader {
		if user, ok := m.users.users[member.UserID]; ok && user.RoleType == models.RoleStudent {
			user.RoleType = models.RoleLeader
		}
	}
	return nil
}

func (m *mockClubRepo) RemoveMember(_ context.Context, clubID, userID int64) error {
	for i, member := range m.members {
		if member.ClubID == clubID && member.UserID == userID {
			m.members = append(m.members[:i], m.members[i+1:]...)
			return nil
		}
	}
	return apperrors.ErrMembershipNotFound
}

type mockFileRepo struct {
	nextID int64
	files  map[int64]*models.UploadedFile
	// createErr forces the next CreateBatch to fail.
	createErr error
}

func newMockFileRepo() *mockFileRepo {
	return &mockFileRepo{nextID: 1, files: make(map[int64]*models.UploadedFile)}
}

func (m *mockFileRepo) CreateBatch(_ context.Context, files []*models.UploadedFile) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, file := range files {
		file.ID = m.nextID
		m.nextID++
		file.IsActive = true
		file.CreatedAt = time.Now()
		file.UpdatedAt = file.CreatedAt
		m.files[file.ID] = file
	}
	return nil
}

func (m *mockFileRepo) GetByID(_ context.Context, id int64) (*models.UploadedFile, error) {
	file, ok := m.files[id]
	if !ok || !file.IsActive {
		return nil, apperrors.ErrFileNotFound
	}
	return file, nil
}

func (m *mockFileRepo) List(_ context.Context, opts repositories.FileListOptions) ([]*models.UploadedFile, int64, error) {
	result := make([]*models.UploadedFile, 0)
	for _, file := range m.files {
		if !file.IsActive {
			continue
		}
		if opts.ClubID != nil && (file.ClubID == nil || *file.ClubID != *opts.ClubID) {
			continue
		}
		if opts.Category != nil && file.Category != *opts.Category {
			continue
		}
		result = append(result, file)
	}
	return result, int64(len(result)), nil
}

func (m *mockFileRepo) SoftDelete(_ context.Context, id int64) error {
	file, ok := m.files[id]
	if !ok || !file.IsActive {
		return apperrors.ErrFileNotFound
	}
	file.IsActive = false
	return nil
}

type mockStorage struct {
	saved   []string
	deleted []string
	// failAfter fails SaveFile once this many saves have succeeded.
	// Negative means never fail.
	failAfter int
}

func newMockStorage() *mockStorage {
	return &mockStorage{failAfter: -1}
}

func (m *mockStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if m.failAfter >= 0 && len(m.saved) >= m.failAfter {
		return "", fmt.Errorf("storage full")
	}
	path := subPath + "/" + fileHeader.Filename
	m.saved = append(m.saved, path)
	return path, nil
}

func (m *mockStorage) URL(storedPath string) string {
	if storedPath == "" {
		return ""
	}
	return "http://localhost:8080/media/" + storedPath
}

func (m *mockStorage) Delete(storedPath string) error {
	m.deleted = append(m.deleted, storedPath)
	return nil
}
