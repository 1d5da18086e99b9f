package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository  *UserRepository
	ClubRepository  *ClubRepository
	FileRepository  *FileRepository
	TokenRepository *TokenRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:  NewUserRepository(db),
		ClubRepository:  NewClubRepository(db),
		FileRepository:  NewFileRepository(db),
		TokenRepository: NewTokenRepository(db),
	}
}
