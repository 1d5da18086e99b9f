package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanghoon/clubhub/internal/app/models"
	"github.com/sanghoon/clubhub/internal/db"
	"github.com/sanghoon/clubhub/internal/pkg/apperrors"
	"github.com/sanghoon/clubhub/internal/pkg/dberrors"
	"github.com/sanghoon/clubhub/internal/pkg/logger"
)

var clubColumns = []string{
	"id", "name", "description", "logo_path", "phase",
	"is_active", "created_at", "updated_at",
}

// ClubWithMemberCount is a club list row with its aggregated member count.
type ClubWithMemberCount struct {
	models.Club
	MemberCount int64
}

// ClubListOptions narrows and pages a club listing. A non-nil MemberUserID
// restricts the result to clubs that user belongs to.
type ClubListOptions struct {
	NameContains string
	Phase        *models.ClubPhase
	MemberUserID *int64
	Offset       uint64
	Limit        int
}

// ClubRepository handles club and membership database operations
type ClubRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClubRepository creates a new ClubRepository
func NewClubRepository(db *pgxpool.Pool) *ClubRepository {
	return &ClubRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanClub(row pgx.Row) (*models.Club, error) {
	var club models.Club
	err := row.Scan(
		&club.ID, &club.Name, &club.Description, &club.LogoPath, &club.Phase,
		&club.IsActive, &club.CreatedAt, &club.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &club, nil
}

// Create inserts a new club and populates its id and timestamps.
func (r *ClubRepository) Create(ctx context.Context, club *models.Club) error {
	now := time.Now()
	if club.Phase == "" {
		club.Phase = models.PhaseOperating
	}

	sql, args, err := r.sb.Insert("clubs").
		Columns("name", "description", "logo_path", "phase", "is_active", "created_at", "updated_at").
		Values(club.Name, club.Description, club.LogoPath, club.Phase, true, now, now).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create club query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&club.ID, &club.CreatedAt, &club.UpdatedAt)
	if err != nil {
		logger.Error().Err(err).Str("name", club.Name).Msg("Error executing create club query")
		return fmt.Errorf("error creating club: %w", err)
	}
	club.IsActive = true

	return nil
}

// GetByID retrieves an active club by id.
func (r *ClubRepository) GetByID(ctx context.Context, id int64) (*models.Club, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id, "is_active": true})
}

// GetByIDAny retrieves a club by id regardless of the activity flag.
// Administrative escape hatch, used for example to restore a soft-deleted
// club during reseeding.
func (r *ClubRepository) GetByIDAny(ctx context.Context, id int64) (*models.Club, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByNameAny retrieves a club by exact name regardless of activity.
func (r *ClubRepository) GetByNameAny(ctx context.Context, name string) (*models.Club, error) {
	return r.getOne(ctx, squirrel.Eq{"name": name})
}

func (r *ClubRepository) getOne(ctx context.Context, where squirrel.Eq) (*models.Club, error) {
	sql, args, err := r.sb.Select(clubColumns...).
		From("clubs").
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get club query: %w", err)
	}

	club, err := scanClub(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClubNotFound
		}
		logger.Error().Err(err).Msg("Error scanning club row")
		return nil, fmt.Errorf("error retrieving club: %w", err)
	}
	return club, nil
}

// List returns active clubs matching the options, each with its member
// count, plus the total number of matching rows.
func (r *ClubRepository) List(ctx context.Context, opts ClubListOptions) ([]*ClubWithMemberCount, int64, error) {
	base := r.sb.Select(
		"c.id", "c.name", "c.description", "c.logo_path", "c.phase",
		"c.is_active", "c.created_at", "c.updated_at",
		"COUNT(cm.id) AS member_count",
	).
		From("clubs c").
		LeftJoin("club_members cm ON cm.club_id = c.id").
		Where(squirrel.Eq{"c.is_active": true}).
		GroupBy("c.id").
		OrderBy("c.created_at DESC")

	countQuery := r.sb.Select("COUNT(*)").
		From("clubs c").
		Where(squirrel.Eq{"c.is_active": true})

	if opts.NameContains != "" {
		like := squirrel.ILike{"c.name": "%" + opts.NameContains + "%"}
		base = base.Where(like)
		countQuery = countQuery.Where(like)
	}
	if opts.Phase != nil {
		base = base.Where(squirrel.Eq{"c.phase": *opts.Phase})
		countQuery = countQuery.Where(squirrel.Eq{"c.phase": *opts.Phase})
	}
	if opts.MemberUserID != nil {
		member := squirrel.Expr(
			"EXISTS (SELECT 1 FROM club_members m WHERE m.club_id = c.id AND m.user_id = ?)",
			*opts.MemberUserID,
		)
		base = base.Where(member)
		countQuery = countQuery.Where(member)
	}

	if opts.Limit > 0 {
		base = base.Offset(opts.Offset).Limit(uint64(opts.Limit))
	}

	sql, args, err := base.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list clubs query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list clubs query")
		return nil, 0, fmt.Errorf("error listing clubs: %w", err)
	}
	defer rows.Close()

	clubs := make([]*ClubWithMemberCount, 0)
	for rows.Next() {
		var club ClubWithMemberCount
		err := rows.Scan(
			&club.ID, &club.Name, &club.Description, &club.LogoPath, &club.Phase,
			&club.IsActive, &club.CreatedAt, &club.UpdatedAt, &club.MemberCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning club row: %w", err)
		}
		clubs = append(clubs, &club)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating club rows: %w", err)
	}

	countSql, countArgs, err := countQuery.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count clubs query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting clubs: %w", err)
	}

	return clubs, total, nil
}

// Update persists changes to a club's mutable fields.
func (r *ClubRepository) Update(ctx context.Context, club *models.Club) error {
	sql, args, err := r.sb.Update("clubs").
		Set("name", club.Name).
		Set("description", club.Description).
		Set("logo_path", club.LogoPath).
		Set("phase", club.Phase).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": club.ID, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update club query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("clubID", club.ID).Msg("Error executing update club query")
		return fmt.Errorf("error updating club: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClubNotFound
	}
	return nil
}

// SoftDelete deactivates a club. Membership rows are left untouched.
func (r *ClubRepository) SoftDelete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("clubs").
		Set("is_active", false).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id, "is_active": true}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build soft delete club query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("clubID", id).Msg("Error executing soft delete club query")
		return fmt.Errorf("error deleting club: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClubNotFound
	}
	return nil
}

// Restore reactivates a soft-deleted club.
func (r *ClubRepository) Restore(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Update("clubs").
		Set("is_active", true).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build restore club query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error restoring club: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrClubNotFound
	}
	return nil
}

// GetMembers returns a club's roster with each member's user loaded.
func (r *ClubRepository) GetMembers(ctx context.Context, clubID int64) ([]*models.ClubMember, error) {
	sql, args, err := r.sb.Select(
		"cm.id", "cm.club_id", "cm.user_id", "cm.role", "cm.joined_at",
		"u.id", "u.email", "u.name", "u.student_id", "u.phone", "u.role",
	).
		From("club_members cm").
		Join("users u ON u.id = cm.user_id").
		Where(squirrel.Eq{"cm.club_id": clubID}).
		OrderBy("cm.joined_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get members query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("clubID", clubID).Msg("Error executing get members query")
		return nil, fmt.Errorf("error retrieving members: %w", err)
	}
	defer rows.Close()

	members := make([]*models.ClubMember, 0)
	for rows.Next() {
		var member models.ClubMember
		var user models.User
		err := rows.Scan(
			&member.ID, &member.ClubID, &member.UserID, &member.Role, &member.JoinedAt,
			&user.ID, &user.Email, &user.Name, &user.StudentID, &user.Phone, &user.RoleType,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning member row: %w", err)
		}
		member.User = &user
		members = append(members, &member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}

	return members, nil
}

// IsLeader reports whether the user holds the LEADER role in the club.
func (r *ClubRepository) IsLeader(ctx context.Context, clubID, userID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("club_members").
		Where(squirrel.Eq{"club_id": clubID, "user_id": userID, "role": models.MemberRoleLeader}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build is leader query: %w", err)
	}

	var one int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking club leadership: %w", err)
	}
	return true, nil
}

// AddMember inserts a membership row. When promoteToLeader is set the
// target user's global role is promoted from STUDENT to LEADER in the same
// transaction, as an atomic compare-and-set on the user row.
func (r *ClubRepository) AddMember(ctx context.Context, member *models.ClubMember, promoteToLeader bool) error {
	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		insertSql, insertArgs, err := r.sb.Insert("club_members").
			Columns("club_id", "user_id", "role", "joined_at").
			Values(member.ClubID, member.UserID, member.Role, time.Now()).
			Suffix("RETURNING id, joined_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build add member query: %w", err)
		}

		err = tx.QueryRow(ctx, insertSql, insertArgs...).Scan(&member.ID, &member.JoinedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "club_members_club_id_user_id_key") {
				return apperrors.ErrMembershipExists
			}
			logger.Error().Err(err).Int64("clubID", member.ClubID).Int64("userID", member.UserID).
				Msg("Error executing add member query")
			return fmt.Errorf("error adding member: %w", err)
		}

		if promoteToLeader {
			promoteSql, promoteArgs, err := r.sb.Update("users").
				Set("role", models.RoleLeader).
				Set("updated_at", time.Now()).
				Where(squirrel.Eq{"id": member.UserID, "role": models.RoleStudent}).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build promote user query: %w", err)
			}

			cmdTag, err := tx.Exec(ctx, promoteSql, promoteArgs...)
			if err != nil {
				logger.Error().Err(err).Int64("userID", member.UserID).Msg("Error executing promote user query")
				return fmt.Errorf("error promoting user: %w", err)
			}
			if cmdTag.RowsAffected() > 0 {
				logger.Info().Int64("userID", member.UserID).Int64("clubID", member.ClubID).
					Msg("User promoted to LEADER")
			}
		}

		return nil
	})
}

// RemoveMember hard-deletes a membership row.
func (r *ClubRepository) RemoveMember(ctx context.Context, clubID, userID int64) error {
	sql, args, err := r.sb.Delete("club_members").
		Where(squirrel.Eq{"club_id": clubID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build remove member query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("clubID", clubID).Int64("userID", userID).
			Msg("Error executing remove member query")
		return fmt.Errorf("error removing member: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrMembershipNotFound
	}
	return nil
}
