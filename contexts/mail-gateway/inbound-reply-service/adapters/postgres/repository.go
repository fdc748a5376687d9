package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	domainerrors "mailgate/contexts/mail-gateway/inbound-reply-service/domain/errors"
	"mailgate/contexts/mail-gateway/inbound-reply-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// AutoMigrate creates the forum tables this adapter reads and writes.
func (r *Repository) AutoMigrate() error {
	return r.db.AutoMigrate(
		&userModel{},
		&userSettingsModel{},
		&topicModel{},
		&postModel{},
		&categoryPrivilegeModel{},
		&topicFollowerModel{},
	)
}

func (r *Repository) GetUIDByEmail(ctx context.Context, email string) (int64, bool, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.TrimSpace(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return row.UID, true, nil
}

func (r *Repository) GetTopicCategory(ctx context.Context, tid int64) (int64, error) {
	var row topicModel
	err := r.db.WithContext(ctx).
		Where("tid = ?", tid).
		First(&row).
		Error
	if err != nil {
		return 0, err
	}
	return row.CID, nil
}

func (r *Repository) GroupPrivileges(ctx context.Context, cid int64, group string) (map[string]bool, error) {
	var rows []categoryPrivilegeModel
	err := r.db.WithContext(ctx).
		Where("cid = ? AND group_name = ?", cid, strings.TrimSpace(group)).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	granted := make(map[string]bool, len(rows))
	for _, row := range rows {
		granted[row.Privilege] = true
	}
	return granted, nil
}

func (r *Repository) GetPostTopic(ctx context.Context, pid int64) (int64, bool, error) {
	var row postModel
	err := r.db.WithContext(ctx).
		Where("pid = ?", pid).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, false, nil
		}
		return 0, false, err
	}
	return row.TID, true, nil
}

func (r *Repository) CreateReply(ctx context.Context, command ports.ReplyCommand) (ports.Post, error) {
	row := postModel{
		GUID:    UUIDGenerator{}.NewID(),
		TID:     command.TID,
		UID:     command.UID,
		ToPID:   command.ToPID,
		Content: command.Content,
		Handle:  command.Handle,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.Post{}, domainerrors.ErrInvalidData
		}
		return ports.Post{}, err
	}
	return row.toPost(), nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
