package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"mailgate/contexts/mail-gateway/outbound-mail-service/ports"
)

// Repository backs the outbound directory ports with the shared forum
// schema.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetUserSettings(ctx context.Context, uid int64) (ports.UserSettings, error) {
	var row userSettingsModel
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.UserSettings{}, nil
	}
	if err != nil {
		return ports.UserSettings{}, fmt.Errorf("query user settings: %w", err)
	}
	return ports.UserSettings{ShowEmail: row.ShowEmail}, nil
}

func (r *Repository) GetUserFields(ctx context.Context, uid int64, fields []string) (ports.UserFields, error) {
	var row userModel
	err := r.db.WithContext(ctx).Where("uid = ?", uid).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ports.UserFields{}, nil
	}
	if err != nil {
		return ports.UserFields{}, fmt.Errorf("query user fields: %w", err)
	}

	var out ports.UserFields
	for _, field := range fields {
		switch field {
		case "email":
			out.Email = row.Email
		case "username":
			out.Username = row.Username
		}
	}
	return out, nil
}

func (r *Repository) GetPostAuthor(ctx context.Context, pid int64) (int64, error) {
	var row postModel
	err := r.db.WithContext(ctx).Where("pid = ?", pid).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("query post author: %w", err)
	}
	return row.UID, nil
}

func (r *Repository) ListTopicFollowers(ctx context.Context, tid int64, excludeUID int64) ([]ports.Recipient, error) {
	var rows []followerRow
	err := r.db.WithContext(ctx).
		Table("topic_followers").
		Select("topic_followers.uid, users.email, users.username").
		Joins("JOIN users ON users.uid = topic_followers.uid").
		Where("topic_followers.tid = ? AND topic_followers.uid <> ?", tid, excludeUID).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("query topic followers: %w", err)
	}

	out := make([]ports.Recipient, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.Recipient{UID: row.UID, Email: row.Email, Username: row.Username})
	}
	return out, nil
}

type followerRow struct {
	UID      int64  `gorm:"column:uid"`
	Email    string `gorm:"column:email"`
	Username string `gorm:"column:username"`
}
