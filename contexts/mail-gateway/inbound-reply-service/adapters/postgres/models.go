package postgresadapter

import (
	"time"

	"mailgate/contexts/mail-gateway/inbound-reply-service/ports"
)

type userModel struct {
	UID      int64  `gorm:"column:uid;primaryKey;autoIncrement"`
	Email    string `gorm:"column:email;uniqueIndex;size:254"`
	Username string `gorm:"column:username;size:64"`
}

func (userModel) TableName() string { return "users" }

type userSettingsModel struct {
	UID       int64 `gorm:"column:uid;primaryKey"`
	ShowEmail bool  `gorm:"column:show_email"`
}

func (userSettingsModel) TableName() string { return "user_settings" }

type topicModel struct {
	TID   int64  `gorm:"column:tid;primaryKey;autoIncrement"`
	CID   int64  `gorm:"column:cid;index"`
	Title string `gorm:"column:title;size:255"`
}

func (topicModel) TableName() string { return "topics" }

type postModel struct {
	PID       int64     `gorm:"column:pid;primaryKey;autoIncrement"`
	GUID      string    `gorm:"column:guid;uniqueIndex;size:36"`
	TID       int64     `gorm:"column:tid;index"`
	UID       int64     `gorm:"column:uid"`
	ToPID     int64     `gorm:"column:to_pid"`
	Content   string    `gorm:"column:content"`
	Handle    string    `gorm:"column:handle;size:64"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (postModel) TableName() string { return "posts" }

func (m postModel) toPost() ports.Post {
	return ports.Post{
		PID:       m.PID,
		TID:       m.TID,
		UID:       m.UID,
		ToPID:     m.ToPID,
		Content:   m.Content,
		Handle:    m.Handle,
		CreatedAt: m.CreatedAt,
	}
}

type categoryPrivilegeModel struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	CID       int64  `gorm:"column:cid;uniqueIndex:idx_category_group_privilege"`
	GroupName string `gorm:"column:group_name;size:64;uniqueIndex:idx_category_group_privilege"`
	Privilege string `gorm:"column:privilege;size:64;uniqueIndex:idx_category_group_privilege"`
}

func (categoryPrivilegeModel) TableName() string { return "category_privileges" }

type topicFollowerModel struct {
	TID int64 `gorm:"column:tid;primaryKey"`
	UID int64 `gorm:"column:uid;primaryKey"`
}

func (topicFollowerModel) TableName() string { return "topic_followers" }
