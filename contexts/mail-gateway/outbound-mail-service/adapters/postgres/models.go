package postgres

type userModel struct {
	UID      int64  `gorm:"column:uid;primaryKey"`
	Email    string `gorm:"column:email"`
	Username string `gorm:"column:username"`
}

func (userModel) TableName() string { return "users" }

type userSettingsModel struct {
	UID       int64 `gorm:"column:uid;primaryKey"`
	ShowEmail bool  `gorm:"column:show_email"`
}

func (userSettingsModel) TableName() string { return "user_settings" }

type postModel struct {
	PID int64 `gorm:"column:pid;primaryKey"`
	TID int64 `gorm:"column:tid"`
	UID int64 `gorm:"column:uid"`
}

func (postModel) TableName() string { return "posts" }
