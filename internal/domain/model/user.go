package model

type User struct {
	UserID         int     `gorm:"primaryKey" json:"user_id"`
	UserName       string  `gorm:"not null;type:varchar(50)" json:"user_name"`
	UserEmail      string  `gorm:"unique;not null;type:varchar(50)" json:"user_email"`
	HashedPassword string  `gorm:"not null;type:varchar(255)" json:"-"`
	IsAdmin        bool    `gorm:"not null;default:false" json:"is_admin"`
	Orders         []Order `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"` // 一對多，級聯刪除
	BaseModel
}
