package model

// Review 商品評價，只有實際買過該商品的使用者能寫
type Review struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID string `gorm:"not null;type:varchar(255);index" json:"product_id"`
	UserID    int    `gorm:"not null;index" json:"user_id"`
	Rating    int    `gorm:"not null" json:"rating"` // 1~5
	Comment   string `gorm:"not null;type:text" json:"comment"`
	BaseModel
}
