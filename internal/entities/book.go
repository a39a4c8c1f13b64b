package entities

import "time"

// Book is keyed by its title. Renaming a book changes its primary key; the
// schema cascades the change to comments.
type Book struct {
	Title       string    `gorm:"primaryKey;size:80" json:"title"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	Rating      *float64  `json:"rating,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Book) TableName() string {
	return "books"
}

// DescriptionText returns the description, or "" when there is none.
func (b Book) DescriptionText() string {
	if b.Description == nil {
		return ""
	}
	return *b.Description
}

type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	BookTitle string    `gorm:"index;size:80;not null" json:"book_title"`
	CreatedAt time.Time `json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"author"`
}

func (Comment) TableName() string {
	return "comments"
}
