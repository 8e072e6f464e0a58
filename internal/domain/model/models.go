package model

import (
	"time"
)

// Account is an identity record. Password is empty for accounts
// provisioned through Google login; GoogleID is nil for password-only
// accounts. An account always has at least one of the two.
type Account struct {
	ID           uint      `gorm:"primaryKey"                             json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Password     string    `                                              json:"-"` // digest, never serialized
	FullName     string    `gorm:"type:varchar(255)"                      json:"fullName"`
	Bio          string    `gorm:"type:text"                              json:"bio"`
	Avatar       string    `gorm:"type:varchar(255)"                      json:"avatar"`
	Email        *string   `gorm:"type:varchar(255);uniqueIndex"          json:"email,omitempty"`
	GoogleID     *string   `gorm:"type:varchar(255);uniqueIndex"          json:"-"`
	IsGoogleUser bool      `gorm:"default:false"                          json:"isGoogleUser"`
	CreatedAt    time.Time `                                              json:"createdAt"`
	UpdatedAt    time.Time `                                              json:"updatedAt"`
	Posts        []Post    `gorm:"foreignKey:AuthorID"                    json:"-"`
}

type Post struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Title     string    `gorm:"not null"            json:"title"`
	Content   string    `gorm:"type:text"           json:"content"`
	Image     string    `gorm:"type:varchar(255)"   json:"image"`
	AuthorID  uint      `gorm:"index;not null"      json:"authorId"`
	Author    *Account  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `                           json:"createdAt"`
	UpdatedAt time.Time `                           json:"updatedAt"`
	Comments  []Comment `gorm:"foreignKey:PostID"   json:"-"`
	Likes     []Like    `gorm:"foreignKey:PostID"   json:"-"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey"          json:"id"`
	Content   string    `gorm:"type:text;not null"  json:"content"`
	PostID    uint      `gorm:"index;not null"      json:"postId"`
	AuthorID  uint      `gorm:"index;not null"      json:"authorId"`
	Author    *Account  `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	CreatedAt time.Time `                           json:"createdAt"`
	UpdatedAt time.Time `                           json:"updatedAt"`
}

// Like rows are unique per (post, account); liking twice toggles off.
type Like struct {
	ID        uint      `gorm:"primaryKey"                          json:"id"`
	PostID    uint      `gorm:"uniqueIndex:idx_post_account;not null" json:"postId"`
	AccountID uint      `gorm:"uniqueIndex:idx_post_account;not null" json:"accountId"`
	CreatedAt time.Time `                                           json:"createdAt"`
}
