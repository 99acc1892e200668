// Package entity はusersフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// User はusersテーブルに保存されるユーザーレコードを表します。
type User struct {
	// ID は作成時にストレージが採番し、以後変更されません。
	ID uint `gorm:"primaryKey"`

	FirstName string `gorm:"size:255;not null"`
	LastName  string `gorm:"size:255;not null"`
	Nickname  string `gorm:"size:255;not null"`

	// Email は全ユーザーで一意
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password は常にハッシュ値を保持し、平文は保存しません。
	Password string `gorm:"size:255;not null"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName はGORM用のテーブル名を返します。
func (User) TableName() string {
	return "users"
}
