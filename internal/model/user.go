// Package model はドメインモデルを定義する。
package model

import "time"

// User はディレクトリに登録されたユーザーを表す。
// HashedPassword はハッシュ済みの資格情報のみを保持する。
// 平文パスワードは構築時にハッシュ化されてからモデルに入る。
type User struct {
	ID             int64      `json:"id"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	OtherName      string     `json:"other_name,omitempty"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	Birthday       *time.Time `json:"birthday,omitempty"`
	City           *int64     `json:"city,omitempty"`
	AdditionalInfo string     `json:"additional_info,omitempty"`
	IsAdmin        bool       `json:"is_admin"`
	HashedPassword string     `json:"-"`
}

// City はユーザーが外部キーで参照する都市マスタを表す。
type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Pagination はページネーションのメタ情報を表す。
type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Size  int `json:"size"`
}

// UserPage はページ単位のユーザー一覧と件数情報をまとめたもの。
// 要求ページが最終ページを超えた場合、Usersは空スライスになる。
type UserPage struct {
	Users      []*User
	Pagination Pagination
}
