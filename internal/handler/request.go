package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/sergkim13/users-API/internal/model"
	"github.com/sergkim13/users-API/internal/user"
)

// ページネーションのデフォルト値と上限。
const (
	defaultPage = 1
	defaultSize = 50
	maxSize     = 100
)

// loginRequest はログインのリクエストボディ。
type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// updateUserRequest はメンバー自身の部分更新リクエストボディ。
// 未指定のフィールドは変更されない。都市と管理フラグは変更できない。
type updateUserRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	OtherName *string `json:"other_name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Birthday  *string `json:"birthday"`
}

// privateCreateUserRequest は管理者によるユーザー作成リクエストボディ。
type privateCreateUserRequest struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	OtherName      string  `json:"other_name"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	Birthday       *string `json:"birthday"`
	City           *int64  `json:"city"`
	AdditionalInfo string  `json:"additional_info"`
	IsAdmin        bool    `json:"is_admin"`
	Password       string  `json:"password"`
}

// privateUpdateUserRequest は管理者によるユーザー部分更新リクエストボディ。
// メンバーの更新と異なり、都市・追加情報・管理フラグも変更できる。
type privateUpdateUserRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	OtherName      *string `json:"other_name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	Birthday       *string `json:"birthday"`
	City           *int64  `json:"city"`
	AdditionalInfo *string `json:"additional_info"`
	IsAdmin        *bool   `json:"is_admin"`
}

// parsePageQuery はクエリ文字列からページネーションパラメータを取り出す。
// 未指定・不正値はデフォルトにフォールバックする。
func parsePageQuery(r *http.Request) (page, size int) {
	page = defaultPage
	size = defaultSize

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 {
			page = n
		}
	}
	if v := r.URL.Query().Get("size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 1 && n <= maxSize {
			size = n
		}
	}
	return page, size
}

// parseBirthday はYYYY-MM-DD形式の日付文字列を解析する。
func parseBirthday(value string) (*time.Time, error) {
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, model.NewValidationError("birthdayはYYYY-MM-DD形式で指定してください")
	}
	return &t, nil
}

// toUpdateInput はメンバー更新リクエストをサービス入力へ変換する。
func (req *updateUserRequest) toUpdateInput() (user.UpdateUserInput, error) {
	input := user.UpdateUserInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		OtherName: req.OtherName,
		Email:     req.Email,
		Phone:     req.Phone,
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday)
		if err != nil {
			return user.UpdateUserInput{}, err
		}
		input.Birthday = birthday
	}
	return input, nil
}

// toCreateInput は作成リクエストをサービス入力へ変換する。
func (req *privateCreateUserRequest) toCreateInput() (user.CreateUserInput, error) {
	input := user.CreateUserInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		OtherName:      req.OtherName,
		Email:          req.Email,
		Phone:          req.Phone,
		City:           req.City,
		AdditionalInfo: req.AdditionalInfo,
		IsAdmin:        req.IsAdmin,
		Password:       req.Password,
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday)
		if err != nil {
			return user.CreateUserInput{}, err
		}
		input.Birthday = birthday
	}

	switch {
	case input.FirstName == "":
		return user.CreateUserInput{}, model.NewValidationError("first_nameは必須です")
	case input.LastName == "":
		return user.CreateUserInput{}, model.NewValidationError("last_nameは必須です")
	case input.Email == "":
		return user.CreateUserInput{}, model.NewValidationError("emailは必須です")
	case input.Password == "":
		return user.CreateUserInput{}, model.NewValidationError("passwordは必須です")
	}
	return input, nil
}

// toUpdateInput は管理者更新リクエストをサービス入力へ変換する。
func (req *privateUpdateUserRequest) toUpdateInput() (user.UpdateUserInput, error) {
	input := user.UpdateUserInput{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		OtherName:      req.OtherName,
		Email:          req.Email,
		Phone:          req.Phone,
		City:           req.City,
		AdditionalInfo: req.AdditionalInfo,
		IsAdmin:        req.IsAdmin,
	}
	if req.Birthday != nil {
		birthday, err := parseBirthday(*req.Birthday)
		if err != nil {
			return user.UpdateUserInput{}, err
		}
		input.Birthday = birthday
	}
	return input, nil
}
