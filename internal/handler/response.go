// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sergkim13/users-API/internal/model"
)

// 日付はYYYY-MM-DD形式でシリアライズする。
const dateLayout = "2006-01-02"

// currentUserResponse はメンバー向けのユーザー詳細表現。
// ID・都市・管理フィールドは含まない。資格情報はどの表現にも含まれない。
type currentUserResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	OtherName string `json:"other_name,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	IsAdmin   bool   `json:"is_admin"`
}

// privateUserResponse は管理者向けのユーザー詳細表現。
// 管理フィールドを含むが、資格情報ハッシュは含まない。
type privateUserResponse struct {
	ID             int64  `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	OtherName      string `json:"other_name,omitempty"`
	Email          string `json:"email"`
	Phone          string `json:"phone,omitempty"`
	Birthday       string `json:"birthday,omitempty"`
	City           int64  `json:"city"`
	AdditionalInfo string `json:"additional_info,omitempty"`
	IsAdmin        bool   `json:"is_admin"`
}

// listUserElement はユーザー一覧の1要素。
type listUserElement struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// listMeta はユーザー一覧のメタ情報。
type listMeta struct {
	Pagination model.Pagination `json:"pagination"`
}

// usersListResponse はメンバー向けのユーザー一覧レスポンス。
type usersListResponse struct {
	Data []listUserElement `json:"data"`
	Meta listMeta          `json:"meta"`
}

// cityHint は管理者向け一覧のメタ情報に含める都市情報。
type cityHint struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// privateListMeta は管理者向け一覧のメタ情報。都市ヒントを含む。
type privateListMeta struct {
	Pagination model.Pagination `json:"pagination"`
	Hint       struct {
		City []cityHint `json:"city"`
	} `json:"hint"`
}

// privateUsersListResponse は管理者向けのユーザー一覧レスポンス。
type privateUsersListResponse struct {
	Data []listUserElement `json:"data"`
	Meta privateListMeta   `json:"meta"`
}

// toCurrentUserResponse はユーザーをメンバー向け表現に変換する。
func toCurrentUserResponse(u *model.User) currentUserResponse {
	resp := currentUserResponse{
		FirstName: u.FirstName,
		LastName:  u.LastName,
		OtherName: u.OtherName,
		Email:     u.Email,
		Phone:     u.Phone,
		IsAdmin:   u.IsAdmin,
	}
	if u.Birthday != nil {
		resp.Birthday = u.Birthday.Format(dateLayout)
	}
	return resp
}

// toPrivateUserResponse はユーザーを管理者向け表現に変換する。
func toPrivateUserResponse(u *model.User) privateUserResponse {
	resp := privateUserResponse{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		OtherName:      u.OtherName,
		Email:          u.Email,
		Phone:          u.Phone,
		AdditionalInfo: u.AdditionalInfo,
		IsAdmin:        u.IsAdmin,
	}
	if u.Birthday != nil {
		resp.Birthday = u.Birthday.Format(dateLayout)
	}
	if u.City != nil {
		resp.City = *u.City
	}
	return resp
}

// toListElements はユーザー一覧を一覧要素表現に変換する。
func toListElements(users []*model.User) []listUserElement {
	elements := make([]listUserElement, len(users))
	for i, u := range users {
		elements[i] = listUserElement{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
		}
	}
	return elements
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(body)
}

// writeAPIErrorResponse は統一エラーフォーマットでエラーレスポンスを書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	writeJSONResponse(w, statusCode, map[string]string{
		"code":    apiErr.Code,
		"message": apiErr.Message,
	})
}

// handleServiceError はサービス層のエラーをHTTPレスポンスへ変換する。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	// APIError以外のエラーは内部サーバーエラーとして扱う
	slog.Error("internal server error", slog.String("error", err.Error()))
	writeAPIErrorResponse(w, http.StatusInternalServerError, &model.APIError{
		Code:    model.ErrCodeInternal,
		Message: "内部エラーが発生しました。",
	})
}

// mapAPIErrorToHTTPStatus はAPIErrorコードからHTTPステータスコードにマッピングする。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeNotAuthenticated:
		return http.StatusUnauthorized
	case model.ErrCodeNotAuthorized:
		return http.StatusForbidden
	case model.ErrCodeUserNotFound:
		return http.StatusNotFound
	case model.ErrCodeEmailExists, model.ErrCodeCityNotFound,
		model.ErrCodeInvalidCredentials, model.ErrCodeValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
