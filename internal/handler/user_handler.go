package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sergkim13/users-API/internal/middleware"
	"github.com/sergkim13/users-API/internal/model"
	"github.com/sergkim13/users-API/internal/user"
)

// UserServiceInterface はメンバー向けハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetDetail は指定IDのユーザーを返す。
	GetDetail(ctx context.Context, userID int64) (*model.User, error)
	// List はページ単位のユーザー一覧を返す。
	List(ctx context.Context, page, size int) (*model.UserPage, error)
	// Update は指定IDのユーザーを部分更新する。
	Update(ctx context.Context, userID int64, input user.UpdateUserInput) (*model.User, error)
}

// UserHandler はメンバー層のユーザーAPIのHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// List はページ単位のユーザー一覧を返す。
// GET /api/v1/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := parsePageQuery(r)

	userPage, err := h.service.List(r.Context(), page, size)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, usersListResponse{
		Data: toListElements(userPage.Users),
		Meta: listMeta{Pagination: userPage.Pagination},
	})
}

// Current はログイン中ユーザー自身の情報を返す。
// GET /api/v1/users/current
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	payload, err := middleware.PayloadFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	current, err := h.service.GetDetail(r.Context(), payload.UserID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toCurrentUserResponse(current))
}

// UpdateCurrent はログイン中ユーザー自身の情報を部分更新する。
// 未指定のフィールドは変更されない。
// PATCH /api/v1/users/current
func (h *UserHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	payload, err := middleware.PayloadFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewNotAuthenticatedError())
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	input, err := req.toUpdateInput()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), payload.UserID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toCurrentUserResponse(updated))
}
