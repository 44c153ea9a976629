package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sergkim13/users-API/internal/model"
	"github.com/sergkim13/users-API/internal/user"
)

// AdminServiceInterface は管理者向けハンドラーが必要とするサービスインターフェース。
type AdminServiceInterface interface {
	// GetDetail は指定IDのユーザーを返す。
	GetDetail(ctx context.Context, userID int64) (*model.User, error)
	// ListWithCityHints はユーザー一覧と参照都市の一覧を返す。
	ListWithCityHints(ctx context.Context, page, size int) (*model.UserPage, []*model.City, error)
	// Create は新規ユーザーを作成する。
	Create(ctx context.Context, input user.CreateUserInput) (*model.User, error)
	// Update は指定IDのユーザーを部分更新する。
	Update(ctx context.Context, userID int64, input user.UpdateUserInput) (*model.User, error)
	// Delete は指定IDのユーザーを削除する。
	Delete(ctx context.Context, userID int64) error
}

// AdminHandler は管理者層のユーザーAPIのHTTPハンドラー。
type AdminHandler struct {
	service AdminServiceInterface
}

// NewAdminHandler はAdminHandlerを生成する。
func NewAdminHandler(service AdminServiceInterface) *AdminHandler {
	return &AdminHandler{
		service: service,
	}
}

// List は都市ヒント付きのユーザー一覧を返す。
// GET /api/v1/private/users
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	page, size := parsePageQuery(r)

	userPage, cities, err := h.service.ListWithCityHints(r.Context(), page, size)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := privateUsersListResponse{
		Data: toListElements(userPage.Users),
	}
	resp.Meta.Pagination = userPage.Pagination
	resp.Meta.Hint.City = make([]cityHint, len(cities))
	for i, c := range cities {
		resp.Meta.Hint.City[i] = cityHint{ID: c.ID, Name: c.Name}
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

// Create は新規ユーザーを作成する。
// POST /api/v1/private/users
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req privateCreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("リクエストボディの解析に失敗しました"))
		return
	}

	input, err := req.toCreateInput()
	if err != nil {
		handleServiceError(w, err)
		return
	}

	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusCreated, toPrivateUserResponse(created))
}

// Detail は指定IDのユーザー詳細を返す。
// GET /api/v1/private/users/{pk}
func (h *AdminHandler) Detail(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	found, err := h.service.GetDetail(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toPrivateUserResponse(found))
}

// Update は指定IDのユーザーを部分更新する。
// PATCH /api/v1/private/users/{pk}
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	var req privateUpdateUserRequest
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

	updated, err := h.service.Update(r.Context(), userID, input)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toPrivateUserResponse(updated))
}

// Delete は指定IDのユーザーを削除する。
// DELETE /api/v1/private/users/{pk}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := parseUserID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseUserID はURLパラメータからユーザーIDを取り出す。
// 不正な場合はエラーレスポンスを書き込み、falseを返す。
func parseUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "pk"), 10, 64)
	if err != nil || userID < 1 {
		writeAPIErrorResponse(w, http.StatusBadRequest,
			model.NewValidationError("ユーザーIDは正の整数で指定してください"))
		return 0, false
	}
	return userID, true
}
