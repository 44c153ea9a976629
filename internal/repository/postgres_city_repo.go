package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sergkim13/users-API/internal/model"
)

// PostgresCityRepo はPostgreSQLを使用した都市マスタリポジトリ。
type PostgresCityRepo struct {
	db *sql.DB
}

// NewPostgresCityRepo はPostgresCityRepoを生成する。
func NewPostgresCityRepo(db *sql.DB) *PostgresCityRepo {
	return &PostgresCityRepo{db: db}
}

// FindByID は指定IDの都市を取得する。見つからない場合はnilを返す。
func (r *PostgresCityRepo) FindByID(ctx context.Context, id int64) (*model.City, error) {
	city := &model.City{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name FROM city WHERE id = $1`,
		id,
	).Scan(&city.ID, &city.Name)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find city by ID: %w", err)
	}

	return city, nil
}

// compile-time interface check
var _ CityRepository = (*PostgresCityRepo)(nil)
