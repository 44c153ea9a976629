package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
)

func TestMapConstraintError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{
			name: "一意制約違反はErrDuplicateEmail",
			err:  &pq.Error{Code: pqUniqueViolation},
			want: ErrDuplicateEmail,
		},
		{
			name: "外部キー制約違反はErrCityNotFound",
			err:  &pq.Error{Code: pqForeignKeyViolation},
			want: ErrCityNotFound,
		},
		{
			name: "その他のpqエラーは変換しない",
			err:  &pq.Error{Code: "42P01"},
			want: nil,
		},
		{
			name: "pqエラー以外は変換しない",
			err:  errors.New("connection refused"),
			want: nil,
		},
		{
			name: "ラップされたpqエラーも変換する",
			err:  fmt.Errorf("insert failed: %w", &pq.Error{Code: pqUniqueViolation}),
			want: ErrDuplicateEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapConstraintError(tt.err)
			if !errors.Is(got, tt.want) && got != tt.want {
				t.Errorf("mapConstraintError() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if got := nullString(""); got.Valid {
		t.Error("空文字列がNULLに変換されていません")
	}
	if got := nullString("value"); !got.Valid || got.String != "value" {
		t.Errorf("nullString(%q) = %+v", "value", got)
	}
}
