// Package repositories はデータベース操作を行うリポジトリを提供します。
package repositories

import (
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrTaskNotFound      = errors.New("task not found")
	ErrMemoNotFound      = errors.New("memo not found")
	ErrDuplicateIdentity = errors.New("duplicate github username")
	ErrTaskHasChildren   = errors.New("task has child tasks")
)

// isDuplicate は一意制約違反かどうかを判定します。
// MySQL はエラーコード1062、SQLite は拡張コード SQLITE_CONSTRAINT_UNIQUE を返します。
func isDuplicate(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == 1062
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}

// now は保存用の現在時刻です。ドライバー間で揃えるため UTC にします。
func now() time.Time {
	return time.Now().UTC()
}
