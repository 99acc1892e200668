package db

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
)

// SQLStateUniqueViolation は一意制約違反のSQLSTATEです。
const SQLStateUniqueViolation = "23505"

// SQLState はpgxまたはMySQLドライバーのエラーからSQLSTATEを取り出します。
// SQLiteなどSQLSTATEを持たないエラーの場合は空文字を返します。
func SQLState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.SQLState != [5]byte{} {
		return string(myErr.SQLState[:])
	}
	return ""
}
