package db

import "gorm.io/gorm"

// RowLockClause returns the suffix that serializes concurrent writers on the
// selected rows. SQLite has no FOR UPDATE syntax; its writes are serialized
// by the engine itself.
func RowLockClause(tx *gorm.DB) string {
	if tx == nil || tx.Dialector == nil {
		return ""
	}
	if tx.Dialector.Name() == "sqlite" {
		return ""
	}
	return " FOR UPDATE"
}
