/*
 * @Description: 数据库迁移服务（建表、补字段、建索引）
 * @Author: 安知鱼
 * @Date: 2026-09-03
 */
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// MigrationService 数据库迁移服务
type MigrationService struct {
	db      *sql.DB
	dialect string
}

// NewMigrationService 创建迁移服务
func NewMigrationService(db *sql.DB, dialect string) *MigrationService {
	return &MigrationService{
		db:      db,
		dialect: dialect,
	}
}

// RunMigrations 执行所有迁移，可重复执行
func (m *MigrationService) RunMigrations(ctx context.Context) error {
	log.Println("📋 开始执行数据库迁移...")

	if err := m.createTables(ctx); err != nil {
		return fmt.Errorf("建表失败: %w", err)
	}
	if err := m.migrateMediaLanguage(ctx); err != nil {
		return fmt.Errorf("media.language 字段迁移失败: %w", err)
	}
	if err := m.createIndexes(ctx); err != nil {
		return fmt.Errorf("创建索引失败: %w", err)
	}

	log.Println("✅ 数据库迁移完成")
	return nil
}

// columnTypes 不同方言下的列类型
type columnTypes struct {
	id, float, timestamp string
}

func (m *MigrationService) types() columnTypes {
	switch m.dialect {
	case DialectMySQL:
		return columnTypes{id: "INT UNSIGNED AUTO_INCREMENT PRIMARY KEY", float: "DOUBLE", timestamp: "TIMESTAMP"}
	case DialectPostgres:
		return columnTypes{id: "SERIAL PRIMARY KEY", float: "DOUBLE PRECISION", timestamp: "TIMESTAMP"}
	default:
		return columnTypes{id: "INTEGER PRIMARY KEY AUTOINCREMENT", float: "REAL", timestamp: "TIMESTAMP"}
	}
}

// createTables 创建资料库的五张表。tags 以 ",a,b," 的形式存储，便于按单个标签 LIKE 匹配。
func (m *MigrationService) createTables(ctx context.Context) error {
	t := m.types()
	statements := []string{
		`CREATE TABLE IF NOT EXISTS movies (
			id ` + t.id + `,
			title VARCHAR(255) NOT NULL,
			original_title VARCHAR(255) NOT NULL DEFAULT '',
			english_title VARCHAR(255) NOT NULL DEFAULT '',
			synopsis TEXT,
			director VARCHAR(128) NOT NULL DEFAULT '',
			year INTEGER NOT NULL DEFAULT 0,
			duration INTEGER NOT NULL DEFAULT 0,
			rating ` + t.float + ` NOT NULL DEFAULT 0,
			poster_url VARCHAR(512) NOT NULL DEFAULT '',
			tags VARCHAR(512) NOT NULL DEFAULT '',
			created_at ` + t.timestamp + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS characters (
			id ` + t.id + `,
			name VARCHAR(255) NOT NULL,
			japanese_name VARCHAR(255) NOT NULL DEFAULT '',
			description TEXT,
			voice_actor VARCHAR(128) NOT NULL DEFAULT '',
			movie_title VARCHAR(255) NOT NULL DEFAULT '',
			image_url VARCHAR(512) NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS reviews (
			id ` + t.id + `,
			title VARCHAR(255) NOT NULL,
			content TEXT,
			author VARCHAR(128) NOT NULL DEFAULT '',
			rating ` + t.float + ` NOT NULL DEFAULT 0,
			movie_title VARCHAR(255) NOT NULL DEFAULT '',
			language VARCHAR(16) NOT NULL DEFAULT '',
			created_at ` + t.timestamp + ` NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS guides (
			id ` + t.id + `,
			title VARCHAR(255) NOT NULL,
			summary TEXT,
			content TEXT,
			author VARCHAR(128) NOT NULL DEFAULT '',
			tags VARCHAR(512) NOT NULL DEFAULT '',
			cover_url VARCHAR(512) NOT NULL DEFAULT '',
			reading_time INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS media (
			id ` + t.id + `,
			title VARCHAR(255) NOT NULL,
			description TEXT,
			kind VARCHAR(32) NOT NULL DEFAULT '',
			thumbnail_url VARCHAR(512) NOT NULL DEFAULT '',
			tags VARCHAR(512) NOT NULL DEFAULT '',
			movie_title VARCHAR(255) NOT NULL DEFAULT ''
		)`,
	}

	for _, stmt := range statements {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	log.Println("  ✓ 资料库表结构已就绪")
	return nil
}

// migrateMediaLanguage 早期的 media 表没有 language 字段，按需补上
func (m *MigrationService) migrateMediaLanguage(ctx context.Context) error {
	exists, err := m.columnExists(ctx, "media", "language")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	log.Println("  → 添加 media.language 字段...")
	if _, err := m.db.ExecContext(ctx, `ALTER TABLE media ADD COLUMN language VARCHAR(16) NOT NULL DEFAULT ''`); err != nil {
		return fmt.Errorf("添加 language 字段失败: %w", err)
	}
	log.Println("  ✓ media.language 字段迁移完成")
	return nil
}

// createIndexes 为常用过滤字段建立索引
func (m *MigrationService) createIndexes(ctx context.Context) error {
	indexes := []struct{ name, table, column string }{
		{"idx_movies_year", "movies", "year"},
		{"idx_movies_director", "movies", "director"},
		{"idx_reviews_language", "reviews", "language"},
		{"idx_media_language", "media", "language"},
	}

	for _, idx := range indexes {
		var stmt string
		if m.dialect == DialectMySQL {
			// MySQL 不支持 CREATE INDEX IF NOT EXISTS
			stmt = fmt.Sprintf("CREATE INDEX %s ON %s(%s)", idx.name, idx.table, idx.column)
		} else {
			stmt = fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)", idx.name, idx.table, idx.column)
		}
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			if m.dialect == DialectMySQL && strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return fmt.Errorf("创建索引 %s 失败: %w", idx.name, err)
		}
	}
	return nil
}

// columnExists 检查列是否存在
func (m *MigrationService) columnExists(ctx context.Context, tableName, columnName string) (bool, error) {
	var query string

	switch m.dialect {
	case DialectMySQL:
		query = `
			SELECT COUNT(*)
			FROM INFORMATION_SCHEMA.COLUMNS
			WHERE TABLE_SCHEMA = DATABASE()
			AND TABLE_NAME = ?
			AND COLUMN_NAME = ?
		`
	case DialectPostgres:
		query = `
			SELECT COUNT(*)
			FROM information_schema.columns
			WHERE table_name = $1
			AND column_name = $2
		`
	case DialectSQLite:
		query = `
			SELECT COUNT(*)
			FROM pragma_table_info(?)
			WHERE name = ?
		`
	default:
		return false, fmt.Errorf("不支持的数据库类型: %s", m.dialect)
	}

	var count int
	if err := m.db.QueryRowContext(ctx, query, tableName, columnName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// Bootstrap 执行迁移，并在开启 seed 时写入示例数据
func Bootstrap(ctx context.Context, db *sql.DB, dialect string, seed bool) error {
	if err := NewMigrationService(db, dialect).RunMigrations(ctx); err != nil {
		return err
	}
	if !seed {
		return nil
	}
	return Seed(ctx, db, dialect)
}
