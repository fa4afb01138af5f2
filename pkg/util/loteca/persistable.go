package loteca

import (
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/MichelRochytor/projetoloteca/internal/logger"
	_ "modernc.org/sqlite"
)

var (
	db     *sql.DB
	dbPath string
	dbMu   sync.Mutex
)

// Persistable interface defines methods that persistent objects must implement
type Persistable interface {
	GetTableName() string
	GetPrimaryKey() map[string]interface{}
	SetPrimaryKey(map[string]interface{}) error
	BeforeSave() error
	AfterSave() error
}

// queryer is satisfied by both *sql.DB and *sql.Tx
type queryer interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// InitDatabase opens the database at path (":memory:" works for tests) and creates the tables.
// Any previously opened database is closed first.
func InitDatabase(path string) error {
	dbMu.Lock()
	if db != nil {
		db.Close()
		db = nil
	}
	dbPath = path
	dbMu.Unlock()

	if _, err := GetDB(); err != nil {
		return err
	}
	return createTables()
}

// CloseDatabase closes the database connection
func CloseDatabase() error {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db == nil {
		return nil
	}
	err := db.Close()
	db = nil
	return err
}

// GetDB returns the open database, opening Config.DbPath on first use
func GetDB() (*sql.DB, error) {
	dbMu.Lock()
	defer dbMu.Unlock()
	if db != nil {
		return db, nil
	}

	path := dbPath
	if path == "" {
		path = Config.DbPath
	}
	d, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases and transactions on the same handle
	d.SetMaxOpenConns(1)

	if err = d.Ping(); err != nil {
		d.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database initialized successfully", path)
	db = d
	return db, nil
}

// createTables creates all necessary database tables
func createTables() error {
	logger.Debug("Creating database tables")

	if err := CreateTable(&H2HRecord{}); err != nil {
		return fmt.Errorf("failed to create h2h table: %w", err)
	}
	if err := CreateTable(&EnrichedMatch{}); err != nil {
		return fmt.Errorf("failed to create enriched match table: %w", err)
	}
	return nil
}

// CreateTable creates a table for the given persistable object using struct tags
func CreateTable(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	tableName := obj.GetTableName()
	createSQL := generateCreateTableSQL(obj, tableName)
	logger.Debug("Creating table with SQL", createSQL)

	if _, err = d.Exec(createSQL); err != nil {
		return fmt.Errorf("failed to create table %s: %w", tableName, err)
	}

	for _, query := range generateIndexSQL(obj, tableName) {
		logger.Debug("Creating index with SQL", query)
		if _, err := d.Exec(query); err != nil {
			logger.Warn("Failed to create index", err)
		}
	}
	return nil
}

// persistedField is one struct field carrying a dbtype tag
type persistedField struct {
	index   int
	column  string
	dbType  string
	primary bool
	indexed bool
}

func persistedFields(t reflect.Type) []persistedField {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	var fields []persistedField
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("db") == "-" {
			continue
		}
		dbType := field.Tag.Get("dbtype")
		if dbType == "" {
			continue
		}
		column := field.Tag.Get("column")
		if column == "" {
			column = strings.ToLower(field.Name)
		}
		fields = append(fields, persistedField{
			index:   i,
			column:  column,
			dbType:  dbType,
			primary: field.Tag.Get("primary") == "true",
			indexed: field.Tag.Get("index") != "",
		})
	}
	return fields
}

// generateCreateTableSQL generates CREATE TABLE SQL from struct tags
func generateCreateTableSQL(obj interface{}, tableName string) string {
	var columns []string
	var primaryKeys []string
	for _, f := range persistedFields(reflect.TypeOf(obj)) {
		columns = append(columns, fmt.Sprintf("%s %s", f.column, f.dbType))
		if f.primary {
			primaryKeys = append(primaryKeys, f.column)
		}
	}
	if len(primaryKeys) > 0 {
		columns = append(columns, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(primaryKeys, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", tableName, strings.Join(columns, ", "))
}

// generateIndexSQL generates index creation SQL from struct tags
func generateIndexSQL(obj interface{}, tableName string) []string {
	var indexSQL []string
	for _, f := range persistedFields(reflect.TypeOf(obj)) {
		if !f.indexed {
			continue
		}
		indexSQL = append(indexSQL, fmt.Sprintf("CREATE INDEX IF NOT EXISTS idx_%s_%s ON %s(%s)",
			tableName, f.column, tableName, f.column))
	}
	return indexSQL
}

// Save persists the object (INSERT or UPDATE)
func Save(obj Persistable) error {
	d, err := GetDB()
	if err != nil {
		return err
	}
	return save(d, obj)
}

func save(q queryer, obj Persistable) error {
	if err := obj.BeforeSave(); err != nil {
		return fmt.Errorf("before save hook failed: %w", err)
	}

	exists, err := exists(q, obj)
	if err != nil {
		return fmt.Errorf("failed to check existence: %w", err)
	}
	if exists {
		err = update(q, obj)
	} else {
		err = insert(q, obj)
	}
	if err != nil {
		return err
	}

	if err := obj.AfterSave(); err != nil {
		return fmt.Errorf("after save hook failed: %w", err)
	}
	return nil
}

func insert(q queryer, obj Persistable) error {
	tableName := obj.GetTableName()
	v := reflect.Indirect(reflect.ValueOf(obj))

	var columns, placeholders []string
	var values []interface{}
	for _, f := range persistedFields(v.Type()) {
		columns = append(columns, f.column)
		placeholders = append(placeholders, "?")
		values = append(values, v.Field(f.index).Interface())
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		tableName, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := q.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to insert into %s: %w", tableName, err)
	}
	return nil
}

func update(q queryer, obj Persistable) error {
	tableName := obj.GetTableName()
	v := reflect.Indirect(reflect.ValueOf(obj))

	var setPairs []string
	var values []interface{}
	for _, f := range persistedFields(v.Type()) {
		if f.primary {
			continue
		}
		setPairs = append(setPairs, fmt.Sprintf("%s = ?", f.column))
		values = append(values, v.Field(f.index).Interface())
	}
	if len(setPairs) == 0 {
		return nil
	}

	whereClause, whereValues := buildWhereClause(obj.GetPrimaryKey())
	values = append(values, whereValues...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s", tableName, strings.Join(setPairs, ", "), whereClause)
	if _, err := q.Exec(query, values...); err != nil {
		return fmt.Errorf("failed to update %s: %w", tableName, err)
	}
	return nil
}

// Exists checks if the object exists in the database
func Exists(obj Persistable) (bool, error) {
	d, err := GetDB()
	if err != nil {
		return false, err
	}
	return exists(d, obj)
}

func exists(q queryer, obj Persistable) (bool, error) {
	tableName := obj.GetTableName()
	whereClause, values := buildWhereClause(obj.GetPrimaryKey())

	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", tableName, whereClause)
	if err := q.QueryRow(query, values...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check existence in %s: %w", tableName, err)
	}
	return count > 0, nil
}

// FindByPrimaryKey loads the row with the given key into obj
func FindByPrimaryKey(obj Persistable, primaryKey map[string]interface{}) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	tableName := obj.GetTableName()
	columns, destinations := getSelectData(obj)
	whereClause, values := buildWhereClause(primaryKey)

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), tableName, whereClause)
	if err := d.QueryRow(query, values...).Scan(destinations...); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("record not found in %s", tableName)
		}
		return fmt.Errorf("failed to scan row from %s: %w", tableName, err)
	}
	return nil
}

// FindAll retrieves all records of the given type
func FindAll[T any, P interface {
	*T
	Persistable
}]() ([]P, error) {
	return FindWhere[T, P]("1 = 1")
}

// FindWhere retrieves the records matching a WHERE clause
func FindWhere[T any, P interface {
	*T
	Persistable
}](whereClause string, args ...interface{}) ([]P, error) {
	d, err := GetDB()
	if err != nil {
		return nil, err
	}

	tableName := P(new(T)).GetTableName()
	columns, _ := getSelectData(new(T))
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(columns, ", "), tableName, whereClause)
	logger.Debug("FindWhere SQL", query)

	rows, err := d.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", tableName, err)
	}
	defer rows.Close()

	var results []P
	for rows.Next() {
		obj := P(new(T))
		_, destinations := getSelectData(obj)
		if err := rows.Scan(destinations...); err != nil {
			return nil, fmt.Errorf("failed to scan row from %s: %w", tableName, err)
		}
		results = append(results, obj)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows from %s: %w", tableName, err)
	}
	return results, nil
}

// Count returns the number of rows in obj's table
func Count(obj Persistable) (int, error) {
	d, err := GetDB()
	if err != nil {
		return 0, err
	}
	var n int
	if err := d.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", obj.GetTableName())).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", obj.GetTableName(), err)
	}
	return n, nil
}

func getSelectData(obj interface{}) ([]string, []interface{}) {
	v := reflect.Indirect(reflect.ValueOf(obj))
	var columns []string
	var destinations []interface{}
	for _, f := range persistedFields(v.Type()) {
		columns = append(columns, f.column)
		destinations = append(destinations, v.Field(f.index).Addr().Interface())
	}
	return columns, destinations
}

// BulkSave saves multiple objects in one transaction
func BulkSave[P Persistable](objects []P) error {
	d, err := GetDB()
	if err != nil {
		return err
	}

	tx, err := d.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, obj := range objects {
		if err := save(tx, obj); err != nil {
			return fmt.Errorf("failed to save object: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// buildWhereClause builds a WHERE clause from a primary key map, columns in sorted order
func buildWhereClause(primaryKey map[string]interface{}) (string, []interface{}) {
	keys := make([]string, 0, len(primaryKey))
	for column := range primaryKey {
		keys = append(keys, column)
	}
	sort.Strings(keys)

	var conditions []string
	var values []interface{}
	for _, column := range keys {
		conditions = append(conditions, fmt.Sprintf("%s = ?", column))
		values = append(values, primaryKey[column])
	}
	return strings.Join(conditions, " AND "), values
}
