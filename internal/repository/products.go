package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// Table — описание таблицы вендора для ProductRepository.
// K — тип первичного ключа, R — модель записи.
type Table[K comparable, R any] struct {
	// Name — имя таблицы
	Name string
	// Key — колонка первичного ключа
	Key string
	// Columns — список колонок SELECT/RETURNING (допускает приведения типов)
	Columns string
	// Scan — сканирование строки в модель в порядке Columns
	Scan func(row pgx.Row) (*R, error)
	// Insert — "(cols) VALUES ($1, ...)"
	Insert string
	// InsertArgs — аргументы для Insert
	InsertArgs func(r *R) []any
	// UpdateSet — выражение SET; $1 зарезервирован под ключ
	UpdateSet string
	// UpdateArgs — аргументы UpdateSet, начиная с $2
	UpdateArgs func(r *R) []any
}

// ProductRepository — CRUD по таблице вендора, общий для всех вендоров.
type ProductRepository[K comparable, R any] struct {
	db    TxDB
	table Table[K, R]

	listSQL   string
	getSQL    string
	insertSQL string
	updateSQL string
	deleteSQL string
	countSQL  string
}

// NewProductRepository создаёт репозиторий по описанию таблицы.
func NewProductRepository[K comparable, R any](db TxDB, t Table[K, R]) *ProductRepository[K, R] {
	return &ProductRepository[K, R]{
		db:        db,
		table:     t,
		listSQL:   fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, t.Columns, t.Name, t.Key),
		getSQL:    fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`, t.Columns, t.Name, t.Key),
		insertSQL: fmt.Sprintf(`INSERT INTO %s %s RETURNING %s`, t.Name, t.Insert, t.Columns),
		updateSQL: fmt.Sprintf(`UPDATE %s SET %s WHERE %s = $1 RETURNING %s`, t.Name, t.UpdateSet, t.Key, t.Columns),
		deleteSQL: fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s`, t.Name, t.Key, t.Columns),
		countSQL:  fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.Name),
	}
}

// List возвращает все записи в порядке возрастания ключа.
func (r *ProductRepository[K, R]) List(ctx context.Context) ([]*R, error) {
	rows, err := r.db.Query(ctx, r.listSQL)
	if err != nil {
		return nil, translate(err, "чтения "+r.table.Name)
	}
	defer rows.Close()

	var result []*R
	for rows.Next() {
		rec, err := r.table.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("ошибка сканирования %s: %w", r.table.Name, err)
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(err, "чтения "+r.table.Name)
	}
	return result, nil
}

// Get возвращает запись по ключу. Отсутствие — ErrNotFound.
func (r *ProductRepository[K, R]) Get(ctx context.Context, key K) (*R, error) {
	rec, err := r.table.Scan(r.db.QueryRow(ctx, r.getSQL, key))
	if err != nil {
		return nil, translate(err, "чтения "+r.table.Name)
	}
	return rec, nil
}

// Create вставляет запись и возвращает её в сохранённом виде.
// Занятый ключ — ErrConflict.
func (r *ProductRepository[K, R]) Create(ctx context.Context, rec *R) (*R, error) {
	saved, err := r.table.Scan(r.db.QueryRow(ctx, r.insertSQL, r.table.InsertArgs(rec)...))
	if err != nil {
		return nil, translate(err, "создания записи "+r.table.Name)
	}
	return saved, nil
}

// Modify выполняет read-modify-write одной записи в транзакции.
// Строка блокируется SELECT ... FOR UPDATE, поэтому параллельные
// изменения одного ключа выполняются последовательно.
// Ошибка fn откатывает транзакцию и возвращается как есть.
func (r *ProductRepository[K, R]) Modify(ctx context.Context, key K, fn func(cur *R) error) (*R, error) {
	var updated *R
	err := NewTxRunner(r.db).RunInTx(ctx, func(tx pgx.Tx) error {
		cur, err := r.table.Scan(tx.QueryRow(ctx, r.getSQL+" FOR UPDATE", key))
		if err != nil {
			return translate(err, "чтения "+r.table.Name)
		}

		if err := fn(cur); err != nil {
			return err
		}

		args := append([]any{key}, r.table.UpdateArgs(cur)...)
		updated, err = r.table.Scan(tx.QueryRow(ctx, r.updateSQL, args...))
		if err != nil {
			return translate(err, "обновления записи "+r.table.Name)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete удаляет запись и возвращает удалённое. Отсутствие — ErrNotFound.
func (r *ProductRepository[K, R]) Delete(ctx context.Context, key K) (*R, error) {
	rec, err := r.table.Scan(r.db.QueryRow(ctx, r.deleteSQL, key))
	if err != nil {
		return nil, translate(err, "удаления записи "+r.table.Name)
	}
	return rec, nil
}

// Count возвращает количество записей.
func (r *ProductRepository[K, R]) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, r.countSQL).Scan(&n); err != nil {
		return 0, translate(err, "подсчёта "+r.table.Name)
	}
	return n, nil
}
