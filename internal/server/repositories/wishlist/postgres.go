package wishlist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/wishsync/internal/common"
	"github.com/dmitrijs2005/wishsync/internal/dbx"
	"github.com/dmitrijs2005/wishsync/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func dbError(err error) error {
	return fmt.Errorf("db error: %w", err)
}

// ---- favorites ----

func (r *PostgresRepository) ListFavorites(ctx context.Context, userID string) ([]models.Favorite, error) {
	query :=
		`SELECT product_id, name, brand, image, price, currency, added_at
		 FROM favorites
		 WHERE user_id = $1
		 ORDER BY added_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	result := make([]models.Favorite, 0)
	for rows.Next() {
		f := models.Favorite{UserID: userID}
		if err := rows.Scan(&f.ProductID, &f.Name, &f.Brand, &f.Image, &f.Price, &f.Currency, &f.AddedAt); err != nil {
			return nil, dbError(err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return result, nil
}

func (r *PostgresRepository) AddFavorite(ctx context.Context, f *models.Favorite) error {
	query :=
		`INSERT INTO favorites (user_id, product_id, name, brand, image, price, currency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, product_id) DO NOTHING
		 `

	_, err := r.db.ExecContext(ctx, query, f.UserID, f.ProductID, f.Name, f.Brand, f.Image, f.Price, f.Currency)
	if err != nil {
		return dbError(err)
	}
	return nil
}

func (r *PostgresRepository) RemoveFavorite(ctx context.Context, userID, productID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND product_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, productID); err != nil {
		return dbError(err)
	}
	return nil
}

// ---- collections ----

const collectionColumns = `c.id, c.user_id, c.name, c.icon, c.description, c.is_public,
		 (SELECT count(*) FROM collection_items i WHERE i.collection_id = c.id),
		 c.created_at, c.updated_at`

func scanCollection(scan func(dest ...any) error) (models.Collection, error) {
	var c models.Collection
	err := scan(&c.ID, &c.UserID, &c.Name, &c.Icon, &c.Description, &c.IsPublic, &c.ItemCount, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (r *PostgresRepository) ListCollections(ctx context.Context, userID string) ([]models.Collection, error) {
	query := `SELECT ` + collectionColumns + `
		 FROM collections c
		 WHERE c.user_id = $1
		 ORDER BY c.created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	result := make([]models.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows.Scan)
		if err != nil {
			return nil, dbError(err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return result, nil
}

func (r *PostgresRepository) GetCollection(ctx context.Context, userID, id string) (*models.Collection, error) {
	query := `SELECT ` + collectionColumns + `
		 FROM collections c
		 WHERE c.id = $1 AND c.user_id = $2
		 `

	c, err := scanCollection(r.db.QueryRowContext(ctx, query, id, userID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return &c, nil
}

// CreateCollection inserts c and reports whether a new row was created. An
// existing collection with the same id is left untouched.
func (r *PostgresRepository) CreateCollection(ctx context.Context, c *models.Collection) (bool, error) {
	query :=
		`INSERT INTO collections (id, user_id, name, icon, description, is_public)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.Name, c.Icon, c.Description, c.IsPublic)
	if err != nil {
		return false, dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, dbError(err)
	}
	return n > 0, nil
}

func (r *PostgresRepository) UpdateCollection(ctx context.Context, c *models.Collection) error {
	query :=
		`UPDATE collections
		 SET name = $3, icon = $4, description = $5, is_public = $6, updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, c.ID, c.UserID, c.Name, c.Icon, c.Description, c.IsPublic)
	if err != nil {
		return dbError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbError(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) DeleteCollection(ctx context.Context, userID, id string) error {
	query := `DELETE FROM collections WHERE id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, id, userID); err != nil {
		return dbError(err)
	}
	return nil
}

// ---- collection items ----

func (r *PostgresRepository) ListItems(ctx context.Context, collectionID string) ([]models.CollectionItem, error) {
	query :=
		`SELECT product_id, note, added_at
		 FROM collection_items
		 WHERE collection_id = $1
		 ORDER BY added_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	result := make([]models.CollectionItem, 0)
	for rows.Next() {
		it := models.CollectionItem{CollectionID: collectionID}
		if err := rows.Scan(&it.ProductID, &it.Note, &it.AddedAt); err != nil {
			return nil, dbError(err)
		}
		result = append(result, it)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return result, nil
}

func (r *PostgresRepository) AddItem(ctx context.Context, it *models.CollectionItem) error {
	query :=
		`INSERT INTO collection_items (collection_id, product_id, note)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (collection_id, product_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, it.CollectionID, it.ProductID, it.Note); err != nil {
		return dbError(err)
	}
	return nil
}

func (r *PostgresRepository) RemoveItem(ctx context.Context, collectionID, productID string) error {
	query := `DELETE FROM collection_items WHERE collection_id = $1 AND product_id = $2`

	if _, err := r.db.ExecContext(ctx, query, collectionID, productID); err != nil {
		return dbError(err)
	}
	return nil
}

// ---- saved stores ----

func (r *PostgresRepository) ListSavedStores(ctx context.Context, userID string) ([]models.SavedStore, error) {
	query :=
		`SELECT store_id, name, logo, saved_at
		 FROM saved_stores
		 WHERE user_id = $1
		 ORDER BY saved_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, dbError(err)
	}
	defer rows.Close()

	result := make([]models.SavedStore, 0)
	for rows.Next() {
		s := models.SavedStore{UserID: userID}
		if err := rows.Scan(&s.StoreID, &s.Name, &s.Logo, &s.SavedAt); err != nil {
			return nil, dbError(err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err)
	}
	return result, nil
}

func (r *PostgresRepository) SaveStore(ctx context.Context, s *models.SavedStore) error {
	query :=
		`INSERT INTO saved_stores (user_id, store_id, name, logo)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, store_id) DO NOTHING
		 `

	if _, err := r.db.ExecContext(ctx, query, s.UserID, s.StoreID, s.Name, s.Logo); err != nil {
		return dbError(err)
	}
	return nil
}

func (r *PostgresRepository) RemoveSavedStore(ctx context.Context, userID, storeID string) error {
	query := `DELETE FROM saved_stores WHERE user_id = $1 AND store_id = $2`

	if _, err := r.db.ExecContext(ctx, query, userID, storeID); err != nil {
		return dbError(err)
	}
	return nil
}

// ---- settings ----

const settingsColumns = `user_id, is_public, COALESCE(share_token, ''), updated_at`

func (r *PostgresRepository) scanSettings(row *sql.Row) (*models.WishlistSettings, error) {
	s := &models.WishlistSettings{}
	if err := row.Scan(&s.UserID, &s.IsPublic, &s.ShareToken, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbError(err)
	}
	return s, nil
}

// GetSettings returns the user's settings, or private defaults when none
// were stored yet.
func (r *PostgresRepository) GetSettings(ctx context.Context, userID string) (*models.WishlistSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM wishlist_settings WHERE user_id = $1`

	s, err := r.scanSettings(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, common.ErrorNotFound) {
		return &models.WishlistSettings{UserID: userID}, nil
	}
	return s, err
}

func (r *PostgresRepository) SetPublic(ctx context.Context, userID string, public bool) (*models.WishlistSettings, error) {
	query :=
		`INSERT INTO wishlist_settings (user_id, is_public)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE SET is_public = EXCLUDED.is_public, updated_at = now()
		 RETURNING ` + settingsColumns

	return r.scanSettings(r.db.QueryRowContext(ctx, query, userID, public))
}

// EnsureShareToken stores token unless the user already has one. The
// settings returned always carry the token in effect.
func (r *PostgresRepository) EnsureShareToken(ctx context.Context, userID, token string) (*models.WishlistSettings, error) {
	query :=
		`INSERT INTO wishlist_settings (user_id, share_token)
		 VALUES ($1, $2)
		 ON CONFLICT (user_id) DO UPDATE
		 SET share_token = COALESCE(wishlist_settings.share_token, EXCLUDED.share_token), updated_at = now()
		 RETURNING ` + settingsColumns

	return r.scanSettings(r.db.QueryRowContext(ctx, query, userID, token))
}

func (r *PostgresRepository) FindByShareToken(ctx context.Context, token string) (*models.WishlistSettings, error) {
	query := `SELECT ` + settingsColumns + ` FROM wishlist_settings WHERE share_token = $1`

	return r.scanSettings(r.db.QueryRowContext(ctx, query, token))
}

var _ Repository = (*PostgresRepository)(nil)
