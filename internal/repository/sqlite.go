package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"simpleinvoice/internal/logger"
	"simpleinvoice/pkg/models"
	"simpleinvoice/pkg/services"
)

// invoiceRecord is the SQLite row layout of an invoice.
type invoiceRecord struct {
	ID             string  `gorm:"primaryKey;size:36"`
	UserID         *string `gorm:"index"`
	AnonymousToken *string `gorm:"index"`
	InvoiceNumber  string  `gorm:"not null"`
	Status         string  `gorm:"not null;default:draft"`
	ClientName     string  `gorm:"not null"`
	ClientEmail    *string
	FromName       *string
	FromEmail      *string
	Items          datatypes.JSONSlice[models.LineItem] `gorm:"not null"`
	Subtotal       float64
	TaxRate        float64
	TaxAmount      float64
	Total          float64
	Currency       string `gorm:"not null;default:USD"`
	Notes          *string
	DueDate        *string
	PaidAt         *time.Time
	CreatedAt      time.Time `gorm:"index"`
	UpdatedAt      time.Time
}

func (invoiceRecord) TableName() string { return invoicesTable }

// SQLiteRepository stores invoices in a local SQLite database through gorm.
type SQLiteRepository struct {
	db  *gorm.DB
	now func() time.Time
	log zerolog.Logger
}

// OpenSQLite opens (creating if needed) the database at path and migrates
// the invoices table. Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLiteRepository, error) {
	const op = "OpenSQLite"

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%s: failed to open %s: %w", op, path, err)
	}

	return NewSQLiteRepository(db)
}

// NewSQLiteRepository wraps an open gorm connection and migrates the schema.
func NewSQLiteRepository(db *gorm.DB) (*SQLiteRepository, error) {
	const op = "NewSQLiteRepository"

	if err := db.AutoMigrate(&invoiceRecord{}); err != nil {
		return nil, fmt.Errorf("%s: failed to migrate invoices table: %w", op, err)
	}

	return &SQLiteRepository{
		db:  db,
		now: time.Now,
		log: logger.WithComponent("sqlite-repository"),
	}, nil
}

var _ services.InvoiceRepository = (*SQLiteRepository)(nil)

func (r *SQLiteRepository) Create(ctx context.Context, invoice *models.Invoice) (*models.Invoice, error) {
	const op = "Create"

	rec := toRecord(invoice)
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	now := r.now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return nil, fmt.Errorf("%s: failed to insert invoice: %w", op, err)
	}

	r.log.Debug().
		Str("invoice_id", rec.ID).
		Str("invoice_number", rec.InvoiceNumber).
		Msg("Invoice inserted")

	return fromRecord(rec), nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*models.Invoice, error) {
	const op = "Get"

	var rec invoiceRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: failed to load invoice %s: %w", op, id, err)
	}
	return fromRecord(rec), nil
}

func (r *SQLiteRepository) ListByOwner(ctx context.Context, owner models.Owner) ([]models.Invoice, error) {
	const op = "ListByOwner"

	if owner.IsZero() {
		return []models.Invoice{}, nil
	}

	query := r.db.WithContext(ctx).Order("created_at DESC")
	if owner.UserID != "" {
		query = query.Where("user_id = ?", owner.UserID)
	} else {
		query = query.Where("anonymous_token = ?", owner.AnonymousToken)
	}

	var recs []invoiceRecord
	if err := query.Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("%s: failed to list invoices: %w", op, err)
	}

	invoices := make([]models.Invoice, 0, len(recs))
	for _, rec := range recs {
		invoices = append(invoices, *fromRecord(rec))
	}
	return invoices, nil
}

func (r *SQLiteRepository) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (*models.Invoice, error) {
	const op = "UpdateStatus"

	// Map form so that a nil PaidAt is written as NULL.
	result := r.db.WithContext(ctx).
		Model(&invoiceRecord{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     string(update.Status),
			"paid_at":    update.PaidAt,
			"updated_at": update.UpdatedAt,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("%s: failed to update invoice %s: %w", op, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}

	return r.Get(ctx, id)
}

// Close releases the underlying connection.
func (r *SQLiteRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toRecord(inv *models.Invoice) invoiceRecord {
	return invoiceRecord{
		ID:             inv.ID,
		UserID:         inv.UserID,
		AnonymousToken: inv.AnonymousToken,
		InvoiceNumber:  inv.InvoiceNumber,
		Status:         string(inv.Status),
		ClientName:     inv.ClientName,
		ClientEmail:    inv.ClientEmail,
		FromName:       inv.FromName,
		FromEmail:      inv.FromEmail,
		Items:          datatypes.JSONSlice[models.LineItem](inv.Items),
		Subtotal:       inv.Subtotal,
		TaxRate:        inv.TaxRate,
		TaxAmount:      inv.TaxAmount,
		Total:          inv.Total,
		Currency:       inv.Currency,
		Notes:          inv.Notes,
		DueDate:        inv.DueDate,
		PaidAt:         inv.PaidAt,
		CreatedAt:      inv.CreatedAt,
		UpdatedAt:      inv.UpdatedAt,
	}
}

func fromRecord(rec invoiceRecord) *models.Invoice {
	items := []models.LineItem(rec.Items)
	if items == nil {
		items = []models.LineItem{}
	}
	return &models.Invoice{
		ID:             rec.ID,
		UserID:         rec.UserID,
		AnonymousToken: rec.AnonymousToken,
		InvoiceNumber:  rec.InvoiceNumber,
		Status:         models.Status(rec.Status),
		ClientName:     rec.ClientName,
		ClientEmail:    rec.ClientEmail,
		FromName:       rec.FromName,
		FromEmail:      rec.FromEmail,
		Items:          items,
		Subtotal:       rec.Subtotal,
		TaxRate:        rec.TaxRate,
		TaxAmount:      rec.TaxAmount,
		Total:          rec.Total,
		Currency:       rec.Currency,
		Notes:          rec.Notes,
		DueDate:        rec.DueDate,
		PaidAt:         rec.PaidAt,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
	}
}
