package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gigdesk/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger snapshot section names.
const (
	LedgerSectionTransactions = "transactions"
	LedgerSectionEarnings     = "earnings"
	LedgerSectionRevenue      = "revenue"
)

// LedgerSnapshot is one persisted section of the ledger state.
type LedgerSnapshot struct {
	Name      string `gorm:"primaryKey"`
	Data      []byte `gorm:"type:jsonb"`
	UpdatedAt time.Time
}

// LedgerStore persists the ledger state as three jsonb rows, saved
// atomically. It implements the ledger service's Store interface.
type LedgerStore struct {
	db *gorm.DB
}

// NewLedgerStore creates a new LedgerStore.
func NewLedgerStore(db *gorm.DB) *LedgerStore {
	return &LedgerStore{db: db}
}

// Load reads the persisted state, returning empty defaults for any
// missing section.
func (s *LedgerStore) Load(ctx context.Context) (*models.LedgerState, error) {
	state := models.NewLedgerState()

	var rows []LedgerSnapshot
	if err := s.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load ledger snapshots: %w", err)
	}

	for _, row := range rows {
		var err error
		switch row.Name {
		case LedgerSectionTransactions:
			err = json.Unmarshal(row.Data, &state.Transactions)
		case LedgerSectionEarnings:
			err = json.Unmarshal(row.Data, &state.Earnings)
		case LedgerSectionRevenue:
			err = json.Unmarshal(row.Data, &state.Revenue)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode ledger section %q: %w", row.Name, err)
		}
	}

	if state.Revenue.Monthly == nil {
		state.Revenue.Monthly = make(map[string]float64)
	}
	if state.Revenue.Daily == nil {
		state.Revenue.Daily = make(map[string]float64)
	}

	return state, nil
}

// Save writes all three sections in a single database transaction.
func (s *LedgerStore) Save(ctx context.Context, state *models.LedgerState) error {
	sections := map[string]interface{}{
		LedgerSectionTransactions: state.Transactions,
		LedgerSectionEarnings:     state.Earnings,
		LedgerSectionRevenue:      state.Revenue,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, payload := range sections {
			data, err := json.Marshal(payload)
			if err != nil {
				return fmt.Errorf("failed to encode ledger section %q: %w", name, err)
			}
			row := LedgerSnapshot{Name: name, Data: data, UpdatedAt: time.Now()}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("failed to save ledger section %q: %w", name, err)
			}
		}
		return nil
	})
}
