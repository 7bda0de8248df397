package services

import (
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/canteen-app/events"
	"github.com/yeremiapane/canteen-app/models"
	"github.com/yeremiapane/canteen-app/utils"
)

// StockMonitor periodically scans the catalog for foods running low and
// pushes a low_stock event to connected dashboards so staff can restock
// before items sell out.
type StockMonitor struct {
	DB        *gorm.DB
	StopChan  chan struct{}
	Interval  time.Duration
	Threshold int

	// last alerted set, so the same shortage is not rebroadcast every tick
	alerted map[uint]struct{}
}

func NewStockMonitor(db *gorm.DB) *StockMonitor {
	return &StockMonitor{
		DB:        db,
		StopChan:  make(chan struct{}),
		Interval:  30 * time.Second,
		Threshold: 10,
		alerted:   make(map[uint]struct{}),
	}
}

func (sm *StockMonitor) Start() {
	go func() {
		ticker := time.NewTicker(sm.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sm.checkStock()
			case <-sm.StopChan:
				return
			}
		}
	}()
}

func (sm *StockMonitor) Stop() {
	close(sm.StopChan)
}

func (sm *StockMonitor) checkStock() {
	var lowStock []models.Food
	if err := sm.DB.
		Where("is_available = ? AND current_stock < ?", true, sm.Threshold).
		Order("current_stock asc").
		Find(&lowStock).Error; err != nil {
		utils.ErrorLogger.Printf("stock monitor query failed: %v", err)
		return
	}

	fresh := make([]models.Food, 0, len(lowStock))
	seen := make(map[uint]struct{}, len(lowStock))
	for _, food := range lowStock {
		seen[food.ID] = struct{}{}
		if _, ok := sm.alerted[food.ID]; !ok {
			fresh = append(fresh, food)
		}
	}
	sm.alerted = seen

	if len(fresh) == 0 {
		return
	}

	for _, food := range fresh {
		utils.InfoLogger.Printf("Low stock: %s has %d left", food.Name, food.CurrentStock)
	}
	events.BroadcastLowStock(fresh)
}
