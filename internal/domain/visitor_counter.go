package domain

import "time"

// CounterID фиксированный идентификатор singleton-записи счетчика
const CounterID int16 = 1

// VisitorCounter единственная запись глобального счетчика посетителей.
// Создается лениво при первом засчитанном посещении и изменяется только
// атомарным инкрементом, значение монотонно не убывает.
type VisitorCounter struct {
	ID        int16     `gorm:"primaryKey;column:id" json:"id"`
	Count     int64     `gorm:"column:count;not null;default:0" json:"count"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName возвращает название таблицы для GORM
func (VisitorCounter) TableName() string {
	return "visitor_counters"
}
