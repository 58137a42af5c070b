package domain

import (
	"net"
	"time"
)

// Значения по умолчанию для отсутствующих полей посещения.
// Подставляются при чтении (агрегация), никогда при записи.
const (
	UnknownValue       = "Unknown"
	UnknownCountryCode = "XX"
	DefaultDeviceType  = "Desktop"
)

// Visit представляет одно засчитанное посещение портфолио.
// Запись создается один раз и никогда не изменяется (append-only лог).
type Visit struct {
	ID          string    `gorm:"primaryKey;column:id;size:36" json:"id"`
	Country     string    `gorm:"column:country;size:100" json:"country,omitempty"`
	CountryCode string    `gorm:"column:country_code;size:2" json:"country_code,omitempty"`
	City        string    `gorm:"column:city;size:100" json:"city,omitempty"`
	Region      string    `gorm:"column:region;size:100" json:"region,omitempty"`
	IPAddress   *net.IP   `gorm:"column:ip_address;type:inet" json:"ip_address,omitempty"`
	DeviceType  string    `gorm:"column:device_type;size:20" json:"device_type,omitempty"`
	Browser     string    `gorm:"column:browser;size:50" json:"browser,omitempty"`
	VisitedAt   time.Time `gorm:"column:visited_at;index" json:"visited_at"`
}

// TableName возвращает название таблицы для GORM
func (Visit) TableName() string {
	return "visits"
}

// CountryOrDefault возвращает страну посещения или значение по умолчанию
func (v *Visit) CountryOrDefault() string {
	if v.Country == "" {
		return UnknownValue
	}
	return v.Country
}

// CountryCodeOrDefault возвращает ISO код страны или "XX"
func (v *Visit) CountryCodeOrDefault() string {
	if v.CountryCode == "" {
		return UnknownCountryCode
	}
	return v.CountryCode
}

// CityOrDefault возвращает город посещения или значение по умолчанию
func (v *Visit) CityOrDefault() string {
	if v.City == "" {
		return UnknownValue
	}
	return v.City
}

// DeviceTypeOrDefault возвращает тип устройства или "Desktop"
func (v *Visit) DeviceTypeOrDefault() string {
	if v.DeviceType == "" {
		return DefaultDeviceType
	}
	return v.DeviceType
}

// BrowserOrDefault возвращает браузер или значение по умолчанию
func (v *Visit) BrowserOrDefault() string {
	if v.Browser == "" {
		return UnknownValue
	}
	return v.Browser
}
