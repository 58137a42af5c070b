package domain

// Location коарсные геоданные посещения, полученные от внешнего
// сервиса геолокации. Точные координаты намеренно не хранятся.
type Location struct {
	Country     string `json:"country"`
	CountryCode string `json:"countryCode"`
	City        string `json:"city"`
	Region      string `json:"region"`
	IP          string `json:"ip"`
}

// Normalize подставляет значения по умолчанию вместо пустых полей
func (l *Location) Normalize() {
	if l.Country == "" {
		l.Country = UnknownValue
	}
	if l.CountryCode == "" {
		l.CountryCode = UnknownCountryCode
	}
	if l.City == "" {
		l.City = UnknownValue
	}
	if l.Region == "" {
		l.Region = UnknownValue
	}
	if l.IP == "" {
		l.IP = UnknownValue
	}
}
