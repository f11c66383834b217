package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MapIDPattern определяет допустимый формат идентификатора карты.
// Только латинские буквы и цифры, длина 3-16 символов.
var MapIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]{3,16}$`)

// ClassPattern допустимое имя класса объекта: CamelCase латиницей
var ClassPattern = regexp.MustCompile(`^[A-Z][a-zA-Z]{1,63}$`)

// AccountIDPattern допустимый идентификатор аккаунта для подписи запросов
var AccountIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

const (
	// MinMapIDLen минимальная длина id карты
	MinMapIDLen = 3
	// MaxMapIDLen максимальная длина id карты
	MaxMapIDLen = 16
)

// ValidateMapID проверяет идентификатор карты
func ValidateMapID(mapID string) error {
	if mapID == "" {
		return fmt.Errorf("map id cannot be empty")
	}

	if len(mapID) < MinMapIDLen {
		return fmt.Errorf("map id must be at least %d characters long", MinMapIDLen)
	}

	if len(mapID) > MaxMapIDLen {
		return fmt.Errorf("map id must not exceed %d characters", MaxMapIDLen)
	}

	if !MapIDPattern.MatchString(mapID) {
		return fmt.Errorf("map id can only contain letters (a-z, A-Z) and numbers (0-9)")
	}

	return nil
}

// ValidateClass проверяет имя класса объекта
func ValidateClass(class string) error {
	if class == "" {
		return fmt.Errorf("class cannot be empty")
	}
	if !ClassPattern.MatchString(class) {
		return fmt.Errorf("invalid class %q: expected a CamelCase name like Marker", class)
	}
	return nil
}

// ValidateAccountID проверяет идентификатор аккаунта
func ValidateAccountID(id string) error {
	if id == "" {
		return fmt.Errorf("account id cannot be empty")
	}
	if !AccountIDPattern.MatchString(id) {
		return fmt.Errorf("account id must be 3-64 characters of letters, numbers, '_' or '-'")
	}
	return nil
}

// ValidateDomain проверяет адрес сервера: host[:port] или URL со схемой http(s)
func ValidateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}

	raw := domain
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid domain %q: %w", domain, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid domain %q: unsupported scheme %s", domain, u.Scheme)
	}
	if u.Hostname() == "" {
		return fmt.Errorf("invalid domain %q: missing host", domain)
	}
	if u.Path != "" && u.Path != "/" {
		return fmt.Errorf("invalid domain %q: path is not allowed", domain)
	}
	return nil
}

// BaseURL возвращает базовый URL сервера для адреса домена
func BaseURL(domain string) string {
	if strings.Contains(domain, "://") {
		return strings.TrimRight(domain, "/")
	}
	return "http://" + strings.TrimRight(domain, "/")
}
