// Package crypto implements request signing for the map API.
// A request is signed with HMAC-SHA256 over "METHOD path\nexpires\nbody"
// using the account key decoded from base64.
package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// Имена параметров подписи в запросе
const (
	ParamID        = "id"
	ParamExpires   = "expires"
	ParamSignature = "signature"
)

// DefaultTTL время жизни подписи
const DefaultTTL = 2 * time.Minute

var (
	// ErrInvalidKey означает, что ключ пустой или не является base64
	ErrInvalidKey = errors.New("invalid signing key")
	// ErrMissingSignature означает, что в запросе нет параметров подписи
	ErrMissingSignature = errors.New("missing signature")
	// ErrSignatureMismatch означает, что подпись не совпала
	ErrSignatureMismatch = errors.New("signature mismatch")
	// ErrExpired означает, что срок действия подписи истек
	ErrExpired = errors.New("signature expired")
)

// DecodeKey декодирует ключ аккаунта из base64
func DecodeKey(key string) ([]byte, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	raw, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	return raw, nil
}

// Payload формирует подписываемую строку
func Payload(method, path string, expires int64, body []byte) []byte {
	buf := make([]byte, 0, len(method)+len(path)+len(body)+24)
	buf = append(buf, method...)
	buf = append(buf, ' ')
	buf = append(buf, path...)
	buf = append(buf, '\n')
	buf = strconv.AppendInt(buf, expires, 10)
	buf = append(buf, '\n')
	return append(buf, body...)
}

// Sign вычисляет подпись в base64
func Sign(key []byte, method, path string, expires int64, body []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(Payload(method, path, expires, body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Verify проверяет подпись и срок ее действия (expires в миллисекундах)
func Verify(key []byte, method, path string, expires int64, body []byte, signature string, now time.Time) error {
	if signature == "" {
		return ErrMissingSignature
	}
	got, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSignatureMismatch, err)
	}
	want, _ := base64.StdEncoding.DecodeString(Sign(key, method, path, expires, body))
	if !hmac.Equal(got, want) {
		return ErrSignatureMismatch
	}
	if now.UnixMilli() > expires {
		return ErrExpired
	}
	return nil
}

// Signer подписывает запросы одного аккаунта
type Signer struct {
	now func() time.Time
	id  string
	key []byte
	ttl time.Duration
}

// NewSigner создает подписчика для аккаунта id с ключом в base64
func NewSigner(id, key string) (*Signer, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: account id cannot be empty", ErrInvalidKey)
	}
	raw, err := DecodeKey(key)
	if err != nil {
		return nil, err
	}
	return &Signer{id: id, key: raw, ttl: DefaultTTL, now: time.Now}, nil
}

// ID возвращает идентификатор аккаунта
func (s *Signer) ID() string {
	return s.id
}

// Params возвращает параметры подписи для запроса
func (s *Signer) Params(method, path string, body []byte) url.Values {
	expires := s.now().Add(s.ttl).UnixMilli()
	return url.Values{
		ParamID:        {s.id},
		ParamExpires:   {strconv.FormatInt(expires, 10)},
		ParamSignature: {Sign(s.key, method, path, expires, body)},
	}
}

// ParseExpires разбирает параметр expires
func ParseExpires(v string) (int64, error) {
	if v == "" {
		return 0, ErrMissingSignature
	}
	expires, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid expires %q: %w", v, err)
	}
	return expires, nil
}
