// Package config assembles the client configuration from flags, environment,
// an INI account file and, as a last resort, an interactive prompt.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/ini.v1"

	"github.com/iudanet/topokeeper/internal/client/iocli"
	"github.com/iudanet/topokeeper/internal/validation"
)

// Переменные окружения с учетными данными
const (
	EnvID  = "TOPOKEEPER_ID"
	EnvKey = "TOPOKEEPER_KEY"
)

// Значения по умолчанию
const (
	DefaultDomain            = "localhost:8080"
	DefaultSyncInterval      = 5 * time.Second
	DefaultSyncTimeout       = 10 * time.Second
	DefaultGateWait          = 20 * time.Second
	DefaultDeleteParallelism = 4
	DefaultLogLevel          = "info"
)

var (
	// ErrAccountNotFound означает, что в файле конфигурации нет секции аккаунта
	ErrAccountNotFound = errors.New("account not found in config file")
	// ErrIncompleteAccount означает, что в секции аккаунта нет id или key
	ErrIncompleteAccount = errors.New("account entry must specify id and key")
)

// Config настройки клиента
type Config struct {
	Domain            string
	MapID             string
	ConfigFile        string // INI файл с секциями аккаунтов
	Account           string
	ID                string
	Key               string // base64
	DumpPath          string // пустой = отладочные дампы отключены
	LogLevel          string
	SyncInterval      time.Duration
	SyncTimeout       time.Duration
	GateWait          time.Duration
	DeleteParallelism int
	Sync              bool
}

// Default возвращает конфигурацию по умолчанию
func Default() Config {
	return Config{
		Domain:            DefaultDomain,
		LogLevel:          DefaultLogLevel,
		SyncInterval:      DefaultSyncInterval,
		SyncTimeout:       DefaultSyncTimeout,
		GateWait:          DefaultGateWait,
		DeleteParallelism: DefaultDeleteParallelism,
		Sync:              true,
	}
}

// Resolve дополняет учетные данные, не заданные флагами.
// Приоритет: флаги, переменные окружения, INI файл.
func (c *Config) Resolve(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}
	if c.ID == "" {
		c.ID = getenv(EnvID)
	}
	if c.Key == "" {
		c.Key = getenv(EnvKey)
	}

	if (c.ID == "" || c.Key == "") && c.ConfigFile != "" {
		if c.Account == "" {
			return fmt.Errorf("config file %s is specified, but no account name is given", c.ConfigFile)
		}
		id, key, err := ReadAccount(c.ConfigFile, c.Account)
		if err != nil {
			return err
		}
		if c.ID == "" {
			c.ID = id
		}
		if c.Key == "" {
			c.Key = key
		}
	}
	return nil
}

// PromptKey запрашивает ключ, если задан только id аккаунта
func (c *Config) PromptKey(p iocli.Prompter) error {
	if c.ID == "" || c.Key != "" {
		return nil
	}
	key, err := p.ReadPassword(fmt.Sprintf("Key for account %s: ", c.ID))
	if err != nil {
		return fmt.Errorf("failed to read key: %w", err)
	}
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	c.Key = key
	return nil
}

// Signed сообщает, что запросы нужно подписывать
func (c *Config) Signed() bool {
	return c.ID != "" && c.Key != ""
}

// Validate проверяет конфигурацию перед подключением
func (c *Config) Validate() error {
	if err := validation.ValidateDomain(c.Domain); err != nil {
		return err
	}
	if err := validation.ValidateMapID(c.MapID); err != nil {
		return err
	}
	if c.ID != "" {
		if err := validation.ValidateAccountID(c.ID); err != nil {
			return err
		}
	}
	if c.SyncInterval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", c.SyncInterval)
	}
	if c.SyncTimeout <= 0 {
		return fmt.Errorf("sync timeout must be positive, got %s", c.SyncTimeout)
	}
	if c.GateWait <= 0 {
		return fmt.Errorf("gate wait must be positive, got %s", c.GateWait)
	}
	if c.DeleteParallelism <= 0 {
		return fmt.Errorf("delete parallelism must be positive, got %d", c.DeleteParallelism)
	}
	return nil
}

// BaseURL возвращает базовый URL сервера
func (c *Config) BaseURL() string {
	return validation.BaseURL(c.Domain)
}

// ReadAccount читает id и key аккаунта из INI файла:
//
//	[account]
//	id = ...
//	key = ...
func ReadAccount(path, account string) (id, key string, err error) {
	file, err := ini.Load(path)
	if err != nil {
		return "", "", fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	if !file.HasSection(account) {
		return "", "", fmt.Errorf("%w: %q in %s", ErrAccountNotFound, account, path)
	}
	section := file.Section(account)
	id = section.Key("id").String()
	key = section.Key("key").String()
	if id == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q in %s", ErrIncompleteAccount, account, path)
	}
	return id, key, nil
}
