package server

import (
	"fmt"

	"gopkg.in/ini.v1"

	"github.com/iudanet/topokeeper/internal/crypto"
	"github.com/iudanet/topokeeper/internal/validation"
)

// Accounts ключи подписи аккаунтов: id -> raw key
type Accounts map[string][]byte

// Key возвращает ключ аккаунта
func (a Accounts) Key(id string) ([]byte, bool) {
	key, ok := a[id]
	return key, ok
}

// LoadAccounts читает аккаунты из INI файла. Формат совпадает с конфигом клиента,
// каждая секция описывает один аккаунт:
//
//	[team]
//	id = ...
//	key = ...
func LoadAccounts(path string) (Accounts, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load accounts file %s: %w", path, err)
	}

	accounts := make(Accounts)
	for _, section := range file.Sections() {
		if section.Name() == ini.DefaultSection && len(section.Keys()) == 0 {
			continue
		}

		id := section.Key("id").String()
		if err := validation.ValidateAccountID(id); err != nil {
			return nil, fmt.Errorf("account [%s]: %w", section.Name(), err)
		}
		key, err := crypto.DecodeKey(section.Key("key").String())
		if err != nil {
			return nil, fmt.Errorf("account [%s]: %w", section.Name(), err)
		}
		if _, dup := accounts[id]; dup {
			return nil, fmt.Errorf("account [%s]: duplicate id %s", section.Name(), id)
		}
		accounts[id] = key
	}
	return accounts, nil
}
