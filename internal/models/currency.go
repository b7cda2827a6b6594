package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	apperrors "sfstore/internal/errors"
)

// Currency is the closed set of balances a wallet holds. The zero value is
// not a currency.
type Currency uint8

const (
	CurrencyUnknown Currency = iota
	SfCoins
	PremiumGems
	EventTokens
)

var currencyNames = map[Currency]string{
	SfCoins:     "sf_coins",
	PremiumGems: "premium_gems",
	EventTokens: "event_tokens",
}

// Currencies lists every supported currency in a stable order.
func Currencies() []Currency {
	return []Currency{SfCoins, PremiumGems, EventTokens}
}

func (c Currency) String() string {
	if name, ok := currencyNames[c]; ok {
		return name
	}
	return "unknown"
}

func (c Currency) Valid() bool {
	_, ok := currencyNames[c]
	return ok
}

// ParseCurrency resolves a stored or requested currency name.
func ParseCurrency(s string) (Currency, error) {
	for c, name := range currencyNames {
		if name == s {
			return c, nil
		}
	}
	return CurrencyUnknown, apperrors.ErrUnsupportedCurrency.Withf("unsupported currency %q", s)
}

// Value implements the driver.Valuer interface
func (c Currency) Value() (driver.Value, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid currency %d", c)
	}
	return c.String(), nil
}

// Scan implements the sql.Scanner interface. Unknown names scan to
// CurrencyUnknown so the caller decides how to fail.
func (c *Currency) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*c = CurrencyUnknown
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Currency", value)
	}
	parsed, err := ParseCurrency(s)
	if err != nil {
		*c = CurrencyUnknown
		return nil
	}
	*c = parsed
	return nil
}

func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Currency) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCurrency(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalText lets Currency key JSON objects.
func (c Currency) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("invalid currency %d", c)
	}
	return []byte(c.String()), nil
}

func (c *Currency) UnmarshalText(text []byte) error {
	parsed, err := ParseCurrency(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
