package validators

import (
	"context"
	"fmt"

	"github.com/ashmelev/cardvault/models"
)

// Field names accepted by [VaultDataValidator] for field-scoped validation.
const (
	FieldUserID     = "user_id"
	FieldUsername   = "username"
	FieldType       = "type"
	FieldTitle      = "title"
	FieldName       = "name"
	FieldSeedPhrase = "seed_phrase"
)

// VaultDataValidator validates the vault's domain models before they reach
// the crypto and storage layers. It checks structural rules only; ownership
// and authorization are enforced in the service layer.
type VaultDataValidator struct {
}

func NewVaultDataValidator() Validator {
	return &VaultDataValidator{}
}

func (v *VaultDataValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.User:
		return v.validateUser(value, fields...)
	case *models.User:
		return v.validateUser(*value, fields...)

	case models.Card:
		return v.validateCard(value, fields...)
	case *models.Card:
		return v.validateCard(*value, fields...)

	case models.Wallet:
		return v.validateWallet(value, fields...)
	case *models.Wallet:
		return v.validateWallet(*value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *VaultDataValidator) validateUser(user models.User, fields ...string) error {
	for _, field := range defaultFields(fields, FieldUsername) {
		switch field {
		case FieldUsername:
			if user.Username == "" {
				return fmt.Errorf("field %q: must not be empty", FieldUsername)
			}
		case FieldUserID:
			if user.UserID <= 0 {
				return fmt.Errorf("field %q: must be positive", FieldUserID)
			}
		default:
			return fmt.Errorf("%w: %q for user", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *VaultDataValidator) validateCard(card models.Card, fields ...string) error {
	for _, field := range defaultFields(fields, FieldUserID, FieldType, FieldTitle) {
		switch field {
		case FieldUserID:
			if card.UserID <= 0 {
				return fmt.Errorf("field %q: must be positive", FieldUserID)
			}
		case FieldType:
			if card.Type == "" {
				return fmt.Errorf("field %q: must not be empty", FieldType)
			}
		case FieldTitle:
			if card.Title == "" {
				return fmt.Errorf("field %q: must not be empty", FieldTitle)
			}
		default:
			return fmt.Errorf("%w: %q for card", ErrUnknownField, field)
		}
	}

	return nil
}

func (v *VaultDataValidator) validateWallet(wallet models.Wallet, fields ...string) error {
	for _, field := range defaultFields(fields, FieldUserID, FieldName, FieldSeedPhrase) {
		switch field {
		case FieldUserID:
			if wallet.UserID <= 0 {
				return fmt.Errorf("field %q: must be positive", FieldUserID)
			}
		case FieldName:
			if wallet.Name == "" {
				return fmt.Errorf("field %q: must not be empty", FieldName)
			}
		case FieldSeedPhrase:
			if wallet.SeedPhrase == "" {
				return fmt.Errorf("field %q: must not be empty", FieldSeedPhrase)
			}
		default:
			return fmt.Errorf("%w: %q for wallet", ErrUnknownField, field)
		}
	}

	return nil
}

// defaultFields returns the explicit field list, or the type's full rule
// set when the caller named none.
func defaultFields(fields []string, all ...string) []string {
	if len(fields) > 0 {
		return fields
	}
	return all
}
