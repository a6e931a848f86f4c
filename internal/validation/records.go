package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/iudanet/jobcache/internal/models"
)

// FieldPattern допустимое имя поля записи: snake_case в нижнем регистре
var FieldPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{0,63}$`)

// Поля, которые проставляет сервер и которые нельзя задать патчем
var serverFields = map[string]bool{
	"id":         true,
	"owner_id":   true,
	"created_at": true,
	"updated_at": true,
}

// ValidateCollection проверяет, что коллекция известна
func ValidateCollection(name string) error {
	if name == "" {
		return fmt.Errorf("collection cannot be empty")
	}

	if !models.IsCollection(name) {
		return fmt.Errorf("unknown collection %q, use one of: %s", name, strings.Join(models.Collections(), ", "))
	}

	return nil
}

// ValidateRecordID проверяет ID записи, назначенный сервером
func ValidateRecordID(id string) error {
	if id == "" {
		return fmt.Errorf("record id cannot be empty")
	}

	if err := uuid.Validate(id); err != nil {
		return fmt.Errorf("record id must be a UUID: %w", err)
	}

	return nil
}

// ValidatePatch проверяет имена полей частичного обновления.
// Служебные поля записи изменять нельзя.
func ValidatePatch(patch models.Patch) error {
	if len(patch) == 0 {
		return fmt.Errorf("no fields to update")
	}

	for key := range patch {
		if !FieldPattern.MatchString(key) {
			return fmt.Errorf("invalid field name %q", key)
		}
		if serverFields[key] {
			return fmt.Errorf("field %q is managed by the server", key)
		}
	}

	return nil
}
