package models

import (
	"encoding/json"
	"fmt"
)

// Entity описывает запись коллекции с обязательным идентификатором.
// WithID возвращает копию записи с заменённым ID (используется для временных ID
// оптимистичных create-операций и для ID, назначенных сервером).
type Entity[T any] interface {
	GetID() string
	WithID(id string) T
}

// Patch частичное обновление записи: ключи совпадают с JSON-именами полей
type Patch map[string]any

// ApplyPatch накладывает patch поверх item по JSON-именам полей (поверхностное слияние).
// Поле id не может быть изменено патчем.
func ApplyPatch[T any](item T, patch Patch) (T, error) {
	var zero T

	raw, err := json.Marshal(item)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal item: %w", err)
	}

	fields := make(map[string]any)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return zero, fmt.Errorf("failed to unmarshal item fields: %w", err)
	}

	id, hasID := fields["id"]
	for key, value := range patch {
		fields[key] = value
	}
	if hasID {
		fields["id"] = id
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return zero, fmt.Errorf("failed to marshal merged fields: %w", err)
	}

	var out T
	if err := json.Unmarshal(merged, &out); err != nil {
		return zero, fmt.Errorf("failed to apply patch: %w", err)
	}

	return out, nil
}
