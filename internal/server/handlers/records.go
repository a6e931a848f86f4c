package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/jobcache/internal/models"
	"github.com/iudanet/jobcache/internal/server/storage"
	"github.com/iudanet/jobcache/internal/validation"
	"github.com/iudanet/jobcache/pkg/api"
)

// maxRecordSize ограничивает размер тела запроса с записью
const maxRecordSize = 1 << 20

// serverFields проставляются сервером и не хранятся в data
var serverFields = []string{"id", "owner_id", "created_at", "updated_at"}

// RecordsHandler обслуживает CRUD коллекций. Все операции ограничены
// записями аутентифицированного пользователя.
type RecordsHandler struct {
	logger  *slog.Logger
	storage storage.RecordStorage
	now     func() time.Time
}

// NewRecordsHandler создает handler коллекций
func NewRecordsHandler(logger *slog.Logger, storage storage.RecordStorage) *RecordsHandler {
	return &RecordsHandler{
		logger:  logger,
		storage: storage,
		now:     time.Now,
	}
}

// List обрабатывает GET /api/v1/{collection}
func (h *RecordsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, collection, ok := h.scope(w, r)
	if !ok {
		return
	}

	// owner опционален, но чужие записи не отдаем
	if owner := r.URL.Query().Get("owner"); owner != "" && owner != userID {
		h.logger.WarnContext(ctx, "foreign owner requested",
			slog.String("user_id", userID),
			slog.String("owner", owner))
		sendError(h.logger, w, "access to foreign records is forbidden", http.StatusForbidden)
		return
	}

	records, err := h.storage.ListRecords(ctx, userID, collection)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list records",
			slog.String("collection", collection),
			slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	items := make([]map[string]any, 0, len(records))
	for _, rec := range records {
		item, err := renderRecord(rec)
		if err != nil {
			h.logger.ErrorContext(ctx, "corrupted record data",
				slog.String("collection", collection),
				slog.String("id", rec.ID),
				slog.Any("error", err))
			continue
		}
		items = append(items, item)
	}

	h.logger.DebugContext(ctx, "records listed",
		slog.String("collection", collection),
		slog.Int("count", len(items)))

	sendJSON(h.logger, w, api.ListResponse[map[string]any]{Items: items}, http.StatusOK)
}

// Create обрабатывает POST /api/v1/{collection}
// ID присланный клиентом (временный) игнорируется, сервер назначает UUID.
func (h *RecordsHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, collection, ok := h.scope(w, r)
	if !ok {
		return
	}

	fields, err := decodeFields(w, r)
	if err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	for _, name := range serverFields {
		delete(fields, name)
	}
	if len(fields) == 0 {
		sendError(h.logger, w, "record has no fields", http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePatch(fields); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	data, err := json.Marshal(fields)
	if err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}

	now := h.now().UTC()
	rec := &models.Record{
		ID:         uuid.NewString(),
		OwnerID:    userID,
		Collection: collection,
		Data:       data,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := h.storage.CreateRecord(ctx, rec); err != nil {
		h.logger.ErrorContext(ctx, "failed to create record",
			slog.String("collection", collection),
			slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "record created",
		slog.String("collection", collection),
		slog.String("id", rec.ID))

	h.sendRecord(w, rec, http.StatusCreated)
}

// Update обрабатывает PATCH /api/v1/{collection}/{id}
// Поверхностное слияние: присланные поля заменяются, null удаляет поле.
func (h *RecordsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, collection, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := h.recordID(w, r, collection)
	if !ok {
		return
	}

	patch, err := decodeFields(w, r)
	if err != nil {
		sendError(h.logger, w, "invalid request body", http.StatusBadRequest)
		return
	}
	if err := validation.ValidatePatch(patch); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusBadRequest)
		return
	}

	rec, err := h.storage.PatchRecord(ctx, userID, collection, id, func(data []byte) ([]byte, error) {
		return mergeFields(data, patch)
	})
	if err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			h.notFound(w, collection, id)
			return
		}
		h.logger.ErrorContext(ctx, "failed to update record",
			slog.String("collection", collection),
			slog.String("id", id),
			slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "record updated",
		slog.String("collection", collection),
		slog.String("id", id))

	h.sendRecord(w, rec, http.StatusOK)
}

// Delete обрабатывает DELETE /api/v1/{collection}/{id}
func (h *RecordsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, collection, ok := h.scope(w, r)
	if !ok {
		return
	}
	id, ok := h.recordID(w, r, collection)
	if !ok {
		return
	}

	if err := h.storage.DeleteRecord(ctx, userID, collection, id); err != nil {
		if errors.Is(err, storage.ErrRecordNotFound) {
			h.notFound(w, collection, id)
			return
		}
		h.logger.ErrorContext(ctx, "failed to delete record",
			slog.String("collection", collection),
			slog.String("id", id),
			slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.logger.InfoContext(ctx, "record deleted",
		slog.String("collection", collection),
		slog.String("id", id))

	w.WriteHeader(http.StatusNoContent)
}

// scope достает пользователя из контекста и проверяет коллекцию из пути
func (h *RecordsHandler) scope(w http.ResponseWriter, r *http.Request) (userID, collection string, ok bool) {
	userID, ok = GetUserID(r.Context())
	if !ok {
		h.logger.ErrorContext(r.Context(), "user ID not found in context")
		sendError(h.logger, w, "unauthorized", http.StatusUnauthorized)
		return "", "", false
	}

	collection = r.PathValue("collection")
	if err := validation.ValidateCollection(collection); err != nil {
		sendError(h.logger, w, err.Error(), http.StatusNotFound)
		return "", "", false
	}

	return userID, collection, true
}

// recordID проверяет id записи; кривой id не может существовать, поэтому 404
func (h *RecordsHandler) recordID(w http.ResponseWriter, r *http.Request, collection string) (string, bool) {
	id := r.PathValue("id")
	if err := validation.ValidateRecordID(id); err != nil {
		h.notFound(w, collection, id)
		return "", false
	}
	return id, true
}

func (h *RecordsHandler) notFound(w http.ResponseWriter, collection, id string) {
	sendError(h.logger, w, fmt.Sprintf("%s record %s not found", collection, id), http.StatusNotFound)
}

func (h *RecordsHandler) sendRecord(w http.ResponseWriter, rec *models.Record, statusCode int) {
	item, err := renderRecord(rec)
	if err != nil {
		h.logger.Error("failed to render record", slog.String("id", rec.ID), slog.Any("error", err))
		sendError(h.logger, w, "internal server error", http.StatusInternalServerError)
		return
	}
	sendJSON(h.logger, w, item, statusCode)
}

// decodeFields читает JSON-объект из тела запроса, числа сохраняются как есть
func decodeFields(w http.ResponseWriter, r *http.Request) (models.Patch, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRecordSize))
	dec.UseNumber()

	var fields models.Patch
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}
	if fields == nil {
		return nil, errors.New("body is not a JSON object")
	}
	return fields, nil
}

// mergeFields накладывает patch на сохраненный JSON-объект
func mergeFields(data []byte, patch models.Patch) ([]byte, error) {
	fields, err := decodeData(data)
	if err != nil {
		return nil, err
	}

	for name, value := range patch {
		if value == nil {
			delete(fields, name)
			continue
		}
		fields[name] = value
	}

	return json.Marshal(fields)
}

func decodeData(data []byte) (map[string]any, error) {
	fields := make(map[string]any)
	if len(data) == 0 {
		return fields, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode record data: %w", err)
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	return fields, nil
}

// renderRecord собирает JSON записи: поля data плюс серверные поля
func renderRecord(rec *models.Record) (map[string]any, error) {
	item, err := decodeData(rec.Data)
	if err != nil {
		return nil, err
	}

	item["id"] = rec.ID
	item["owner_id"] = rec.OwnerID
	item["created_at"] = rec.CreatedAt.UTC().Format(time.RFC3339Nano)
	item["updated_at"] = rec.UpdatedAt.UTC().Format(time.RFC3339Nano)

	return item, nil
}
