package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/UnaiDv/Rutin/internal/models"
)

func postJSON(path string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func putJSON(path string, payload interface{}) *http.Request {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest("PUT", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAPICreateTask(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.APICreateTask(rec, postJSON("/api/tareas", map[string]string{"titulo": "Buy milk"}))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rec.Code, rec.Body.String())
	}

	var task models.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if task.ID == 0 {
		t.Error("expected an assigned id")
	}
	if task.Title != "Buy milk" || task.Description != "" || task.Priority != models.DefaultPriority {
		t.Errorf("expected defaults, got %+v", task)
	}
	if task.Completed {
		t.Error("expected new task to be pending")
	}
}

func TestAPICreateTask_ValidationErrors(t *testing.T) {
	h, _ := setupTestHandlers(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing title", map[string]interface{}{"descripcion": "no title"}},
		{"blank title", map[string]interface{}{"titulo": "   "}},
		{"bad date", map[string]interface{}{"titulo": "x", "fecha_limite": "not-a-date"}},
		{"dangling category", map[string]interface{}{"titulo": "x", "categoria_id": 99}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.APICreateTask(rec, postJSON("/api/tareas", tt.payload))

			if rec.Code != http.StatusUnprocessableEntity {
				t.Errorf("expected status %d, got %d: %s",
					http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAPICreateTask_MalformedBody(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := httptest.NewRequest("POST", "/api/tareas", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.APICreateTask(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestAPIListTasks_StatusFilter(t *testing.T) {
	h, s := setupTestHandlers(t)
	ctx := context.Background()

	seedTask(t, s, &models.Task{Title: "pending one"})
	done := seedTask(t, s, &models.Task{Title: "done one"})
	if err := s.ToggleTaskCompleted(ctx, done.ID); err != nil {
		t.Fatalf("ToggleTaskCompleted failed: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/tareas?status=completed", nil)
	rec := httptest.NewRecorder()
	h.APIListTasks(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var tasks []models.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &tasks); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(tasks) != 1 || tasks[0].Title != "done one" {
		t.Errorf("expected exactly the completed task, got %v", tasks)
	}
}

func TestAPIGetTask(t *testing.T) {
	h, s := setupTestHandlers(t)
	seedTask(t, s, &models.Task{Title: "Buy milk"})

	req := withURLParam(httptest.NewRequest("GET", "/api/tareas/1", nil), "id", "1")
	rec := httptest.NewRecorder()
	h.APIGetTask(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	req = withURLParam(httptest.NewRequest("GET", "/api/tareas/42", nil), "id", "42")
	rec = httptest.NewRecorder()
	h.APIGetTask(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAPIUpdateTask(t *testing.T) {
	h, s := setupTestHandlers(t)
	ctx := context.Background()

	task := seedTask(t, s, &models.Task{Title: "Original", Priority: "low"})
	if err := s.ToggleTaskCompleted(ctx, task.ID); err != nil {
		t.Fatalf("ToggleTaskCompleted failed: %v", err)
	}

	payload := map[string]string{"titulo": "Updated", "prioridad": "high"}
	req := withURLParam(putJSON("/api/tareas/1", payload), "id", "1")
	rec := httptest.NewRecorder()
	h.APIUpdateTask(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, rec.Code, rec.Body.String())
	}

	var got models.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.Title != "Updated" || got.Priority != "high" {
		t.Errorf("expected updated fields, got %+v", got)
	}
	if !got.Completed {
		t.Error("expected update to leave completion state alone")
	}
}

func TestAPIUpdateTask_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t)

	payload := map[string]string{"titulo": "Updated"}
	req := withURLParam(putJSON("/api/tareas/42", payload), "id", "42")
	rec := httptest.NewRecorder()
	h.APIUpdateTask(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAPIDeleteTask(t *testing.T) {
	h, s := setupTestHandlers(t)
	seedTask(t, s, &models.Task{Title: "Buy milk"})

	req := withURLParam(httptest.NewRequest("DELETE", "/api/tareas/1", nil), "id", "1")
	rec := httptest.NewRecorder()
	h.APIDeleteTask(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	rec = httptest.NewRecorder()
	h.APIDeleteTask(rec, withURLParam(httptest.NewRequest("DELETE", "/api/tareas/1", nil), "id", "1"))

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d on second delete, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAPICategoryCRUD(t *testing.T) {
	h, _ := setupTestHandlers(t)

	rec := httptest.NewRecorder()
	h.APICreateCategory(rec, postJSON("/api/categorias", map[string]string{"nombre": "Casa"}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: expected status %d, got %d", http.StatusCreated, rec.Code)
	}

	var category models.Category
	if err := json.Unmarshal(rec.Body.Bytes(), &category); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if category.ID == 0 || category.Name != "Casa" {
		t.Fatalf("unexpected created category: %+v", category)
	}

	req := withURLParam(putJSON("/api/categorias/1", map[string]string{"nombre": "Hogar"}), "id", "1")
	rec = httptest.NewRecorder()
	h.APIUpdateCategory(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	req = withURLParam(httptest.NewRequest("GET", "/api/categorias/1", nil), "id", "1")
	rec = httptest.NewRecorder()
	h.APIGetCategory(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: expected status %d, got %d", http.StatusOK, rec.Code)
	}

	req = withURLParam(httptest.NewRequest("DELETE", "/api/categorias/1", nil), "id", "1")
	rec = httptest.NewRecorder()
	h.APIDeleteCategory(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: expected status %d, got %d", http.StatusNoContent, rec.Code)
	}

	req = withURLParam(httptest.NewRequest("GET", "/api/categorias/1", nil), "id", "1")
	rec = httptest.NewRecorder()
	h.APIGetCategory(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("get after delete: expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAPIDeleteCategory_WithTasksIs400(t *testing.T) {
	h, s := setupTestHandlers(t)

	category := seedCategory(t, s, "Casa")
	seedTask(t, s, &models.Task{Title: "Buy milk", CategoryID: &category.ID})

	req := withURLParam(httptest.NewRequest("DELETE", "/api/categorias/1", nil), "id", "1")
	rec := httptest.NewRecorder()
	h.APIDeleteCategory(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rec.Code)
	}
	if _, err := s.GetCategory(context.Background(), category.ID); err != nil {
		t.Errorf("expected category to survive, got %v", err)
	}
}

func TestAPICategoryStats(t *testing.T) {
	h, s := setupTestHandlers(t)
	ctx := context.Background()

	category := seedCategory(t, s, "Casa")
	done := seedTask(t, s, &models.Task{Title: "one", CategoryID: &category.ID})
	seedTask(t, s, &models.Task{Title: "two", CategoryID: &category.ID})
	if err := s.ToggleTaskCompleted(ctx, done.ID); err != nil {
		t.Fatalf("ToggleTaskCompleted failed: %v", err)
	}

	req := withURLParam(httptest.NewRequest("GET", "/api/categorias/1/stats", nil), "id", "1")
	rec := httptest.NewRecorder()
	h.APICategoryStats(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var stats models.CategoryStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Total != 2 || stats.Completed != 1 || stats.Pending != 1 {
		t.Errorf("expected 2/1/1, got %d/%d/%d", stats.Total, stats.Completed, stats.Pending)
	}

	rec = httptest.NewRecorder()
	h.APIAllCategoryStats(rec, httptest.NewRequest("GET", "/api/categorias/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var all []models.CategoryStats
	if err := json.Unmarshal(rec.Body.Bytes(), &all); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(all) != 1 || all[0] != stats {
		t.Errorf("expected the listing to agree with the single-category stats: %v vs %v", all, stats)
	}
}

func TestAPICategoryStats_NotFound(t *testing.T) {
	h, _ := setupTestHandlers(t)

	req := withURLParam(httptest.NewRequest("GET", "/api/categorias/42/stats", nil), "id", "42")
	rec := httptest.NewRecorder()
	h.APICategoryStats(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

func TestAPIGlobalStats(t *testing.T) {
	h, s := setupTestHandlers(t)
	ctx := context.Background()

	done := seedTask(t, s, &models.Task{Title: "one"})
	seedTask(t, s, &models.Task{Title: "two"})
	seedTask(t, s, &models.Task{Title: "three"})
	seedTask(t, s, &models.Task{Title: "four"})
	if err := s.ToggleTaskCompleted(ctx, done.ID); err != nil {
		t.Fatalf("ToggleTaskCompleted failed: %v", err)
	}

	rec := httptest.NewRecorder()
	h.APIGlobalStats(rec, httptest.NewRequest("GET", "/api/estadisticas", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var stats models.TaskStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if stats.Total != 4 || stats.Completed != 1 || stats.Pending != 3 || stats.Percentage != 25 {
		t.Errorf("expected 4/1/3/25, got %d/%d/%d/%d",
			stats.Total, stats.Completed, stats.Pending, stats.Percentage)
	}
}
