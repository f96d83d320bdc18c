package procedures

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"

	"costdash-backend/internal/database"
	"costdash-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestApp in-memory veritabanı ve route'larıyla test uygulaması kurar.
func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("test veritabanı açılamadı: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate hatası: %v", err)
	}

	app := fiber.New()
	api := app.Group("/api")
	api.Get("/procedures", ListProceduresHandler(db))
	api.Get("/procedures/export", ExportProceduresHandler(db))
	api.Post("/procedures/import", ImportProceduresHandler(db))
	api.Get("/procedures/:id", GetProcedureHandler(db))
	api.Post("/procedures", CreateProcedureHandler(db))
	api.Put("/procedures/:id", UpdateProcedureHandler(db))
	api.Delete("/procedures/:id", DeleteProcedureHandler(db))
	api.Post("/procedures/:id/recalculate", RecalculateProcedureHandler(db))

	return app, db
}

func seedCategory(t *testing.T, db *gorm.DB, name string) models.Category {
	t.Helper()
	cat := models.Category{Name: name, Color: "#6366f1"}
	if err := db.Create(&cat).Error; err != nil {
		t.Fatalf("kategori seed hatası: %v", err)
	}
	return cat
}

func seedMaterial(t *testing.T, db *gorm.DB, name string, cost float64) models.Material {
	t.Helper()
	m := models.Material{Name: name, Cost: cost, Unit: "ea"}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("malzeme seed hatası: %v", err)
	}
	return m
}

func postJSON(t *testing.T, app *fiber.App, url string, body interface{}) (*models.Procedure, int) {
	t.Helper()
	data, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", url, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("istek hatası: %v", err)
	}

	var proc models.Procedure
	_ = json.NewDecoder(resp.Body).Decode(&proc)
	return &proc, resp.StatusCode
}

func TestCreateProcedure_ComputesDerivedFields(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "보톡스")
	mat := seedMaterial(t, db, "보톡스 50유닛", 55000)

	proc, status := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "이마 보톡스 50유닛",
		CategoryID:    cat.ID,
		CustomerPrice: 150000,
		Materials:     []MaterialLineRequest{{MaterialID: mat.ID, Quantity: 1}},
	})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 55000.0, proc.MaterialCost)
	assert.Equal(t, 95000.0, proc.Margin)
	assert.InDelta(t, 63.33, proc.MarginPercentage, 0.01)

	// cost_per_unit snapshot'ı insert sırasında tazelenmiş olmalı
	var link models.ProcedureMaterial
	assert.NoError(t, db.First(&link, "procedure_id = ?", proc.ID).Error)
	assert.Equal(t, 55000.0, link.CostPerUnit)
}

func TestCreateProcedure_MultipleLines(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "필러")
	m1 := seedMaterial(t, db, "레스틸렌 1cc", 30000)
	m2 := seedMaterial(t, db, "리도카인", 5000)

	proc, status := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "레스틸렌 2cc",
		CategoryID:    cat.ID,
		CustomerPrice: 100000,
		Materials: []MaterialLineRequest{
			{MaterialID: m1.ID, Quantity: 2},
			{MaterialID: m2.ID, Quantity: 1},
		},
	})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 65000.0, proc.MaterialCost)
	assert.Equal(t, 35000.0, proc.Margin)
	assert.Equal(t, 35.0, proc.MarginPercentage)
}

func TestCreateProcedure_NoMaterials(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "고정")

	proc, status := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "상담",
		CategoryID:    cat.ID,
		CustomerPrice: 50000,
	})

	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, 0.0, proc.MaterialCost)
	assert.Equal(t, 50000.0, proc.Margin)
	assert.Equal(t, 100.0, proc.MarginPercentage)
}

func TestCreateProcedure_InvalidQuantity(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "보톡스")
	mat := seedMaterial(t, db, "보톡스 50유닛", 55000)

	_, status := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "이마 보톡스",
		CategoryID:    cat.ID,
		CustomerPrice: 150000,
		Materials:     []MaterialLineRequest{{MaterialID: mat.ID, Quantity: 0}},
	})

	assert.Equal(t, fiber.StatusBadRequest, status)

	var count int64
	db.Model(&models.Procedure{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateProcedure_ReplacesMaterialList(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "필러")
	m1 := seedMaterial(t, db, "레스틸렌 1cc", 30000)
	m2 := seedMaterial(t, db, "쥬비덤 1cc", 45000)

	proc, _ := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "필러 시술",
		CategoryID:    cat.ID,
		CustomerPrice: 200000,
		Materials:     []MaterialLineRequest{{MaterialID: m1.ID, Quantity: 1}},
	})

	body, _ := json.Marshal(UpdateProcedureRequest{
		Materials: []MaterialLineRequest{{MaterialID: m2.ID, Quantity: 2}},
	})
	req := httptest.NewRequest("PUT", "/api/procedures/"+itoa(proc.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var updated models.Procedure
	_ = json.NewDecoder(resp.Body).Decode(&updated)
	assert.Equal(t, 90000.0, updated.MaterialCost)
	assert.Equal(t, 110000.0, updated.Margin)

	// Eski bağlantı silinmiş, tek yeni bağlantı kalmış olmalı
	var links []models.ProcedureMaterial
	db.Where("procedure_id = ?", proc.ID).Find(&links)
	assert.Len(t, links, 1)
	assert.Equal(t, m2.ID, links[0].MaterialID)
}

func TestRecalculate_Idempotent(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "보톡스")
	mat := seedMaterial(t, db, "보톡스 50유닛", 55000)

	proc, _ := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "이마 보톡스",
		CategoryID:    cat.ID,
		CustomerPrice: 150000,
		Materials:     []MaterialLineRequest{{MaterialID: mat.ID, Quantity: 1}},
	})

	// Araya değişiklik girmeden iki kez yeniden hesapla
	first, status1 := postJSON(t, app, "/api/procedures/"+itoa(proc.ID)+"/recalculate", nil)
	second, status2 := postJSON(t, app, "/api/procedures/"+itoa(proc.ID)+"/recalculate", nil)

	assert.Equal(t, fiber.StatusOK, status1)
	assert.Equal(t, fiber.StatusOK, status2)
	assert.Equal(t, first.MaterialCost, second.MaterialCost)
	assert.Equal(t, first.Margin, second.Margin)
	assert.Equal(t, first.MarginPercentage, second.MarginPercentage)
}

func TestRecalculate_RefreshesSnapshotAfterPriceChange(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "보톡스")
	mat := seedMaterial(t, db, "보톡스 50유닛", 55000)

	proc, _ := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "이마 보톡스",
		CategoryID:    cat.ID,
		CustomerPrice: 150000,
		Materials:     []MaterialLineRequest{{MaterialID: mat.ID, Quantity: 1}},
	})

	// Malzeme fiyatı değişir; türetilmiş alanlar kendiliğinden değişmez
	db.Model(&models.Material{}).Where("id = ?", mat.ID).Update("cost", 60000)

	var before models.Procedure
	db.First(&before, proc.ID)
	assert.Equal(t, 55000.0, before.MaterialCost)

	// Recalculate sonrası snapshot ve türetilmiş alanlar tazelenir
	after, status := postJSON(t, app, "/api/procedures/"+itoa(proc.ID)+"/recalculate", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 60000.0, after.MaterialCost)
	assert.Equal(t, 90000.0, after.Margin)

	var link models.ProcedureMaterial
	db.First(&link, "procedure_id = ?", proc.ID)
	assert.Equal(t, 60000.0, link.CostPerUnit)
}

func TestRecalculate_MissingMaterialCountsAsZero(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "필러")
	mat := seedMaterial(t, db, "레스틸렌 1cc", 30000)

	proc, _ := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "필러 시술",
		CategoryID:    cat.ID,
		CustomerPrice: 100000,
		Materials:     []MaterialLineRequest{{MaterialID: mat.ID, Quantity: 1}},
	})

	// Malzeme silinir; satır 0 maliyet sayılır, hesap düşmez
	db.Delete(&models.Material{}, mat.ID)

	after, status := postJSON(t, app, "/api/procedures/"+itoa(proc.ID)+"/recalculate", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, 0.0, after.MaterialCost)
	assert.Equal(t, 100000.0, after.Margin)
}

func TestDeleteProcedure_RemovesLinks(t *testing.T) {
	app, db := setupTestApp(t)
	cat := seedCategory(t, db, "보톡스")
	mat := seedMaterial(t, db, "보톡스 50유닛", 55000)

	proc, _ := postJSON(t, app, "/api/procedures", CreateProcedureRequest{
		Name:          "이마 보톡스",
		CategoryID:    cat.ID,
		CustomerPrice: 150000,
		Materials:     []MaterialLineRequest{{MaterialID: mat.ID, Quantity: 1}},
	})

	req := httptest.NewRequest("DELETE", "/api/procedures/"+itoa(proc.ID), nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var procCount, linkCount int64
	db.Model(&models.Procedure{}).Count(&procCount)
	db.Model(&models.ProcedureMaterial{}).Count(&linkCount)
	assert.Equal(t, int64(0), procCount)
	assert.Equal(t, int64(0), linkCount)
}

func TestListProcedures_FilterByCategory(t *testing.T) {
	app, db := setupTestApp(t)
	botox := seedCategory(t, db, "보톡스")
	filler := seedCategory(t, db, "필러")

	postJSON(t, app, "/api/procedures", CreateProcedureRequest{Name: "이마 보톡스", CategoryID: botox.ID, CustomerPrice: 150000})
	postJSON(t, app, "/api/procedures", CreateProcedureRequest{Name: "레스틸렌 1cc", CategoryID: filler.ID, CustomerPrice: 400000})

	req := httptest.NewRequest("GET", "/api/procedures?category_id="+itoa(botox.ID), nil)
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)

	var procs []models.Procedure
	_ = json.NewDecoder(resp.Body).Decode(&procs)
	assert.Len(t, procs, 1)
	assert.Equal(t, "이마 보톡스", procs[0].Name)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
