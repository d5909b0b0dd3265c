package handler

import (
	"encoding/csv"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/cars-practice-api/internal/domain/entity"
	"github.com/yourusername/cars-practice-api/internal/handler/dto"
	"github.com/yourusername/cars-practice-api/internal/service"
)

// ProgressHandler отдает статистику пользователя и выгрузку истории
type ProgressHandler struct {
	progressService *service.ProgressService
}

// NewProgressHandler создает новый обработчик статистики
func NewProgressHandler(progressService *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GetProgress возвращает агрегированную статистику (нули, если сессий еще не было)
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	progress, err := h.progressService.GetProgress(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, "ProgressHandler", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"progress": dto.NewProgressResponse(progress)})
}

// ExportHistory выгружает завершенные сессии в XLSX (по умолчанию) или CSV (?format=csv)
func (h *ProgressHandler) ExportHistory(c *gin.Context) {
	userID := currentUserID(c)
	format := c.DefaultQuery("format", "xlsx")

	sessions, err := h.progressService.ListHistory(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "ProgressHandler", err)
		return
	}

	filename := fmt.Sprintf("cars_history_%d_%s", userID, time.Now().Format("2006-01-02"))

	switch format {
	case "csv":
		h.exportCSV(c, sessions, filename)
	default:
		h.exportXLSX(c, sessions, filename)
	}
}

var historyHeaders = []string{"Дата", "Пассаж", "Категория", "Сложность", "На время", "Верно", "Всего", "Процент", "Время (сек)"}

// historyRow формирует строку выгрузки для завершенной сессии
func historyRow(s *entity.PracticeSession) []string {
	title, category, difficulty := "", "", ""
	if s.Passage != nil {
		title = sanitizeForExcel(s.Passage.Title)
		category = sanitizeForExcel(s.Passage.Category)
		difficulty = string(s.Passage.Difficulty)
	}
	timed := "Нет"
	if s.TimedSession {
		timed = "Да"
	}
	score := 0
	if s.Score != nil {
		score = *s.Score
	}
	percent := "0"
	if s.TotalQuestions > 0 {
		percent = strconv.FormatFloat(float64(score)*100/float64(s.TotalQuestions), 'f', 2, 64)
	}
	spent := ""
	if s.TimeSpent != nil {
		spent = strconv.Itoa(*s.TimeSpent)
	}
	completed := ""
	if s.CompletedAt != nil {
		completed = s.CompletedAt.Format("2006-01-02 15:04")
	}
	return []string{completed, title, category, difficulty, timed, strconv.Itoa(score), strconv.Itoa(s.TotalQuestions), percent, spent}
}

// exportCSV экспортирует историю в CSV с правильным экранированием спецсимволов.
// Заголовки ответа уже отправлены, поэтому ошибки записи только логируются.
func (h *ProgressHandler) exportCSV(c *gin.Context, sessions []entity.PracticeSession, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	if _, err := c.Writer.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		log.Printf("[ProgressHandler] Ошибка записи BOM: %v", err)
		return
	}

	writer := csv.NewWriter(c.Writer)
	if err := writer.Write(historyHeaders); err != nil {
		log.Printf("[ProgressHandler] Ошибка записи заголовков CSV: %v", err)
		return
	}
	for i := range sessions {
		if err := writer.Write(historyRow(&sessions[i])); err != nil {
			log.Printf("[ProgressHandler] Ошибка записи строки CSV %d: %v", i+1, err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("[ProgressHandler] Ошибка Flush CSV: %v", err)
	}
}

// exportXLSX экспортирует историю в Excel с использованием StreamWriter
func (h *ProgressHandler) exportXLSX(c *gin.Context, sessions []entity.PracticeSession, filename string) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "История"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[ProgressHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to create Excel file"})
		return
	}

	headers := make([]interface{}, len(historyHeaders))
	for i, v := range historyHeaders {
		headers[i] = v
	}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[ProgressHandler] Ошибка записи заголовков: %v", err)
	}

	for i := range sessions {
		s := &sessions[i]
		cells := historyRow(s)
		row := make([]interface{}, len(cells))
		for j, v := range cells {
			row[j] = v
		}
		// числовые колонки пишем числами
		if s.Score != nil {
			row[5] = *s.Score
		}
		row[6] = s.TotalQuestions
		if s.TimeSpent != nil {
			row[8] = *s.TimeSpent
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[ProgressHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[ProgressHandler] Ошибка Flush StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "Failed to create Excel file"})
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[ProgressHandler] Ошибка записи XLSX: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
