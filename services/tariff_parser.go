package services

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"sugurta/config"
	"sugurta/models"

	"github.com/PuerkitoBio/goquery"
	"gorm.io/gorm"
)

// TariffParser собирает базовые рыночные тарифы со страницы
// справочника страховых ставок. Таблица market_tariffs полностью
// перезаписывается при каждом запуске.
type TariffParser struct {
	db *gorm.DB
}

func NewTariffParser(db *gorm.DB) *TariffParser {
	return &TariffParser{db: db}
}

// ParseAndSaveTariffs парсит страницу тарифов и сохраняет результат
func (tp *TariffParser) ParseAndSaveTariffs() error {
	log.Printf("[TARIFF PARSER] Начинаем парсинг рыночных тарифов...")

	cfg := config.LoadConfig()
	url := cfg.TariffSourceURL
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		log.Printf("[TARIFF PARSER ERROR] Ошибка создания запроса: %v", err)
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		log.Printf("[TARIFF PARSER ERROR] Ошибка получения страницы: %v", err)
		return err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Printf("[TARIFF PARSER ERROR] Ошибка парсинга HTML: %v", err)
		return err
	}

	tariffs := tp.ParseTariffsWithGoquery(doc, url)
	if len(tariffs) == 0 {
		log.Printf("[TARIFF PARSER] Тарифы не найдены, таблица не перезаписывается")
		return nil
	}

	return tp.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM market_tariffs").Error; err != nil {
			return err
		}
		for _, t := range tariffs {
			if err := tx.Create(t).Error; err != nil {
				return err
			}
		}
		log.Printf("[TARIFF PARSER] Сохранено %d тарифов", len(tariffs))
		return nil
	})
}

// ParseTariffsWithGoquery извлекает тарифы из таблицы на странице.
// Ожидаемые колонки: категория, уровень риска, годовая ставка (%).
func (tp *TariffParser) ParseTariffsWithGoquery(doc *goquery.Document, sourceURL string) []*models.MarketTariff {
	var tariffs []*models.MarketTariff

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 3 {
			return
		}

		category := strings.ToLower(strings.TrimSpace(cells.Eq(0).Text()))
		riskLevel := strings.ToLower(strings.TrimSpace(cells.Eq(1).Text()))
		rateText := strings.TrimSpace(cells.Eq(2).Text())
		rateText = strings.TrimSuffix(rateText, "%")
		rateText = strings.ReplaceAll(rateText, ",", ".")
		rateText = strings.ReplaceAll(rateText, " ", "")

		rate, err := strconv.ParseFloat(rateText, 64)
		if err != nil || rate <= 0 || category == "" {
			return
		}

		tariffs = append(tariffs, &models.MarketTariff{
			Category:       category,
			RiskLevel:      riskLevel,
			BaseAnnualRate: rate,
			SourceURL:      sourceURL,
		})
	})

	return tariffs
}

// GetTariffs возвращает сохраненные тарифы, опционально по категории
func (tp *TariffParser) GetTariffs(category string) ([]models.MarketTariff, error) {
	var tariffs []models.MarketTariff
	query := tp.db.Order("category, risk_level")
	if category != "" {
		query = query.Where("category = ?", strings.ToLower(category))
	}
	err := query.Find(&tariffs).Error
	return tariffs, err
}
