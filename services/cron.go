package services

import (
	"log"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// StartTariffCron запускает ежедневное обновление рыночных тарифов.
// Первый парсинг выполняется сразу при старте.
func StartTariffCron(db *gorm.DB) {
	parser := NewTariffParser(db)

	go func() {
		if err := parser.ParseAndSaveTariffs(); err != nil {
			log.Printf("[TARIFF CRON] Ошибка первичного парсинга: %v", err)
		}
	}()

	c := cron.New()
	c.AddFunc("0 6 * * *", func() {
		if err := parser.ParseAndSaveTariffs(); err != nil {
			log.Printf("[TARIFF CRON] Ошибка обновления тарифов: %v", err)
		}
	})
	c.Start()
}

// StartGroupDeadlineCron раз в пять минут снимает просроченные
// формирующиеся группы
func StartGroupDeadlineCron(db *gorm.DB, notifier *Notifier) {
	groupService := NewGroupService(db, notifier)

	c := cron.New()
	c.AddFunc("*/5 * * * *", func() {
		cancelled, err := groupService.CancelExpiredGroups()
		if err != nil {
			log.Printf("[GROUP CRON] Ошибка снятия просроченных групп: %v", err)
			return
		}
		if cancelled > 0 {
			log.Printf("[GROUP CRON] Снято просроченных групп: %d", cancelled)
		}
	})
	c.Start()
}
