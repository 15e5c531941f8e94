package cli

import (
	"fmt"

	"vertigo-backend/config"
	"vertigo-backend/controllers"
	"vertigo-backend/repository"
	"vertigo-backend/routes"
	"vertigo-backend/services"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type app struct {
	cfg       config.Config
	log       *zap.Logger
	db        *gorm.DB
	recurring *services.RecurringInvoiceService
	ctrl      routes.Controllers
}

// bootstrap loads configuration, opens the database and wires every
// service. The caller owns log.Sync.
func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := config.NewZapLog(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	db, err := config.ConnectDB(cfg.DBURL, log)
	if err != nil {
		return nil, err
	}
	return wire(cfg, log, db), nil
}

func wire(cfg config.Config, log *zap.Logger, db *gorm.DB) *app {
	orders := repository.NewOrderRepository(db)
	invoices := repository.NewInvoiceRepository(db)
	templates := repository.NewRecurringTemplateRepository(db)
	referrals := repository.NewReferralRepository(db)
	customers := repository.NewCustomerRepository(db)
	tenants := repository.NewTenantRepository(db)
	users := repository.NewUserRepository(db)
	notificationLogs := repository.NewNotificationLogRepository(db)

	var (
		messenger services.Messenger
		calendar  services.CalendarClient
		mailer    services.Mailer
	)
	if cfg.Twilio.Enabled() {
		messenger = services.NewTwilioMessenger(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken,
			cfg.Twilio.PhoneNumber, cfg.Twilio.WhatsAppNumber, log)
	}
	if cfg.Calendar.APIURL != "" {
		calendar = services.NewRestCalendarClient(cfg.Calendar.APIURL, cfg.Calendar.APIKey, cfg.Calendar.Timeout)
	}
	if cfg.Mail.APIURL != "" {
		mailer = services.NewRestMailer(cfg.Mail.APIURL, cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.Timeout)
	}

	numbering := services.NewNumberingService(invoices, tenants)
	invoicing := services.NewInvoiceService(orders, customers, tenants, invoices, numbering, mailer, log)
	notifications := services.NewNotificationService(orders, calendar, mailer, messenger, notificationLogs, log)
	orderWorkflow := services.NewOrderWorkflowService(orders, invoicing, notifications, log)
	recurring := services.NewRecurringInvoiceService(templates, invoices, numbering, log)
	referralService := services.NewReferralService(referrals, customers, messenger, cfg.ReferralTTL(), log)

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		recurring: recurring,
		ctrl: routes.Controllers{
			Auth:      &controllers.AuthController{Users: users, JWTSecret: cfg.JWTSecret, JWTExpiry: cfg.JWTExpiry(), Log: log},
			Orders:    &controllers.OrderController{Orders: orders, Tenants: tenants, Workflow: orderWorkflow, Log: log},
			Invoices:  &controllers.InvoiceController{Invoicer: invoicing, Invoices: invoices, Log: log},
			Recurring: &controllers.RecurringController{Processor: recurring, Invoices: invoices, Log: log},
			Referrals: &controllers.ReferralController{Referrals: referralService, History: referrals, Log: log},
		},
	}
}
